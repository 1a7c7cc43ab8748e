package ports

import (
	"context"

	"github.com/alejandrodnm/polybias/internal/domain"
)

// MarketProvider obtiene el catálogo de mercados cerrados desde Gamma.
type MarketProvider interface {
	// FetchClosedMarkets devuelve hasta limit mercados binarios recién
	// cerrados con volumen > minVolume, ordenados por fecha de cierre
	// descendente. Un error aquí es fatal para el run: sin la muestra
	// completa el reporte no tiene sentido.
	FetchClosedMarkets(ctx context.Context, limit int, minVolume float64) ([]domain.Market, error)
}
