package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/polybias/internal/domain"
)

// HistoryProvider obtiene el histórico de precios de un token del CLOB.
type HistoryProvider interface {
	// FetchPriceHistory devuelve los puntos (timestamp, precio) del token en
	// [from, to], ordenados por timestamp. Puede devolver una lista vacía —
	// no todos los tokens tienen histórico denso.
	FetchPriceHistory(ctx context.Context, tokenID string, from, to time.Time) ([]domain.PricePoint, error)
}
