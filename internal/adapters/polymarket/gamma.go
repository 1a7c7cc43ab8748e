package polymarket

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/polybias/internal/domain"
)

const (
	gammaMarketsPath = "/markets"
	// Gamma pagina a máx 100 por request; limit es un tope de muestra, no
	// una petición de histórico exhaustivo.
	gammaPageMax = 100
)

// FetchClosedMarkets obtiene hasta limit mercados binarios recién cerrados
// con volumen > minVolume, ordenados por fecha de cierre descendente.
// Un error de red o un payload indecodificable aquí es fatal para el run.
func (c *Client) FetchClosedMarkets(ctx context.Context, limit int, minVolume float64) ([]domain.Market, error) {
	if limit <= 0 || limit > gammaPageMax {
		limit = gammaPageMax
	}

	q := url.Values{}
	q.Set("closed", "true")
	q.Set("volume_num_min", fmt.Sprintf("%.0f", minVolume))
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("order", "closedTime")
	q.Set("ascending", "false")

	reqURL := c.gammaBase + gammaMarketsPath + "?" + q.Encode()

	var resp gammaMarketsResponse
	if err := c.get(ctx, c.gammaLimiter, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("gamma.FetchClosedMarkets: %w", err)
	}

	markets := mapGammaMarkets(resp)
	slog.Debug("closed markets fetched",
		"received", len(resp),
		"binary", len(markets),
	)
	return markets, nil
}
