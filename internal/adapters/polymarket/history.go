package polymarket

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/polybias/internal/domain"
)

const (
	pricesHistoryPath = "/prices-history"
	// fidelity=60: resolución de 60 minutos, suficiente para una ventana de
	// horas alrededor del instante objetivo.
	historyFidelity = 60
)

// FetchPriceHistory obtiene el histórico (t, p) de un token del CLOB en
// [from, to]. Puede devolver una lista vacía — el resolver decide entonces
// el fallback. Los reintentos transitorios los maneja el client.
func (c *Client) FetchPriceHistory(ctx context.Context, tokenID string, from, to time.Time) ([]domain.PricePoint, error) {
	reqURL := fmt.Sprintf("%s%s?market=%s&startTs=%d&endTs=%d&fidelity=%d",
		c.clobBase,
		pricesHistoryPath,
		tokenID,
		from.Unix(),
		to.Unix(),
		historyFidelity,
	)

	var resp priceHistoryResponse
	if err := c.get(ctx, c.clobLimiter, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("clob.FetchPriceHistory: %w", err)
	}

	return mapPriceHistory(resp), nil
}
