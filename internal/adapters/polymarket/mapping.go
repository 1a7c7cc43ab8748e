package polymarket

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polybias/internal/domain"
)

// mapGammaMarkets convierte los DTOs de Gamma a domain.Market. Los registros
// que no son binarios (dos outcomes, dos precios, dos token ids) se
// descartan en el borde con un log de debug — la muestra debe contener solo
// mercados binarios, igual que el contrato del adapter.
func mapGammaMarkets(raw []gammaMarket) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		m, ok := mapGammaMarket(r)
		if !ok {
			slog.Debug("non-binary or unparseable market dropped",
				"condition_id", r.ConditionID)
			continue
		}
		markets = append(markets, m)
	}
	return markets
}

// mapGammaMarket convierte un gammaMarket DTO a domain.Market.
// ok=false si el registro no tiene la forma binaria esperada.
func mapGammaMarket(r gammaMarket) (domain.Market, bool) {
	outcomes, ok := parseJSONStrings(r.Outcomes)
	if !ok || len(outcomes) != 2 {
		return domain.Market{}, false
	}
	prices, ok := parseJSONStrings(r.OutcomePrices)
	if !ok || len(prices) != 2 {
		return domain.Market{}, false
	}
	tokenIDs, ok := parseJSONStrings(r.CLOBTokenIDs)
	if !ok || len(tokenIDs) != 2 {
		return domain.Market{}, false
	}

	// El outcome etiquetado "Yes" marca el índice YES; si no existe se asume
	// el índice 0, el convenio del catálogo.
	yesIdx := 0
	for i, o := range outcomes {
		if o == "Yes" {
			yesIdx = i
			break
		}
	}
	noIdx := 1 - yesIdx

	yesPrice, okYes := parsePrice(prices[yesIdx])
	noPrice, okNo := parsePrice(prices[noIdx])
	if !okYes || !okNo {
		return domain.Market{}, false
	}

	closedAt, ok := parseClosedTime(r.ClosedTime)
	if !ok {
		return domain.Market{}, false
	}

	m := domain.Market{
		ConditionID:   r.ConditionID,
		Question:      r.Question,
		YesTokenID:    tokenIDs[yesIdx],
		NoTokenID:     tokenIDs[noIdx],
		ClosedAt:      closedAt,
		FinalYesPrice: yesPrice,
		FinalNoPrice:  noPrice,
	}
	if v, err := r.VolumeNum.Float64(); err == nil {
		m.Volume = v
	}
	// lastTradePrice ausente o ilegible se deja en nil: el resolver no puede
	// fabricar un fallback y el mercado se salta si la ventana queda vacía.
	if p, err := r.LastTradePrice.Float64(); err == nil {
		m.LastTradePrice = &p
	}
	return m, true
}

// parseJSONStrings decodifica un campo que Gamma entrega como string JSON
// con un array de strings dentro.
func parseJSONStrings(s string) ([]string, bool) {
	if s == "" {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, false
	}
	return out, true
}

func parsePrice(s string) (float64, bool) {
	v, err := json.Number(s).Float64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseClosedTime acepta los formatos de fecha que usa Polymarket.
func parseClosedTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05-07",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// mapPriceHistory convierte la respuesta de /prices-history a PricePoints
// ordenados tal como llegan (el resolver no depende del orden).
func mapPriceHistory(raw priceHistoryResponse) []domain.PricePoint {
	points := make([]domain.PricePoint, 0, len(raw.History))
	for _, p := range raw.History {
		sec, err := p.T.Int64()
		if err != nil {
			continue
		}
		price, err := p.P.Float64()
		if err != nil {
			continue
		}
		points = append(points, domain.PricePoint{
			TS:    time.Unix(sec, 0).UTC(),
			Price: price,
		})
	}
	return points
}
