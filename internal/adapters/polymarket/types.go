package polymarket

import "encoding/json"

// DTOs raw de la API de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaMarketsResponse es la respuesta de GET /markets de Gamma.
type gammaMarketsResponse []gammaMarket

// gammaMarket es un mercado cerrado del catálogo. Gamma devuelve los arrays
// de outcomes/precios/token ids como strings JSON anidados, y varios campos
// numéricos como strings — usamos json.Number y decodificamos aparte.
type gammaMarket struct {
	ConditionID    string      `json:"conditionId"`
	Question       string      `json:"question"`
	Outcomes       string      `json:"outcomes"`      // JSON: ["Yes","No"]
	OutcomePrices  string      `json:"outcomePrices"` // JSON: ["0.995","0.005"]
	CLOBTokenIDs   string      `json:"clobTokenIds"`  // JSON: ["123...","456..."]
	ClosedTime     string      `json:"closedTime"`
	VolumeNum      json.Number `json:"volumeNum"`
	LastTradePrice json.Number `json:"lastTradePrice"`
}

// --- CLOB API ---

// priceHistoryResponse es la respuesta de GET /prices-history.
type priceHistoryResponse struct {
	History []pricePointRaw `json:"history"`
}

// pricePointRaw es un punto (t, p) del histórico. t en epoch seconds.
type pricePointRaw struct {
	T json.Number `json:"t"`
	P json.Number `json:"p"`
}
