package domain

import "time"

// Side es uno de los dos lados de un mercado binario.
type Side string

const (
	SideYes Side = "Yes"
	SideNo  Side = "No"
)

// Opposite devuelve el lado contrario.
func (s Side) Opposite() Side {
	if s == SideYes {
		return SideNo
	}
	return SideYes
}

// Market representa un mercado binario de Polymarket ya cerrado y resuelto.
// Se construye una sola vez en el adapter de Gamma y fluye inmutable por el pipeline.
type Market struct {
	ConditionID   string
	Question      string
	YesTokenID    string
	NoTokenID     string
	Volume        float64   // volumen total en USD
	ClosedAt      time.Time // instante de resolución
	FinalYesPrice float64   // precio final del token YES, en [0,1]
	FinalNoPrice  float64   // precio final del token NO, en [0,1]

	// LastTradePrice es el último trade del token YES, fallback del resolver.
	// nil si Gamma no lo reporta: sin fallback el mercado no es analizable.
	LastTradePrice *float64
}

// Validate comprueba que los valores numéricos están en su dominio válido.
// Un mercado fuera de dominio se salta y se cuenta, nunca aborta el run.
func (m Market) Validate() error {
	if m.FinalYesPrice < 0 || m.FinalYesPrice > 1 {
		return ErrMalformedMarket
	}
	if m.FinalNoPrice < 0 || m.FinalNoPrice > 1 {
		return ErrMalformedMarket
	}
	if m.Volume < 0 {
		return ErrMalformedMarket
	}
	if m.ClosedAt.IsZero() {
		return ErrMalformedMarket
	}
	return nil
}

// PricePoint es una muestra (timestamp, precio) del histórico de un token.
type PricePoint struct {
	TS    time.Time
	Price float64
}

// PriceSource indica de dónde salió el precio de entrada resuelto.
type PriceSource string

const (
	// SourceHistory: el precio viene de un punto del histórico dentro de la ventana.
	SourceHistory PriceSource = "history"
	// SourceFallback: no hubo punto válido y se usó lastTradePrice.
	SourceFallback PriceSource = "fallback"
)

// ResolvedEntry es el precio de entrada del token YES cerca del instante objetivo.
// Se calcula una vez por mercado y es inmutable después.
type ResolvedEntry struct {
	Price  float64
	Source PriceSource
}

// UsedFallback devuelve true si el precio salió de lastTradePrice.
func (e ResolvedEntry) UsedFallback() bool {
	return e.Source == SourceFallback
}
