package analysis

// resolver.go — reconstruye el precio YES cerca del instante objetivo.
//
// T = cierre - lookback, ventana [T-W, T+W]. Se elige el punto del histórico
// más cercano a T; si la ventana queda vacía se cae a lastTradePrice. El
// fallback es un resultado degradado pero válido, no un error — queda
// marcado para que el reporte lo haga auditable.

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/polybias/internal/domain"
	"github.com/alejandrodnm/polybias/internal/ports"
)

// Resolver encuentra el precio de entrada de cada mercado.
type Resolver struct {
	history   ports.HistoryProvider
	lookback  time.Duration // offset hacia atrás desde el cierre (default 24h)
	tolerance time.Duration // media ventana de aceptación (default 4h)
}

// NewResolver crea un Resolver con el offset y la tolerancia dados.
func NewResolver(history ports.HistoryProvider, lookback, tolerance time.Duration) *Resolver {
	return &Resolver{history: history, lookback: lookback, tolerance: tolerance}
}

// Resolve devuelve el precio YES en el punto del histórico más cercano a
// T = ClosedAt - lookback dentro de la ventana de tolerancia, o el fallback
// lastTradePrice si no hay punto válido. Precio fuera de [0,1] → el mercado
// falla con ErrMalformedPrice y se salta.
func (r *Resolver) Resolve(ctx context.Context, m domain.Market) (domain.ResolvedEntry, error) {
	target := m.ClosedAt.Add(-r.lookback)
	from := target.Add(-r.tolerance)
	to := target.Add(r.tolerance)

	points, err := r.history.FetchPriceHistory(ctx, m.YesTokenID, from, to)
	if err != nil {
		return domain.ResolvedEntry{}, fmt.Errorf("analysis.Resolve %s: %w: %w",
			m.ConditionID, domain.ErrHistoryUnavailable, err)
	}

	best, ok := nearestInWindow(points, target, r.tolerance)
	if !ok {
		// Sin histórico o sin punto en ventana → fallback a lastTradePrice.
		// Si Gamma tampoco lo reportó no hay precio que inventar: el mercado
		// se salta, nunca entra al agregado con una entrada fabricada.
		if m.LastTradePrice == nil {
			return domain.ResolvedEntry{}, fmt.Errorf("analysis.Resolve %s: %w: no fallback price",
				m.ConditionID, domain.ErrMalformedPrice)
		}
		entry := domain.ResolvedEntry{Price: *m.LastTradePrice, Source: domain.SourceFallback}
		if err := validatePrice(entry.Price); err != nil {
			return domain.ResolvedEntry{}, fmt.Errorf("analysis.Resolve %s: fallback: %w", m.ConditionID, err)
		}
		return entry, nil
	}

	if err := validatePrice(best.Price); err != nil {
		return domain.ResolvedEntry{}, fmt.Errorf("analysis.Resolve %s: history point: %w", m.ConditionID, err)
	}
	return domain.ResolvedEntry{Price: best.Price, Source: domain.SourceHistory}, nil
}

// nearestInWindow elige el punto que minimiza |ts - target| dentro de
// [target-tol, target+tol] (bordes incluidos). En empate exacto gana el
// timestamp más temprano, así el resultado es reproducible e independiente
// del orden del histórico.
func nearestInWindow(points []domain.PricePoint, target time.Time, tol time.Duration) (domain.PricePoint, bool) {
	var best domain.PricePoint
	var bestDiff time.Duration
	found := false

	for _, p := range points {
		diff := absDuration(p.TS.Sub(target))
		if diff > tol {
			continue
		}
		switch {
		case !found, diff < bestDiff:
			best, bestDiff, found = p, diff, true
		case diff == bestDiff && p.TS.Before(best.TS):
			best = p
		}
	}
	return best, found
}

// validatePrice rechaza precios fuera de [0,1]: un registro corrupto upstream.
func validatePrice(p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: %v outside [0,1]", domain.ErrMalformedPrice, p)
	}
	return nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
