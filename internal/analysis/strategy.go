package analysis

import "github.com/alejandrodnm/polybias/internal/domain"

// Evaluate calcula el resultado de las dos estrategias ciegas sobre un
// mercado resuelto. yesPrice es el precio YES resuelto; el precio NO se
// deriva como 1-p, nunca se consulta por separado. Ambas estrategias se
// evalúan sobre cada mercado — no son asignaciones excluyentes.
//
// pnl = payoff - precio de entrada, con payoff 1 si la estrategia acierta
// el lado ganador y 0 si no. Una unidad de notional por mercado.
func Evaluate(winner domain.Side, yesPrice float64) (yes, no domain.StrategyOutcome) {
	yes = evaluateSide(domain.SideYes, yesPrice, winner)
	no = evaluateSide(domain.SideNo, 1-yesPrice, winner)
	return yes, no
}

func evaluateSide(strategy domain.Side, entry float64, winner domain.Side) domain.StrategyOutcome {
	won := strategy == winner
	payoff := 0.0
	if won {
		payoff = 1.0
	}
	return domain.StrategyOutcome{
		Strategy:   strategy,
		EntryPrice: entry,
		Won:        won,
		PnL:        payoff - entry,
	}
}
