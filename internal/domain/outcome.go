package domain

// StrategyOutcome es el resultado de una estrategia ciega sobre un mercado.
// PnL en unidades de precio: una unidad de notional por mercado, sin fees
// ni slippage.
type StrategyOutcome struct {
	Strategy   Side    // lado que compra la estrategia
	EntryPrice float64 // precio de entrada del token comprado
	Won        bool
	PnL        float64 // payoff - EntryPrice, con payoff ∈ {0, 1}
}

// MarketResult agrupa todo lo calculado para un mercado que sobrevivió el
// filtro y el resolver: ambas estrategias se evalúan siempre sobre cada uno.
type MarketResult struct {
	Market Market
	Winner Side
	Entry  ResolvedEntry // precio YES cerca del instante objetivo
	Yes    StrategyOutcome
	No     StrategyOutcome
}
