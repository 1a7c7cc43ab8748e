package domain

import "time"

// StrategyReport es el agregado de una estrategia sobre todo el run.
type StrategyReport struct {
	Strategy      Side
	Wins          int
	Losses        int
	WinRate       float64 // Wins / (Wins+Losses); 0 por convención si no hay mercados
	TotalPnL      float64 // suma de PnL unitarios, sin ponderar por volumen
	AvgEntryPrice float64
}

// RunReport es el resultado completo de un run del pipeline. Se construye
// desde cero en cada ejecución y es inmutable una vez que el agregador
// termina; los sinks solo lo consumen.
type RunReport struct {
	ID    string // uuid del run
	RanAt time.Time

	BlindYes StrategyReport
	BlindNo  StrategyReport

	// Contadores de calidad de datos del run.
	MarketsAnalyzed    int // mercados que llegaron al agregado
	FallbackPricesUsed int // entradas resueltas vía lastTradePrice
	DroppedUnresolved  int // descartados por el filtro (no es un error)
	SkippedMalformed   int // saltados por datos fuera de dominio
	SkippedFetch       int // saltados por fetch de histórico agotado

	// Desglose por mercado, más reciente primero. Lo usa la tabla de detalle
	// de consola; los sinks duraderos solo persisten el agregado.
	Results []MarketResult
}
