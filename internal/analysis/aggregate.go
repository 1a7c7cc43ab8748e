package analysis

// aggregate.go — reducción determinista e independiente del orden.
// Barajar los mercados de entrada produce el mismo RunReport.

import (
	"sort"
	"time"

	"github.com/alejandrodnm/polybias/internal/domain"
	"github.com/google/uuid"
)

// Counters acumula los contadores de calidad de datos del run. Solo los
// toca la goroutine que reduce tras la barrera — sin locks en el hot path.
type Counters struct {
	DroppedUnresolved int
	FallbackUsed      int
	SkippedMalformed  int
	SkippedFetch      int
}

// Aggregate reduce los resultados por mercado a un RunReport nuevo. Tolera
// cero mercados: todos los campos quedan a cero (winRate 0 por convención),
// nunca NaN.
func Aggregate(results []domain.MarketResult, counters Counters) domain.RunReport {
	// Orden estable por fecha de cierre descendente: el desglose de consola
	// muestra lo más reciente primero y el reporte no depende del orden en
	// que terminaron los workers.
	sorted := make([]domain.MarketResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Market.ClosedAt.Equal(sorted[j].Market.ClosedAt) {
			return sorted[i].Market.ClosedAt.After(sorted[j].Market.ClosedAt)
		}
		return sorted[i].Market.ConditionID < sorted[j].Market.ConditionID
	})

	report := domain.RunReport{
		ID:                 uuid.New().String(),
		RanAt:              time.Now().UTC(),
		MarketsAnalyzed:    len(sorted),
		FallbackPricesUsed: counters.FallbackUsed,
		DroppedUnresolved:  counters.DroppedUnresolved,
		SkippedMalformed:   counters.SkippedMalformed,
		SkippedFetch:       counters.SkippedFetch,
		Results:            sorted,
	}

	yes := newAccumulator(domain.SideYes)
	no := newAccumulator(domain.SideNo)
	for _, r := range sorted {
		yes.add(r.Yes)
		no.add(r.No)
	}
	report.BlindYes = yes.report()
	report.BlindNo = no.report()

	return report
}

// accumulator acumula una estrategia. La suma es conmutativa, de ahí la
// independencia del orden.
type accumulator struct {
	strategy domain.Side
	wins     int
	losses   int
	totalPnL float64
	entrySum float64
}

func newAccumulator(strategy domain.Side) *accumulator {
	return &accumulator{strategy: strategy}
}

func (a *accumulator) add(o domain.StrategyOutcome) {
	if o.Won {
		a.wins++
	} else {
		a.losses++
	}
	a.totalPnL += o.PnL
	a.entrySum += o.EntryPrice
}

func (a *accumulator) report() domain.StrategyReport {
	r := domain.StrategyReport{
		Strategy: a.strategy,
		Wins:     a.wins,
		Losses:   a.losses,
		TotalPnL: a.totalPnL,
	}
	if n := a.wins + a.losses; n > 0 {
		r.WinRate = float64(a.wins) / float64(n)
		r.AvgEntryPrice = a.entrySum / float64(n)
	}
	return r
}
