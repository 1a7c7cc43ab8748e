package analysis_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alejandrodnm/polybias/internal/analysis"
	"github.com/alejandrodnm/polybias/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeResult construye un MarketResult completo para el agregador.
func makeResult(i int, winner domain.Side, yesEntry float64, closed time.Time) domain.MarketResult {
	yes, no := analysis.Evaluate(winner, yesEntry)
	return domain.MarketResult{
		Market: domain.Market{
			ConditionID: fmt.Sprintf("0x%04d", i),
			ClosedAt:    closed,
		},
		Winner: winner,
		Entry:  domain.ResolvedEntry{Price: yesEntry, Source: domain.SourceHistory},
		Yes:    yes,
		No:     no,
	}
}

// regressionFixture replica el run documentado: 100 mercados limpios, 55
// resuelven Yes con entradas YES a 0.555 y 45 resuelven No con entradas YES
// a 0.445.
func regressionFixture() []domain.MarketResult {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	results := make([]domain.MarketResult, 0, 100)
	for i := 0; i < 55; i++ {
		results = append(results, makeResult(i, domain.SideYes, 0.555, base.Add(time.Duration(i)*time.Hour)))
	}
	for i := 55; i < 100; i++ {
		results = append(results, makeResult(i, domain.SideNo, 0.445, base.Add(time.Duration(i)*time.Hour)))
	}
	return results
}

func TestAggregate_RegressionFixture(t *testing.T) {
	report := analysis.Aggregate(regressionFixture(), analysis.Counters{})

	assert.Equal(t, 100, report.MarketsAnalyzed)

	assert.Equal(t, 55, report.BlindYes.Wins)
	assert.Equal(t, 45, report.BlindYes.Losses)
	assert.InDelta(t, 0.55, report.BlindYes.WinRate, 1e-9)

	assert.Equal(t, 45, report.BlindNo.Wins)
	assert.Equal(t, 55, report.BlindNo.Losses)
	assert.InDelta(t, 0.45, report.BlindNo.WinRate, 1e-9)

	// Entrada media YES sobre los 100 mercados: (55·0.555 + 45·0.445)/100.
	assert.InDelta(t, 0.5055, report.BlindYes.AvgEntryPrice, 1e-9)
	// La entrada NO es 1-p por mercado.
	assert.InDelta(t, 1-0.5055, report.BlindNo.AvgEntryPrice, 1e-9)
}

func TestAggregate_ComplementaryWinRates(t *testing.T) {
	// Cada mercado resuelve exactamente a un lado → los win rates suman 1.
	report := analysis.Aggregate(regressionFixture(), analysis.Counters{})
	assert.InDelta(t, 1.0, report.BlindYes.WinRate+report.BlindNo.WinRate, 1e-9)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	results := regressionFixture()
	baseline := analysis.Aggregate(results, analysis.Counters{})

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]domain.MarketResult, len(results))
		copy(shuffled, results)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		report := analysis.Aggregate(shuffled, analysis.Counters{})

		assert.Equal(t, baseline.BlindYes, report.BlindYes)
		assert.Equal(t, baseline.BlindNo, report.BlindNo)
		assert.Equal(t, baseline.MarketsAnalyzed, report.MarketsAnalyzed)
		require.Len(t, report.Results, len(baseline.Results))
		for i := range report.Results {
			assert.Equal(t, baseline.Results[i].Market.ConditionID, report.Results[i].Market.ConditionID,
				"el desglose debe quedar en el mismo orden estable")
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	report := analysis.Aggregate(nil, analysis.Counters{DroppedUnresolved: 7})

	assert.Equal(t, 0, report.MarketsAnalyzed)
	assert.Equal(t, 7, report.DroppedUnresolved)
	assert.Zero(t, report.BlindYes.Wins)
	assert.Zero(t, report.BlindYes.WinRate, "winRate 0 por convención con cero mercados")
	assert.Zero(t, report.BlindYes.AvgEntryPrice)
	assert.Zero(t, report.BlindNo.TotalPnL)
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.RanAt.IsZero())
}

func TestAggregate_CountersCarried(t *testing.T) {
	counters := analysis.Counters{
		DroppedUnresolved: 3,
		FallbackUsed:      5,
		SkippedMalformed:  1,
		SkippedFetch:      2,
	}
	report := analysis.Aggregate(regressionFixture(), counters)

	assert.Equal(t, 3, report.DroppedUnresolved)
	assert.Equal(t, 5, report.FallbackPricesUsed)
	assert.Equal(t, 1, report.SkippedMalformed)
	assert.Equal(t, 2, report.SkippedFetch)
}

func TestAggregate_TotalPnLIsUnitStake(t *testing.T) {
	// totalPnl es la suma de pnls unitarios, sin ponderar por volumen.
	results := []domain.MarketResult{
		makeResult(1, domain.SideYes, 0.60, time.Now().UTC()),
		makeResult(2, domain.SideNo, 0.30, time.Now().UTC()),
	}
	results[0].Market.Volume = 1_000_000 // el volumen no pesa en el pnl
	results[1].Market.Volume = 10_000

	report := analysis.Aggregate(results, analysis.Counters{})

	// BlindYes: (1-0.60) + (0-0.30) = 0.10
	assert.InDelta(t, 0.10, report.BlindYes.TotalPnL, 1e-9)
	// BlindNo: (0-0.40) + (1-0.70) = -0.10
	assert.InDelta(t, -0.10, report.BlindNo.TotalPnL, 1e-9)
}
