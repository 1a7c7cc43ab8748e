package analysis_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alejandrodnm/polybias/internal/analysis"
	"github.com/alejandrodnm/polybias/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockMarketProvider struct {
	markets []domain.Market
	err     error
}

func (m *mockMarketProvider) FetchClosedMarkets(_ context.Context, _ int, _ float64) ([]domain.Market, error) {
	return m.markets, m.err
}

// mockHistoryByToken sirve histórico distinto por token.
type mockHistoryByToken struct {
	points map[string][]domain.PricePoint
	errs   map[string]error
}

func (m *mockHistoryByToken) FetchPriceHistory(_ context.Context, tokenID string, _, _ time.Time) ([]domain.PricePoint, error) {
	if err, ok := m.errs[tokenID]; ok {
		return nil, err
	}
	return m.points[tokenID], nil
}

// --- helpers ---

func cleanMarket(i int, winner domain.Side, lastTrade float64) domain.Market {
	yes, no := 0.998, 0.002
	if winner == domain.SideNo {
		yes, no = 0.002, 0.998
	}
	return domain.Market{
		ConditionID:    fmt.Sprintf("0x%04d", i),
		Question:       fmt.Sprintf("market %d", i),
		YesTokenID:     fmt.Sprintf("yes%d", i),
		NoTokenID:      fmt.Sprintf("no%d", i),
		Volume:         50_000,
		ClosedAt:       time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		FinalYesPrice:  yes,
		FinalNoPrice:   no,
		LastTradePrice: &lastTrade,
	}
}

func historyFor(m domain.Market, price float64) (string, []domain.PricePoint) {
	target := m.ClosedAt.Add(-24 * time.Hour)
	return m.YesTokenID, []domain.PricePoint{{TS: target.Add(30 * time.Minute), Price: price}}
}

func newPipeline(mp *mockMarketProvider, h *mockHistoryByToken, workers int) *analysis.Pipeline {
	cfg := analysis.DefaultConfig()
	cfg.Workers = workers
	return analysis.New(cfg, mp, h)
}

// --- tests ---

func TestPipeline_Run_Success(t *testing.T) {
	m1 := cleanMarket(1, domain.SideYes, 0.5)
	m2 := cleanMarket(2, domain.SideNo, 0.5)
	ambiguous := cleanMarket(3, domain.SideYes, 0.5)
	ambiguous.FinalYesPrice, ambiguous.FinalNoPrice = 0.60, 0.40

	tok1, pts1 := historyFor(m1, 0.70)
	tok2, pts2 := historyFor(m2, 0.35)

	mp := &mockMarketProvider{markets: []domain.Market{m1, m2, ambiguous}}
	h := &mockHistoryByToken{points: map[string][]domain.PricePoint{tok1: pts1, tok2: pts2}}

	report, err := newPipeline(mp, h, 4).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.MarketsAnalyzed)
	assert.Equal(t, 1, report.DroppedUnresolved)
	assert.Equal(t, 0, report.FallbackPricesUsed)

	assert.Equal(t, 1, report.BlindYes.Wins)
	assert.Equal(t, 1, report.BlindYes.Losses)
	// BlindYes: (1-0.70) + (0-0.35) = -0.05
	assert.InDelta(t, -0.05, report.BlindYes.TotalPnL, 1e-9)
	// BlindNo: (0-0.30) + (1-0.65) = 0.05
	assert.InDelta(t, 0.05, report.BlindNo.TotalPnL, 1e-9)

	// Desglose más reciente primero: m2 cerró después de m1.
	require.Len(t, report.Results, 2)
	assert.Equal(t, m2.ConditionID, report.Results[0].Market.ConditionID)
}

func TestPipeline_Run_CatalogErrorIsFatal(t *testing.T) {
	mp := &mockMarketProvider{err: errors.New("gamma down")}
	h := &mockHistoryByToken{}

	_, err := newPipeline(mp, h, 2).Run(context.Background())
	assert.Error(t, err, "sin catálogo no hay reporte parcial")
}

func TestPipeline_Run_HistoryErrorSkipsMarket(t *testing.T) {
	m1 := cleanMarket(1, domain.SideYes, 0.5)
	m2 := cleanMarket(2, domain.SideNo, 0.5)
	tok2, pts2 := historyFor(m2, 0.35)

	mp := &mockMarketProvider{markets: []domain.Market{m1, m2}}
	h := &mockHistoryByToken{
		points: map[string][]domain.PricePoint{tok2: pts2},
		errs:   map[string]error{m1.YesTokenID: errors.New("timeout after retries")},
	}

	report, err := newPipeline(mp, h, 2).Run(context.Background())

	require.NoError(t, err, "el fallo de un mercado no aborta el run")
	assert.Equal(t, 1, report.MarketsAnalyzed)
	assert.Equal(t, 1, report.SkippedFetch)
}

func TestPipeline_Run_FallbackCounted(t *testing.T) {
	m1 := cleanMarket(1, domain.SideYes, 0.66) // sin histórico → lastTradePrice

	mp := &mockMarketProvider{markets: []domain.Market{m1}}
	h := &mockHistoryByToken{}

	report, err := newPipeline(mp, h, 2).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.MarketsAnalyzed)
	assert.Equal(t, 1, report.FallbackPricesUsed)
	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Entry.UsedFallback())
	assert.Equal(t, 0.66, report.Results[0].Entry.Price)
}

func TestPipeline_Run_MalformedMarketSkipped(t *testing.T) {
	bad := cleanMarket(1, domain.SideYes, 0.5)
	bad.FinalYesPrice = 1.5 // pasa el filtro pero falla la validación de dominio
	bad.FinalNoPrice = 0.0
	good := cleanMarket(2, domain.SideNo, 0.5)
	tok2, pts2 := historyFor(good, 0.35)

	mp := &mockMarketProvider{markets: []domain.Market{bad, good}}
	h := &mockHistoryByToken{points: map[string][]domain.PricePoint{tok2: pts2}}

	report, err := newPipeline(mp, h, 2).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.MarketsAnalyzed)
	assert.Equal(t, 1, report.SkippedMalformed)
}

func TestPipeline_Run_MissingFallbackSkipped(t *testing.T) {
	// Mercado sin histórico ni lastTradePrice: se salta como malformado en
	// vez de entrar al agregado con una entrada a 0.0.
	noFallback := cleanMarket(1, domain.SideYes, 0)
	noFallback.LastTradePrice = nil
	good := cleanMarket(2, domain.SideYes, 0.5)
	tok2, pts2 := historyFor(good, 0.70)

	mp := &mockMarketProvider{markets: []domain.Market{noFallback, good}}
	h := &mockHistoryByToken{points: map[string][]domain.PricePoint{tok2: pts2}}

	report, err := newPipeline(mp, h, 2).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.MarketsAnalyzed)
	assert.Equal(t, 1, report.SkippedMalformed)
	assert.Equal(t, 0, report.FallbackPricesUsed)
	// Solo el mercado bueno aporta pnl: BlindYes = 1-0.70, sin el +1.0
	// fantasma de una entrada gratis.
	assert.InDelta(t, 0.30, report.BlindYes.TotalPnL, 1e-9)
}

func TestPipeline_Run_Cancelled(t *testing.T) {
	m1 := cleanMarket(1, domain.SideYes, 0.5)
	mp := &mockMarketProvider{markets: []domain.Market{m1}}
	h := &mockHistoryByToken{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline(mp, h, 2).Run(ctx)
	assert.Error(t, err, "un run cancelado no debe producir reporte")
}
