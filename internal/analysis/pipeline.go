package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polybias/internal/domain"
	"github.com/alejandrodnm/polybias/internal/ports"
)

// Config controla un run del pipeline.
type Config struct {
	Limit     int           // máximo de mercados a muestrear
	MinVolume float64       // suelo de volumen en USD
	Lookback  time.Duration // offset del precio de entrada antes del cierre
	Tolerance time.Duration // media ventana de aceptación del histórico
	Workers   int           // tamaño del worker pool para los fetches de histórico
}

// DefaultConfig devuelve los defaults documentados del análisis.
func DefaultConfig() Config {
	return Config{
		Limit:     100,
		MinVolume: 10_000,
		Lookback:  24 * time.Hour,
		Tolerance: 4 * time.Hour,
		Workers:   8,
	}
}

// Pipeline es el orquestador del análisis: catálogo → filtro → resolver →
// estrategias → agregado. Cada etapa consume solo la salida de la anterior.
type Pipeline struct {
	cfg      Config
	markets  ports.MarketProvider
	resolver *Resolver
}

// New crea un Pipeline con las dependencias inyectadas.
func New(cfg Config, markets ports.MarketProvider, history ports.HistoryProvider) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	return &Pipeline{
		cfg:      cfg,
		markets:  markets,
		resolver: NewResolver(history, cfg.Lookback, cfg.Tolerance),
	}
}

// Run ejecuta un análisis completo y devuelve el reporte. Solo el fetch del
// catálogo es fatal: sin él la composición de la muestra queda indefinida y
// no se produce reporte parcial. Los fallos por mercado se saltan y cuentan.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	start := time.Now()

	markets, err := p.markets.FetchClosedMarkets(ctx, p.cfg.Limit, p.cfg.MinVolume)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("analysis.Run: fetch catalog: %w", err)
	}
	slog.Info("catalog fetched",
		"markets", len(markets),
		"limit", p.cfg.Limit,
		"min_volume", p.cfg.MinVolume,
	)

	var counters Counters

	// Filtro de resolución limpia: puro, sin red. Los ambiguos/anulados se
	// descartan sin tocar ningún contador de error.
	type candidate struct {
		market domain.Market
		winner domain.Side
	}
	candidates := make([]candidate, 0, len(markets))
	for _, m := range markets {
		winner, ok := Classify(m)
		if !ok {
			counters.DroppedUnresolved++
			continue
		}
		candidates = append(candidates, candidate{market: m, winner: winner})
	}
	slog.Info("resolution filter applied",
		"clean", len(candidates),
		"dropped", counters.DroppedUnresolved,
	)

	// Worker pool para las etapas con red (resolver + estrategias).
	work := make([]marketWork, len(candidates))
	for i, c := range candidates {
		work[i] = marketWork{market: c.market, winner: c.winner}
	}
	outcomes := p.analyzeConcurrent(ctx, work)

	// Barrera pasada: reducción secuencial de resultados y contadores.
	results := make([]domain.MarketResult, 0, len(outcomes))
	for _, out := range outcomes {
		if out.err != nil {
			switch {
			case errors.Is(out.err, domain.ErrMalformedPrice), errors.Is(out.err, domain.ErrMalformedMarket):
				counters.SkippedMalformed++
				slog.Warn("market skipped: malformed data",
					"condition_id", out.conditionID, "err", out.err)
			case errors.Is(out.err, domain.ErrHistoryUnavailable):
				counters.SkippedFetch++
				slog.Warn("market skipped: history fetch failed",
					"condition_id", out.conditionID, "err", out.err)
			default:
				// Cancelación u otro error de contexto: el run ya no puede
				// producir una muestra coherente.
				return domain.RunReport{}, fmt.Errorf("analysis.Run: %w", out.err)
			}
			continue
		}
		if out.result.Entry.UsedFallback() {
			counters.FallbackUsed++
		}
		results = append(results, out.result)
	}

	if err := ctx.Err(); err != nil {
		return domain.RunReport{}, fmt.Errorf("analysis.Run: %w", err)
	}

	report := Aggregate(results, counters)
	slog.Info("analysis complete",
		"markets_analyzed", report.MarketsAnalyzed,
		"fallback_prices", report.FallbackPricesUsed,
		"skipped_malformed", report.SkippedMalformed,
		"skipped_fetch", report.SkippedFetch,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}

// analyzeMarket ejecuta las etapas por mercado: validación de dominio,
// resolver del precio de entrada y evaluación de ambas estrategias.
func (p *Pipeline) analyzeMarket(ctx context.Context, w marketWork) (domain.MarketResult, error) {
	if err := w.market.Validate(); err != nil {
		return domain.MarketResult{}, fmt.Errorf("analysis.analyzeMarket %s: %w", w.market.ConditionID, err)
	}

	entry, err := p.resolver.Resolve(ctx, w.market)
	if err != nil {
		return domain.MarketResult{}, err
	}

	yes, no := Evaluate(w.winner, entry.Price)
	return domain.MarketResult{
		Market: w.market,
		Winner: w.winner,
		Entry:  entry,
		Yes:    yes,
		No:     no,
	}, nil
}
