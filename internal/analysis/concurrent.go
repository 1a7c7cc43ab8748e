package analysis

// concurrent.go — worker pool acotado para los fetches de histórico.
//
// Los fetches por mercado son lecturas independientes; paralelizarlos es lo
// único que merece la pena en este batch job. Los workers producen valores
// independientes que se reducen una sola vez tras la barrera.

import (
	"context"
	"sync"

	"github.com/alejandrodnm/polybias/internal/domain"
)

// marketWork es la unidad de trabajo de un worker: un mercado limpio con su
// lado ganador ya clasificado.
type marketWork struct {
	market domain.Market
	winner domain.Side
}

// marketOutcome es lo que emite un worker: resultado o error por mercado.
type marketOutcome struct {
	conditionID string
	result      domain.MarketResult
	err         error
}

// analyzeConcurrent procesa los mercados con cfg.Workers workers. Si el
// contexto se cancela, los workers dejan de tomar trabajo y los fetches en
// vuelo se cortan cooperativamente vía ctx — sus resultados se descartarían
// igualmente.
func (p *Pipeline) analyzeConcurrent(ctx context.Context, work []marketWork) []marketOutcome {
	workCh := make(chan marketWork, len(work))
	resultCh := make(chan marketOutcome, len(work))

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				if ctx.Err() != nil {
					resultCh <- marketOutcome{conditionID: w.market.ConditionID, err: ctx.Err()}
					continue
				}
				result, err := p.analyzeMarket(ctx, w)
				resultCh <- marketOutcome{
					conditionID: w.market.ConditionID,
					result:      result,
					err:         err,
				}
			}
		}()
	}

	for _, w := range work {
		workCh <- w
	}
	close(workCh)

	// Cerrar resultCh cuando todos los workers terminen.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	outcomes := make([]marketOutcome, 0, len(work))
	for out := range resultCh {
		outcomes = append(outcomes, out)
	}
	return outcomes
}
