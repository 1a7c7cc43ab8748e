package analysis

import "github.com/alejandrodnm/polybias/internal/domain"

// Umbral de resolución limpia: un lado ≥ 0.99 y el complementario ≤ 0.01.
// Los precios finales de Polymarket casi nunca llegan exactamente a 1.00/0.00.
const (
	cleanWinnerMin = 0.99
	cleanLoserMax  = 0.01
)

// Classify devuelve el lado ganador si el mercado está limpiamente resuelto.
// ok=false significa resolución ambigua o anulada — el mercado se descarta
// y se cuenta aparte, no es un fallo de análisis.
func Classify(m domain.Market) (domain.Side, bool) {
	switch {
	case m.FinalYesPrice >= cleanWinnerMin && m.FinalNoPrice <= cleanLoserMax:
		return domain.SideYes, true
	case m.FinalNoPrice >= cleanWinnerMin && m.FinalYesPrice <= cleanLoserMax:
		return domain.SideNo, true
	default:
		return "", false
	}
}
