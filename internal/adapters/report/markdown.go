package report

// markdown.go — log de runs en markdown, append-only.
//
// Cada run añade una entrada con la tabla por estrategia y los contadores.
// Las entradas históricas nunca se sobreescriben: el archivo es el registro
// duradero de todos los runs.

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alejandrodnm/polybias/internal/domain"
)

// MarkdownLog implementa ports.ReportSink añadiendo entradas a un archivo.
type MarkdownLog struct {
	path string
}

// NewMarkdownLog crea el sink apuntando al archivo de resultados.
func NewMarkdownLog(path string) *MarkdownLog {
	return &MarkdownLog{path: path}
}

// Append añade la entrada del run al final del archivo, creándolo si no existe.
func (l *MarkdownLog) Append(_ context.Context, report domain.RunReport) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("report.MarkdownLog: open %q: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatEntry(report)); err != nil {
		return fmt.Errorf("report.MarkdownLog: write %q: %w", l.path, err)
	}
	return nil
}

// formatEntry construye la entrada markdown de un run.
func formatEntry(report domain.RunReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n### Run: %s\n\n", report.RanAt.Format("2006-01-02 15:04 UTC"))
	sb.WriteString("| Strategy | Wins | Losses | Win Rate | Total P&L | Avg Entry Price |\n")
	sb.WriteString("|----------|------|--------|----------|-----------|------------------|\n")

	for _, s := range []struct {
		name string
		r    domain.StrategyReport
	}{
		{"Blind Yes", report.BlindYes},
		{"Blind No", report.BlindNo},
	} {
		fmt.Fprintf(&sb, "| %s | %d | %d | %.1f%% | %+.2f | %.3f |\n",
			s.name, s.r.Wins, s.r.Losses, s.r.WinRate*100, s.r.TotalPnL, s.r.AvgEntryPrice)
	}

	fmt.Fprintf(&sb, "\n- Markets analyzed: %d\n", report.MarketsAnalyzed)
	fmt.Fprintf(&sb, "- Fallback prices used: %d\n", report.FallbackPricesUsed)
	if report.SkippedMalformed > 0 || report.SkippedFetch > 0 {
		fmt.Fprintf(&sb, "- Markets skipped: %d malformed, %d fetch failures\n",
			report.SkippedMalformed, report.SkippedFetch)
	}

	return sb.String()
}
