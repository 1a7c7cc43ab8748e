package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alejandrodnm/polybias/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.ReportSink escribiendo tablas a stdout.
type Console struct {
	out        io.Writer
	detail     bool // imprimir además el desglose por mercado
	detailRows int
}

// NewConsole crea el sink de consola.
func NewConsole(detail bool, detailRows int) *Console {
	if detailRows <= 0 {
		detailRows = 30
	}
	return &Console{out: os.Stdout, detail: detail, detailRows: detailRows}
}

// NewConsoleWriter crea un sink de consola para tests.
func NewConsoleWriter(w io.Writer, detail bool, detailRows int) *Console {
	c := NewConsole(detail, detailRows)
	c.out = w
	return c
}

// Append imprime el resumen del run y, si está activado, el desglose.
func (c *Console) Append(_ context.Context, report domain.RunReport) error {
	fmt.Fprintf(c.out, "\n=== Resolution Bias — run %s (%s) ===\n",
		report.ID[:8], report.RanAt.Format("2006-01-02 15:04 UTC"))

	c.printSummary(report)

	if c.detail {
		c.printDetail(report)
	}

	fmt.Fprintf(c.out, "\n  Markets analyzed:     %d\n", report.MarketsAnalyzed)
	fmt.Fprintf(c.out, "  Fallback prices used: %d\n", report.FallbackPricesUsed)
	fmt.Fprintf(c.out, "  Dropped (unresolved): %d\n", report.DroppedUnresolved)
	if report.SkippedMalformed > 0 || report.SkippedFetch > 0 {
		fmt.Fprintf(c.out, "  Skipped (malformed):  %d\n", report.SkippedMalformed)
		fmt.Fprintf(c.out, "  Skipped (fetch):      %d\n", report.SkippedFetch)
	}
	fmt.Fprintln(c.out)
	return nil
}

// printSummary imprime la tabla por estrategia.
func (c *Console) printSummary(report domain.RunReport) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Strategy", "Wins", "Losses", "Win Rate", "Total P&L", "Avg Entry")

	for _, s := range []struct {
		name string
		r    domain.StrategyReport
	}{
		{"Blind Yes", report.BlindYes},
		{"Blind No", report.BlindNo},
	} {
		table.Append(
			s.name,
			fmt.Sprintf("%d", s.r.Wins),
			fmt.Sprintf("%d", s.r.Losses),
			fmt.Sprintf("%.1f%%", s.r.WinRate*100),
			fmt.Sprintf("%+.2f", s.r.TotalPnL),
			fmt.Sprintf("%.3f", s.r.AvgEntryPrice),
		)
	}
	table.Render()
}

// printDetail imprime el desglose por mercado, más reciente primero.
func (c *Console) printDetail(report domain.RunReport) {
	rows := report.Results
	if len(rows) > c.detailRows {
		rows = rows[:c.detailRows]
	}
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(c.out, "\nPer-market breakdown (top %d by recency):\n", len(rows))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Question", "Winner", "Yes Entry", "Yes P&L", "No P&L", "Src")

	for i, r := range rows {
		src := ""
		if r.Entry.UsedFallback() {
			src = "*"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(r.Market.Question, 50),
			string(r.Winner),
			fmt.Sprintf("%.3f", r.Entry.Price),
			fmt.Sprintf("%+.2f", r.Yes.PnL),
			fmt.Sprintf("%+.2f", r.No.PnL),
			src,
		)
	}
	table.Render()

	if report.FallbackPricesUsed > 0 {
		fmt.Fprintf(c.out, "  * = lastTradePrice fallback (%d markets)\n", report.FallbackPricesUsed)
	}
}

// truncate corta por runas: las preguntas pueden llevar caracteres multibyte.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
