package report_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alejandrodnm/polybias/internal/adapters/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownLog_AppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RESULTS.md")
	sink := report.NewMarkdownLog(path)

	err := sink.Append(context.Background(), sampleReport())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "### Run: 2026-08-20 15:30 UTC")
	assert.Contains(t, out, "| Blind Yes | 55 | 45 | 55.0% | -2.31 | 0.505 |")
	assert.Contains(t, out, "| Blind No | 45 | 55 | 45.0% | -1.80 | 0.495 |")
	assert.Contains(t, out, "- Markets analyzed: 100")
	assert.Contains(t, out, "- Fallback prices used: 12")
}

func TestMarkdownLog_AppendOnly(t *testing.T) {
	// Dos runs → dos entradas; la primera nunca se sobreescribe.
	path := filepath.Join(t.TempDir(), "RESULTS.md")
	sink := report.NewMarkdownLog(path)

	require.NoError(t, sink.Append(context.Background(), sampleReport()))
	second := sampleReport()
	second.RanAt = second.RanAt.Add(24 * time.Hour)
	require.NoError(t, sink.Append(context.Background(), second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Equal(t, 2, strings.Count(out, "### Run:"))
	assert.Contains(t, out, "2026-08-20 15:30 UTC")
	assert.Contains(t, out, "2026-08-21 15:30 UTC")
}
