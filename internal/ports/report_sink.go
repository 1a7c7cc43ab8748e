package ports

import (
	"context"

	"github.com/alejandrodnm/polybias/internal/domain"
)

// ReportSink recibe el reporte de un run completado. Los sinks duraderos
// (markdown, sqlite) son append-only: un run nunca sobreescribe otro.
type ReportSink interface {
	Append(ctx context.Context, report domain.RunReport) error
}
