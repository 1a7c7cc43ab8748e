package ports

import (
	"context"

	"github.com/alejandrodnm/polybias/internal/domain"
)

// RunStore persiste el histórico de runs además de actuar como sink.
type RunStore interface {
	ReportSink

	// GetRuns devuelve los últimos n runs guardados, más reciente primero.
	// Los Results por mercado no se persisten; solo el agregado.
	GetRuns(ctx context.Context, n int) ([]domain.RunReport, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
