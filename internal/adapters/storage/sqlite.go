package storage

// sqlite.go — histórico de runs, append-only.
//
// Una fila por run en `runs`; las filas nunca se actualizan ni se borran:
// el histórico completo de runs es el contrato del sink duradero. Solo se
// persiste el agregado — el desglose por mercado es efímero.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/polybias/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    ran_at          DATETIME NOT NULL,
    markets         INTEGER  NOT NULL DEFAULT 0,
    fallback_used   INTEGER  NOT NULL DEFAULT 0,
    dropped         INTEGER  NOT NULL DEFAULT 0,
    skipped_bad     INTEGER  NOT NULL DEFAULT 0,
    skipped_fetch   INTEGER  NOT NULL DEFAULT 0,
    yes_wins        INTEGER  NOT NULL DEFAULT 0,
    yes_losses      INTEGER  NOT NULL DEFAULT 0,
    yes_win_rate    REAL     NOT NULL DEFAULT 0,
    yes_total_pnl   REAL     NOT NULL DEFAULT 0,
    yes_avg_entry   REAL     NOT NULL DEFAULT 0,
    no_wins         INTEGER  NOT NULL DEFAULT 0,
    no_losses       INTEGER  NOT NULL DEFAULT 0,
    no_win_rate     REAL     NOT NULL DEFAULT 0,
    no_total_pnl    REAL     NOT NULL DEFAULT 0,
    no_avg_entry    REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_at ON runs(ran_at DESC);
`

// SQLiteStore implementa ports.RunStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserta la fila del run. Nunca hace update: si el id ya existe
// (no debería — es un uuid por run) el insert falla y el error se propaga.
func (s *SQLiteStore) Append(ctx context.Context, r domain.RunReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
			(id, ran_at, markets, fallback_used, dropped, skipped_bad, skipped_fetch,
			 yes_wins, yes_losses, yes_win_rate, yes_total_pnl, yes_avg_entry,
			 no_wins, no_losses, no_win_rate, no_total_pnl, no_avg_entry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.RanAt.UTC().Format(time.RFC3339),
		r.MarketsAnalyzed,
		r.FallbackPricesUsed,
		r.DroppedUnresolved,
		r.SkippedMalformed,
		r.SkippedFetch,
		r.BlindYes.Wins, r.BlindYes.Losses, r.BlindYes.WinRate,
		r.BlindYes.TotalPnL, r.BlindYes.AvgEntryPrice,
		r.BlindNo.Wins, r.BlindNo.Losses, r.BlindNo.WinRate,
		r.BlindNo.TotalPnL, r.BlindNo.AvgEntryPrice,
	)
	if err != nil {
		return fmt.Errorf("storage.Append: insert run %s: %w", r.ID, err)
	}
	return nil
}

// GetRuns devuelve los últimos n runs, más reciente primero.
func (s *SQLiteStore) GetRuns(ctx context.Context, n int) ([]domain.RunReport, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ran_at, markets, fallback_used, dropped, skipped_bad, skipped_fetch,
		       yes_wins, yes_losses, yes_win_rate, yes_total_pnl, yes_avg_entry,
		       no_wins, no_losses, no_win_rate, no_total_pnl, no_avg_entry
		FROM runs
		ORDER BY ran_at DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("storage.GetRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunReport
	for rows.Next() {
		var r domain.RunReport
		var ranAt string

		r.BlindYes.Strategy = domain.SideYes
		r.BlindNo.Strategy = domain.SideNo

		if err := rows.Scan(
			&r.ID, &ranAt, &r.MarketsAnalyzed, &r.FallbackPricesUsed,
			&r.DroppedUnresolved, &r.SkippedMalformed, &r.SkippedFetch,
			&r.BlindYes.Wins, &r.BlindYes.Losses, &r.BlindYes.WinRate,
			&r.BlindYes.TotalPnL, &r.BlindYes.AvgEntryPrice,
			&r.BlindNo.Wins, &r.BlindNo.Losses, &r.BlindNo.WinRate,
			&r.BlindNo.TotalPnL, &r.BlindNo.AvgEntryPrice,
		); err != nil {
			return nil, fmt.Errorf("storage.GetRuns: scan row: %w", err)
		}

		r.RanAt, _ = time.Parse(time.RFC3339, ranAt)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
