package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/polybias/config"
	"github.com/alejandrodnm/polybias/internal/adapters/polymarket"
	"github.com/alejandrodnm/polybias/internal/adapters/report"
	"github.com/alejandrodnm/polybias/internal/adapters/storage"
	"github.com/alejandrodnm/polybias/internal/analysis"
	"github.com/alejandrodnm/polybias/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	limit := flag.Int("limit", 0, "max markets to sample (overrides config)")
	minVolume := flag.Float64("min-volume", 0, "volume floor in USD (overrides config)")
	workers := flag.Int("workers", 0, "history fetch workers (overrides config)")
	detail := flag.Bool("detail", false, "print per-market breakdown table")
	history := flag.Int("history", 0, "print the last N stored runs and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if *limit > 0 {
		cfg.Analysis.Limit = *limit
	}
	if *minVolume > 0 {
		cfg.Analysis.MinVolume = *minVolume
	}
	if *workers > 0 {
		cfg.Analysis.Workers = *workers
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *history > 0 {
		printHistory(ctx, store, *history)
		return
	}

	slog.Info("polybias starting",
		"config", *configPath,
		"limit", cfg.Analysis.Limit,
		"min_volume", cfg.Analysis.MinVolume,
		"lookback", cfg.Lookback(),
		"tolerance", cfg.Tolerance(),
		"workers", cfg.Analysis.Workers,
	)

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase)

	pipeCfg := analysis.Config{
		Limit:     cfg.Analysis.Limit,
		MinVolume: cfg.Analysis.MinVolume,
		Lookback:  cfg.Lookback(),
		Tolerance: cfg.Tolerance(),
		Workers:   cfg.Analysis.Workers,
	}
	pipeline := analysis.New(pipeCfg, client, client)

	result, err := pipeline.Run(ctx)
	if err != nil {
		// Fatal: sin catálogo completo no hay reporte parcial.
		slog.Error("analysis run failed", "err", err)
		os.Exit(1)
	}

	sinks := buildSinks(cfg, store, *detail)
	for _, sink := range sinks {
		if err := sink.Append(ctx, result); err != nil {
			slog.Warn("report sink failed", "err", err)
		}
	}

	slog.Info("polybias finished", "run_id", result.ID)
}

// buildSinks construye los sinks configurados: consola siempre, markdown y
// sqlite como registros duraderos, telegram si está activado.
func buildSinks(cfg *config.Config, store ports.RunStore, detail bool) []ports.ReportSink {
	sinks := []ports.ReportSink{
		report.NewConsole(detail, cfg.Report.DetailRows),
		report.NewMarkdownLog(cfg.Report.Path),
		store,
	}

	if cfg.Telegram.Enabled {
		tg, err := report.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			slog.Warn("telegram sink disabled", "err", err)
		} else {
			sinks = append(sinks, tg)
		}
	}

	return sinks
}

// printHistory lista los últimos runs guardados en SQLite.
func printHistory(ctx context.Context, store ports.RunStore, n int) {
	runs, err := store.GetRuns(ctx, n)
	if err != nil {
		slog.Error("failed to read run history", "err", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs yet")
		return
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  markets=%d fallbacks=%d\n",
			r.RanAt.Format("2006-01-02 15:04"), r.ID[:8],
			r.MarketsAnalyzed, r.FallbackPricesUsed)
		fmt.Printf("  Blind Yes: %d-%d (%.1f%%)  pnl %+.2f  avg %.3f\n",
			r.BlindYes.Wins, r.BlindYes.Losses, r.BlindYes.WinRate*100,
			r.BlindYes.TotalPnL, r.BlindYes.AvgEntryPrice)
		fmt.Printf("  Blind No:  %d-%d (%.1f%%)  pnl %+.2f  avg %.3f\n",
			r.BlindNo.Wins, r.BlindNo.Losses, r.BlindNo.WinRate*100,
			r.BlindNo.TotalPnL, r.BlindNo.AvgEntryPrice)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
