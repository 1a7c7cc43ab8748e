package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del análisis.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Report   ReportConfig   `yaml:"report"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

// AnalysisConfig controla la muestra y el resolver del pipeline.
type AnalysisConfig struct {
	Limit          int     `yaml:"limit"`           // máx mercados por run
	MinVolume      float64 `yaml:"min_volume"`      // suelo de volumen USD
	LookbackHours  int     `yaml:"lookback_hours"`  // offset del precio de entrada
	ToleranceHours int     `yaml:"tolerance_hours"` // media ventana de aceptación
	Workers        int     `yaml:"workers"`         // worker pool de históricos
}

// APIConfig contiene los base URLs de las APIs.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
}

// StorageConfig controla dónde se persiste el histórico de runs.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// ReportConfig controla el log markdown y el desglose de consola.
type ReportConfig struct {
	Path       string `yaml:"path"`        // archivo markdown append-only
	DetailRows int    `yaml:"detail_rows"` // filas del desglose por mercado
}

// TelegramConfig controla el sink opcional de Telegram. El token y el chat
// salen del entorno (.env), nunca del YAML.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"-"`
	ChatID  string `yaml:"-"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del entorno sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Lookback devuelve el offset como time.Duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Analysis.LookbackHours) * time.Hour
}

// Tolerance devuelve la media ventana como time.Duration.
func (c *Config) Tolerance() time.Duration {
	return time.Duration(c.Analysis.ToleranceHours) * time.Hour
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	cfg.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Analysis.Limit <= 0 {
		cfg.Analysis.Limit = 100
	}
	if cfg.Analysis.MinVolume <= 0 {
		cfg.Analysis.MinVolume = 10_000
	}
	if cfg.Analysis.LookbackHours <= 0 {
		cfg.Analysis.LookbackHours = 24
	}
	if cfg.Analysis.ToleranceHours <= 0 {
		cfg.Analysis.ToleranceHours = 4
	}
	if cfg.Analysis.Workers <= 0 {
		cfg.Analysis.Workers = 8
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "polybias.db"
	}
	if cfg.Report.Path == "" {
		cfg.Report.Path = "RESULTS.md"
	}
	if cfg.Report.DetailRows <= 0 {
		cfg.Report.DetailRows = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
