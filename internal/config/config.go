package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv      = "PAPER_RADAR_CONFIG"
	openRouterKeyEnv   = "OPENROUTER_API_KEY"
	openRouterModelEnv = "OPENROUTER_MODEL"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Arxiv         ArxivConfig        `yaml:"arxiv"`
	Filter        FilterConfig       `yaml:"filter"`
	OpenRouter    OpenRouterConfig   `yaml:"openRouter"`
	Report        ReportConfig       `yaml:"report"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the daemon re-runs the pipeline.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// IntervalDuration parses the daemon re-run interval, defaulting to daily.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	if d, err := time.ParseDuration(s.Interval); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// ArxivConfig describes the upstream query: categories and keywords are
// OR-joined into a single submittedDate-windowed search.
type ArxivConfig struct {
	BaseURL    string   `yaml:"baseUrl"`
	Categories []string `yaml:"categories"`
	Keywords   []string `yaml:"keywords"`
	MaxResults int      `yaml:"maxResults"`
}

// FilterConfig carries the topic description handed to the judged filter.
type FilterConfig struct {
	Topic string `yaml:"topic"`
}

// OpenRouterConfig defines how to contact the judging model. An empty
// APIKey switches the pipeline to the keyword fallback and disables
// priority scoring.
type OpenRouterConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// ReportConfig locates the flat record storage and rendered reports.
type ReportConfig struct {
	JSONDir      string `yaml:"jsonDir"`
	HTMLDir      string `yaml:"htmlDir"`
	TemplatePath string `yaml:"templatePath"`
	IndexPath    string `yaml:"indexPath"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send digests.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openRouterKeyEnv); v != "" {
		c.OpenRouter.APIKey = v
	}

	if v := os.Getenv(openRouterModelEnv); v != "" {
		c.OpenRouter.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Arxiv.BaseURL != "" {
		base.Arxiv.BaseURL = override.Arxiv.BaseURL
	}
	if len(override.Arxiv.Categories) > 0 {
		base.Arxiv.Categories = override.Arxiv.Categories
	}
	if len(override.Arxiv.Keywords) > 0 {
		base.Arxiv.Keywords = override.Arxiv.Keywords
	}
	if override.Arxiv.MaxResults > 0 {
		base.Arxiv.MaxResults = override.Arxiv.MaxResults
	}

	if override.Filter.Topic != "" {
		base.Filter.Topic = override.Filter.Topic
	}

	if override.OpenRouter.Endpoint != "" {
		base.OpenRouter.Endpoint = override.OpenRouter.Endpoint
	}
	if override.OpenRouter.Model != "" {
		base.OpenRouter.Model = override.OpenRouter.Model
	}
	if override.OpenRouter.APIKey != "" {
		base.OpenRouter.APIKey = override.OpenRouter.APIKey
	}

	if override.Report.JSONDir != "" {
		base.Report.JSONDir = override.Report.JSONDir
	}
	if override.Report.HTMLDir != "" {
		base.Report.HTMLDir = override.Report.HTMLDir
	}
	if override.Report.TemplatePath != "" {
		base.Report.TemplatePath = override.Report.TemplatePath
	}
	if override.Report.IndexPath != "" {
		base.Report.IndexPath = override.Report.IndexPath
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{Interval: "24h", Timezone: defaultTimezone, location: tz},
		Arxiv: ArxivConfig{
			BaseURL:    "https://export.arxiv.org/api/query",
			Categories: []string{"q-bio.BM", "cs.LG", "physics.chem-ph", "q-bio.QM"},
			Keywords:   []string{"peptide", "self-assembly", "assembly", "co-assembly", "supramolecular"},
			MaxResults: 500,
		},
		Filter: FilterConfig{
			Topic: "peptide self-assembly, co-assembly, aggregation, peptide datasets, machine learning for biomolecules",
		},
		OpenRouter: OpenRouterConfig{
			Endpoint: "https://openrouter.ai/api/v1/chat/completions",
			Model:    "google/gemini-2.0-flash-001",
			APIKey:   "",
		},
		Report: ReportConfig{
			JSONDir:   "daily_json",
			HTMLDir:   "daily_html",
			IndexPath: "reports.json",
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
	}
}
