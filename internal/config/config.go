package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "REVIEW_TRIAGE_CONFIG"
	logLevelEnv       = "LOG_LEVEL"
	llmAPIKeyEnv      = "FIREWORKS_API_KEY"
	llmModelEnv       = "LLM_MODEL"
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	rapidAPIKeyEnv    = "RAPIDAPI_KEY"
	gptZeroAPIKeyEnv  = "GPTZERO_API_KEY"
	devrevEndpointEnv = "DEVREV_ENDPOINT"
	devrevTokenEnv    = "DEVREV_TOKEN"
	devrevSnapInEnv   = "DEVREV_SNAP_IN_ID"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Scanner kinds understood by the source registry.
const (
	ScannerPlayStore = "playstore"
	ScannerAppStore  = "appstore"
	ScannerTwitter   = "twitter"
)

const (
	reviewMaxCount = 100
	socialMaxCount = 50
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	LLM       LLMConfig       `yaml:"llm"`
	DevRev    DevRevConfig    `yaml:"devrev"`
	Tickets   TicketConfig    `yaml:"tickets"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	RapidAPI  RapidAPIConfig  `yaml:"rapidapi"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Detector  DetectorConfig  `yaml:"detector"`
	Command   CommandConfig   `yaml:"command"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sources   []SourceConfig  `yaml:"sources"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LLMConfig defines how to contact the classifier oracle.
type LLMConfig struct {
	Provider  string        `yaml:"provider"`
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"apiKey"`
	MaxTokens int           `yaml:"maxTokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DevRevConfig wires the ticketing backend and its progress timeline.
type DevRevConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Token    string        `yaml:"token"`
	SnapInID string        `yaml:"snapInId"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TicketConfig carries the fixed identifiers stamped on every ticket.
type TicketConfig struct {
	Owner    string            `yaml:"owner"`
	Part     string            `yaml:"part"`
	WorkType string            `yaml:"workType"`
	Tags     map[string]string `yaml:"tags"`
}

// TelegramConfig wires an optional chat that mirrors progress messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// RapidAPIConfig holds the key shared by RapidAPI-hosted collaborators.
type RapidAPIConfig struct {
	APIKey string `yaml:"apiKey"`
}

// SentimentConfig describes the sentiment oracle endpoint.
type SentimentConfig struct {
	Endpoint string `yaml:"endpoint"`
	Host     string `yaml:"host"`
}

// DetectorConfig describes the AI-generated-text oracle.
type DetectorConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	Version  string `yaml:"version"`
}

// CommandConfig controls parsing of the run parameter string.
type CommandConfig struct {
	DefaultCount int  `yaml:"defaultCount"`
	StrictCount  bool `yaml:"strictCount"`
}

// SchedulerConfig defines how often watch mode re-runs a source.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
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

// SourceConfig describes one content source and how its items are worded.
type SourceConfig struct {
	Name     string            `yaml:"name"`
	Scanner  string            `yaml:"scanner"`
	Query    string            `yaml:"query"`
	AppID    string            `yaml:"appId"`
	Label    string            `yaml:"label"`
	Noun     string            `yaml:"noun"`
	MaxCount int               `yaml:"maxCount"`
	Sort     string            `yaml:"sort"`
	DetectAI bool              `yaml:"detectAI"`
	Options  map[string]string `yaml:"options"`
}

// DomainContext is the identifier the oracle prompts talk about.
func (s SourceConfig) DomainContext() string {
	if s.AppID != "" {
		return s.AppID
	}
	return s.Query
}

// Source looks up a configured source by name.
func (c Config) Source(name string) (SourceConfig, bool) {
	for _, src := range c.Sources {
		if strings.EqualFold(src.Name, name) {
			return src, true
		}
	}
	return SourceConfig{}, false
}

// Load reads YAML configuration named by the environment (if present) and applies overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile reads YAML configuration from path; an empty path yields defaults plus env overrides.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
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

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}
	for i := range cfg.Sources {
		cfg.Sources[i] = normalizeSource(cfg.Sources[i])
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	switch c.LLM.Provider {
	case "gemini":
		if v := os.Getenv(geminiAPIKeyEnv); v != "" {
			c.LLM.APIKey = v
		}
	default:
		if v := os.Getenv(llmAPIKeyEnv); v != "" {
			c.LLM.APIKey = v
		}
	}

	if v := os.Getenv(rapidAPIKeyEnv); v != "" {
		c.RapidAPI.APIKey = v
	}

	if v := os.Getenv(gptZeroAPIKeyEnv); v != "" {
		c.Detector.APIKey = v
	}

	if v := os.Getenv(devrevEndpointEnv); v != "" {
		c.DevRev.Endpoint = v
	}
	if v := os.Getenv(devrevTokenEnv); v != "" {
		c.DevRev.Token = v
	}
	if v := os.Getenv(devrevSnapInEnv); v != "" {
		c.DevRev.SnapInID = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
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

func normalizeSource(src SourceConfig) SourceConfig {
	switch src.Scanner {
	case ScannerTwitter:
		if src.MaxCount <= 0 {
			src.MaxCount = socialMaxCount
		}
		if src.Label == "" {
			src.Label = "Twitter tweet"
		}
		if src.Noun == "" {
			src.Noun = "tweet"
		}
	case ScannerAppStore:
		if src.MaxCount <= 0 {
			src.MaxCount = reviewMaxCount
		}
		if src.Label == "" {
			src.Label = "App Store review"
		}
	default:
		if src.MaxCount <= 0 {
			src.MaxCount = reviewMaxCount
		}
		if src.Label == "" {
			src.Label = "Playstore review"
		}
	}
	if src.Noun == "" {
		src.Noun = "review"
	}
	return src
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.MaxTokens > 0 {
		base.LLM.MaxTokens = override.LLM.MaxTokens
	}
	if override.LLM.Timeout > 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}

	if override.DevRev.Endpoint != "" {
		base.DevRev.Endpoint = override.DevRev.Endpoint
	}
	if override.DevRev.Token != "" {
		base.DevRev.Token = override.DevRev.Token
	}
	if override.DevRev.SnapInID != "" {
		base.DevRev.SnapInID = override.DevRev.SnapInID
	}
	if override.DevRev.Timeout > 0 {
		base.DevRev.Timeout = override.DevRev.Timeout
	}

	if override.Tickets.Owner != "" {
		base.Tickets.Owner = override.Tickets.Owner
	}
	if override.Tickets.Part != "" {
		base.Tickets.Part = override.Tickets.Part
	}
	if override.Tickets.WorkType != "" {
		base.Tickets.WorkType = override.Tickets.WorkType
	}
	if len(override.Tickets.Tags) > 0 {
		base.Tickets.Tags = override.Tickets.Tags
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	if override.RapidAPI.APIKey != "" {
		base.RapidAPI.APIKey = override.RapidAPI.APIKey
	}

	if override.Sentiment.Endpoint != "" {
		base.Sentiment.Endpoint = override.Sentiment.Endpoint
	}
	if override.Sentiment.Host != "" {
		base.Sentiment.Host = override.Sentiment.Host
	}

	if override.Detector.Endpoint != "" {
		base.Detector.Endpoint = override.Detector.Endpoint
	}
	if override.Detector.APIKey != "" {
		base.Detector.APIKey = override.Detector.APIKey
	}
	if override.Detector.Version != "" {
		base.Detector.Version = override.Detector.Version
	}

	if override.Command.DefaultCount > 0 {
		base.Command.DefaultCount = override.Command.DefaultCount
	}
	base.Command.StrictCount = base.Command.StrictCount || override.Command.StrictCount

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		LLM: LLMConfig{
			Provider:  "openai",
			Endpoint:  "https://api.fireworks.ai/inference/v1/chat/completions",
			Model:     "accounts/fireworks/models/mixtral-8x7b-instruct",
			MaxTokens: 200,
			Timeout:   30 * time.Second,
		},
		DevRev: DevRevConfig{
			Endpoint: "https://api.devrev.ai",
			Timeout:  15 * time.Second,
		},
		Tickets: TicketConfig{
			WorkType: "ticket",
			Tags:     map[string]string{},
		},
		Sentiment: SentimentConfig{
			Endpoint: "https://twinword-sentiment-analysis.p.rapidapi.com/analyze/",
			Host:     "twinword-sentiment-analysis.p.rapidapi.com",
		},
		Detector: DetectorConfig{
			Endpoint: "https://api.gptzero.me/v2/predict/text",
			Version:  "2024-01-09",
		},
		Command:   CommandConfig{DefaultCount: 10},
		Scheduler: SchedulerConfig{Interval: 24 * time.Hour, Timezone: defaultTimezone, location: tz},
		Sources: []SourceConfig{
			{
				Name:    "playstore",
				Scanner: ScannerPlayStore,
				Query:   "com.example.app",
				Sort:    "rating",
			},
		},
	}
}
