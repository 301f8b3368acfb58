package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Default prompt text sent around the haystack.
const (
	DefaultNeedle          = "\n    The best thing to do in San Francisco is eat a sandwich and sit in Dolores Park on a sunny day.\n    "
	DefaultQuestion        = "What is the most fun thing to do in San Francisco?"
	DefaultRetrievalPrompt = "What is the most fun thing to do in San Francisco based on the context? Don't give information outside the document or repeat your findings"
	DefaultSystemPrompt    = "You are a helpful AI bot that answers questions for a user. Keep your response short and direct"
)

// Config holds the full application configuration.
type Config struct {
	Model   ModelConfig    `yaml:"model" mapstructure:"model"`
	Judge   ModelConfig    `yaml:"judge" mapstructure:"judge"`
	Corpus  CorpusConfig   `yaml:"corpus" mapstructure:"corpus"`
	Needle  NeedleConfig   `yaml:"needle" mapstructure:"needle"`
	Sweep   SweepConfig    `yaml:"sweep" mapstructure:"sweep"`
	Rate    RateConfig     `yaml:"rate" mapstructure:"rate"`
	Store   StoreConfig    `yaml:"store" mapstructure:"store"`
	Pricing []ModelPricing `yaml:"pricing" mapstructure:"pricing"`
	Log     LogConfig      `yaml:"log" mapstructure:"log"`
}

// ModelConfig identifies a chat model and how to reach it.
type ModelConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Name        string  `yaml:"name" mapstructure:"name"`
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// APIKey returns Key, or the provider's conventional environment variable
// (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY) when Key is empty.
func (m ModelConfig) APIKey() string {
	if m.Key != "" {
		return m.Key
	}
	switch m.Provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}

// CorpusConfig locates the haystack source documents.
type CorpusConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
	Shuffle bool   `yaml:"shuffle" mapstructure:"shuffle"`
}

// NeedleConfig holds the inserted fact and the prompts around it.
type NeedleConfig struct {
	Text            string `yaml:"text" mapstructure:"text"`
	Question        string `yaml:"question" mapstructure:"question"`
	RetrievalPrompt string `yaml:"retrieval_prompt" mapstructure:"retrieval_prompt"`
	SystemPrompt    string `yaml:"system_prompt" mapstructure:"system_prompt"`
}

// SweepConfig defines the context length by depth grid.
type SweepConfig struct {
	MinLength       int  `yaml:"min_length" mapstructure:"min_length"`
	MaxLength       int  `yaml:"max_length" mapstructure:"max_length"`
	LengthIntervals int  `yaml:"length_intervals" mapstructure:"length_intervals"`
	MinDepth        int  `yaml:"min_depth" mapstructure:"min_depth"`
	MaxDepth        int  `yaml:"max_depth" mapstructure:"max_depth"`
	DepthIntervals  int  `yaml:"depth_intervals" mapstructure:"depth_intervals"`
	Version         int  `yaml:"version" mapstructure:"version"`
	CacheCorpus     bool `yaml:"cache_corpus" mapstructure:"cache_corpus"`
}

// RateConfig configures pacing between trials.
type RateConfig struct {
	RPM       int  `yaml:"rpm" mapstructure:"rpm"`
	TPM       int  `yaml:"tpm" mapstructure:"tpm"`
	TimeBased bool `yaml:"time_based" mapstructure:"time_based"`
	Verbose   bool `yaml:"verbose" mapstructure:"verbose"`
}

// StoreConfig configures the result store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ModelPricing holds per-model token pricing (USD per million tokens). It is
// a list entry rather than a map value because model ids may contain dots,
// which viper treats as key separators.
type ModelPricing struct {
	Model  string  `yaml:"model" mapstructure:"model"`
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NEEDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("model.provider", "openai")
	v.SetDefault("model.name", "gpt-4-1106-preview")
	v.SetDefault("model.key", "")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.temperature", 0.0)
	v.SetDefault("model.max_tokens", 300)
	v.SetDefault("judge.provider", "openai")
	v.SetDefault("judge.name", "gpt-4-1106-preview")
	v.SetDefault("judge.key", "")
	v.SetDefault("judge.base_url", "")
	v.SetDefault("judge.temperature", 0.0)
	v.SetDefault("judge.max_tokens", 300)
	v.SetDefault("corpus.dir", ".")
	v.SetDefault("corpus.pattern", "paulgrahamessays/*.txt")
	v.SetDefault("corpus.shuffle", false)
	v.SetDefault("needle.text", DefaultNeedle)
	v.SetDefault("needle.question", DefaultQuestion)
	v.SetDefault("needle.retrieval_prompt", DefaultRetrievalPrompt)
	v.SetDefault("needle.system_prompt", DefaultSystemPrompt)
	v.SetDefault("sweep.min_length", 1000)
	v.SetDefault("sweep.max_length", 128000)
	v.SetDefault("sweep.length_intervals", 15)
	v.SetDefault("sweep.min_depth", 0)
	v.SetDefault("sweep.max_depth", 100)
	v.SetDefault("sweep.depth_intervals", 15)
	v.SetDefault("sweep.version", 1)
	v.SetDefault("sweep.cache_corpus", false)
	v.SetDefault("rate.rpm", 500)
	v.SetDefault("rate.tpm", 280000)
	v.SetDefault("rate.time_based", true)
	v.SetDefault("rate.verbose", true)
	v.SetDefault("store.driver", "json")
	v.SetDefault("store.path", "results.json")
	v.SetDefault("store.database_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the sweep grid and model settings.
func (c *Config) Validate() error {
	var problems []string

	s := c.Sweep
	if s.MinLength <= 0 || s.MaxLength < s.MinLength {
		problems = append(problems, "sweep: need 0 < min_length <= max_length")
	}
	if s.LengthIntervals < 1 || s.DepthIntervals < 1 {
		problems = append(problems, "sweep: intervals must be >= 1")
	}
	if s.MinDepth < 0 || s.MaxDepth > 100 || s.MaxDepth < s.MinDepth {
		problems = append(problems, "sweep: need 0 <= min_depth <= max_depth <= 100")
	}
	if s.Version < 1 {
		problems = append(problems, "sweep: version must be >= 1")
	}
	for _, m := range []struct {
		label string
		cfg   ModelConfig
	}{{"model", c.Model}, {"judge", c.Judge}} {
		if m.cfg.Name == "" {
			problems = append(problems, m.label+": name is required")
		}
		switch m.cfg.Provider {
		case "openai", "anthropic", "gemini":
		default:
			problems = append(problems, m.label+": provider must be openai, anthropic or gemini")
		}
		if m.cfg.MaxTokens <= 0 {
			problems = append(problems, m.label+": max_tokens must be > 0")
		}
	}
	if c.Needle.Text == "" {
		problems = append(problems, "needle: text is required")
	}
	if c.Rate.RPM < 0 || c.Rate.TPM < 0 {
		problems = append(problems, "rate: limits must be >= 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
