// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StorageConfig struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	// Endpoint overrides the S3 endpoint (MinIO / localstack).
	Endpoint     string        `yaml:"endpoint"`
	UsePathStyle bool          `yaml:"use_path_style"`
	PresignTTL   time.Duration `yaml:"presign_ttl"`
}

type TextConfig struct {
	// Provider selection mirrors the adapter chain: gemini -> openai ->
	// bedrock. The first configured key wins unless provider pins one.
	Provider  string `yaml:"provider"` // gemini|openai|bedrock|noop
	GeminiKey string `yaml:"gemini_key"`
	GeminiURL string `yaml:"gemini_url"`
	OpenAIKey string `yaml:"openai_key"`
	Model     string `yaml:"model"`
	// BedrockModel is the text model id used when provider=bedrock.
	BedrockModel string `yaml:"bedrock_model"`
	MaxTokens    int    `yaml:"max_tokens"`
	// ConcurrentLimit caps in-flight text-generation calls.
	ConcurrentLimit int `yaml:"concurrent_limit"`
}

type ImageConfig struct {
	// Model is the text-to-image model id; empty selects the local
	// placeholder renderer.
	Model  string `yaml:"model"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type VideoConfig struct {
	Model           string        `yaml:"model"`
	DurationSeconds int           `yaml:"duration_seconds"`
	FPS             int           `yaml:"fps"`
	Dimension       string        `yaml:"dimension"`
	MaxPromptChars  int           `yaml:"max_prompt_chars"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	PollCeiling     time.Duration `yaml:"poll_ceiling"`
}

type SpeechConfig struct {
	Voice      string `yaml:"voice"`
	Engine     string `yaml:"engine"`      // neural|standard
	SampleRate string `yaml:"sample_rate"` // e.g. "24000"
}

type MediaConfig struct {
	FFmpegBin  string `yaml:"ffmpeg_bin"`
	FFprobeBin string `yaml:"ffprobe_bin"`
	CRF        int    `yaml:"crf"`
	MaxRate    string `yaml:"max_rate"`
	BufSize    string `yaml:"buf_size"`
}

type ServerConfig struct {
	Port          int           `yaml:"port"`
	MetricsPort   int           `yaml:"metrics_port"`
	APIKey        string        `yaml:"api_key"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	Workers       int           `yaml:"workers"`
	RunTimeout    time.Duration `yaml:"run_timeout"`
}

type RedisConfig struct {
	// URL empty means no Redis: run records stay in process memory.
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	// RatePerMinute caps run submissions per client; 0 disables.
	RatePerMinute int `yaml:"rate_per_minute"`
}

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Text    TextConfig    `yaml:"text"`
	Image   ImageConfig   `yaml:"image"`
	Video   VideoConfig   `yaml:"video"`
	Speech  SpeechConfig  `yaml:"speech"`
	Media   MediaConfig   `yaml:"media"`
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.Storage.Bucket == "" {
		return nil, errors.New("storage.bucket is required")
	}
	if cfg.Storage.Region == "" {
		return nil, errors.New("storage.region is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.PresignTTL <= 0 {
		cfg.Storage.PresignTTL = time.Hour
	}
	if cfg.Text.Model == "" {
		cfg.Text.Model = "gemini-2.0-flash"
	}
	if cfg.Text.BedrockModel == "" {
		cfg.Text.BedrockModel = "us.amazon.nova-lite-v1:0"
	}
	if cfg.Text.MaxTokens <= 0 {
		cfg.Text.MaxTokens = 1000
	}
	if cfg.Text.ConcurrentLimit <= 0 {
		cfg.Text.ConcurrentLimit = 16
	}
	if cfg.Image.Width <= 0 {
		cfg.Image.Width = 1280
	}
	if cfg.Image.Height <= 0 {
		cfg.Image.Height = 720
	}
	if cfg.Video.Model == "" {
		cfg.Video.Model = "amazon.nova-reel-v1:0"
	}
	if cfg.Video.DurationSeconds <= 0 {
		cfg.Video.DurationSeconds = 6
	}
	if cfg.Video.FPS <= 0 {
		cfg.Video.FPS = 24
	}
	if cfg.Video.Dimension == "" {
		cfg.Video.Dimension = "1280x720"
	}
	if cfg.Video.MaxPromptChars <= 0 {
		cfg.Video.MaxPromptChars = 512
	}
	if cfg.Video.PollInterval <= 0 {
		cfg.Video.PollInterval = 15 * time.Second
	}
	if cfg.Video.PollCeiling <= 0 {
		cfg.Video.PollCeiling = 10 * time.Minute
	}
	if cfg.Speech.Voice == "" {
		cfg.Speech.Voice = "Joanna"
	}
	if cfg.Speech.Engine == "" {
		cfg.Speech.Engine = "neural"
	}
	if cfg.Speech.SampleRate == "" {
		cfg.Speech.SampleRate = "24000"
	}
	if cfg.Media.FFmpegBin == "" {
		cfg.Media.FFmpegBin = "ffmpeg"
	}
	if cfg.Media.FFprobeBin == "" {
		cfg.Media.FFprobeBin = "ffprobe"
	}
	if cfg.Media.CRF <= 0 {
		cfg.Media.CRF = 28
	}
	if cfg.Media.MaxRate == "" {
		cfg.Media.MaxRate = "1M"
	}
	if cfg.Media.BufSize == "" {
		cfg.Media.BufSize = "2M"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Server.Workers <= 0 {
		cfg.Server.Workers = 4
	}
	if cfg.Server.RunTimeout <= 0 {
		cfg.Server.RunTimeout = 20 * time.Minute
	}
	if cfg.Server.SessionTTL <= 0 {
		cfg.Server.SessionTTL = 30 * time.Minute
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 24 * time.Hour
	}
}
