package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Memcached MemcachedConfig `yaml:"memcached"`
	Storage   StorageConfig   `yaml:"storage"`
	Reaper    ReaperConfig    `yaml:"reaper"`
	STT       STTConfig       `yaml:"stt"`
	SLLM      SLLMConfig      `yaml:"sllm"`
	Audio     AudioConfig     `yaml:"audio"`
	Inbox     InboxConfig     `yaml:"inbox"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MemcachedConfig struct {
	Addr     string        `yaml:"addr"`
	Lifetime time.Duration `yaml:"lifetime"`
}

type StorageConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	AccessKey  string        `yaml:"access_key"`
	SecretKey  string        `yaml:"secret_key"`
	Bucket     string        `yaml:"bucket"`
	Region     string        `yaml:"region"`
	UseSSL     bool          `yaml:"use_ssl"`
	KeyPrefix  string        `yaml:"key_prefix"`
	UploadTTL  time.Duration `yaml:"upload_ttl"`
	LinkTTL    time.Duration `yaml:"link_ttl"`
	PresignTTL time.Duration `yaml:"presign_ttl"`
}

type ReaperConfig struct {
	InitialDelay time.Duration `yaml:"initial_delay"`
	Interval     time.Duration `yaml:"interval"`
}

type STTConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SLLMConfig struct {
	Backend string        `yaml:"backend"` // remote | gemini
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Gemini  GeminiConfig  `yaml:"gemini"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type AudioConfig struct {
	Transcode     bool   `yaml:"transcode"`
	FFmpegPath    string `yaml:"ffmpeg_path"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type InboxConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type RendererConfig struct {
	FontName string `yaml:"font_name"`
	FontPath string `yaml:"font_path"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	SLLMBackendRemote = "remote"
	SLLMBackendGemini = "gemini"
)

func (c *Config) Validate() error {
	if c.Database.PostgresDSN == "" {
		return fmt.Errorf("database.postgres_dsn is required")
	}
	if c.Storage.Endpoint == "" {
		return fmt.Errorf("storage.endpoint is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.STT.BaseURL == "" {
		return fmt.Errorf("stt.base_url is required")
	}

	if c.SLLM.Backend == "" {
		c.SLLM.Backend = SLLMBackendRemote
	}
	switch c.SLLM.Backend {
	case SLLMBackendRemote:
		if c.SLLM.BaseURL == "" {
			return fmt.Errorf("sllm.base_url is required")
		}
	case SLLMBackendGemini:
		if len(c.SLLM.Gemini.APIKeys) == 0 {
			return fmt.Errorf("sllm.gemini.api_keys is required")
		}
	default:
		return fmt.Errorf("sllm.backend %q is not supported", c.SLLM.Backend)
	}
	if c.Inbox.Enabled && c.Inbox.Dir == "" {
		return fmt.Errorf("inbox.dir is required when inbox is enabled")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Memcached.Lifetime == 0 {
		c.Memcached.Lifetime = 10 * time.Minute
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "records/"
	}
	if !strings.HasSuffix(c.Storage.KeyPrefix, "/") {
		c.Storage.KeyPrefix += "/"
	}
	if c.Storage.UploadTTL == 0 {
		c.Storage.UploadTTL = 48 * time.Hour
	}
	if c.Storage.LinkTTL == 0 {
		c.Storage.LinkTTL = 30 * 24 * time.Hour
	}
	if c.Storage.PresignTTL == 0 {
		c.Storage.PresignTTL = 10 * time.Minute
	}
	if c.Reaper.InitialDelay == 0 {
		c.Reaper.InitialDelay = 5 * time.Minute
	}
	if c.Reaper.Interval == 0 {
		c.Reaper.Interval = time.Hour
	}
	if c.STT.Timeout == 0 {
		c.STT.Timeout = 10 * time.Minute
	}
	if c.SLLM.Timeout == 0 {
		c.SLLM.Timeout = 10 * time.Minute
	}
	if c.SLLM.Gemini.Model == "" {
		c.SLLM.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Audio.FFmpegPath == "" {
		c.Audio.FFmpegPath = "ffmpeg"
	}
	if c.Audio.MaxConcurrent == 0 {
		c.Audio.MaxConcurrent = 2
	}
	if c.Inbox.MaxConcurrent == 0 {
		c.Inbox.MaxConcurrent = 2
	}
	if c.Renderer.FontName == "" {
		c.Renderer.FontName = "NanumGothic"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "minutes-flow"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
