// Package app provides the application container and its configuration.
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/dao"
	"github.com/haierkeys/voice-notes-service/pkg/util"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig is the full yaml configuration of the service.
type AppConfig struct {
	File       string           `yaml:"-"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   dao.Config       `yaml:"database"`
	App        AppSettings      `yaml:"app"`
	User       UserConfig       `yaml:"user"`
	Security   SecurityConfig   `yaml:"security"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Tracer     TracerConfig     `yaml:"tracer"`
}

// ServerConfig tunes the HTTP listeners.
type ServerConfig struct {
	// RunMode is the gin run mode.
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort is the public API listen address.
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout in seconds.
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout in seconds.
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen serves pprof, expvar and prometheus metrics.
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level as understood by zapcore.ParseLevel.
	Level string `yaml:"level" default:"info"`
	// File is the log file path; empty keeps console output only.
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production switches the file core to JSON output.
	Production bool `yaml:"production" default:"true"`
}

// SecurityConfig holds the token settings.
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"voice-notes-Auth-Token"`
	// TokenExpiry supports 7d, 24h, 30m forms.
	TokenExpiry string `yaml:"token-expiry" default:"365d"`
}

// UserConfig controls the user module.
type UserConfig struct {
	RegisterIsEnable bool `yaml:"register-is-enable" default:"true"`
}

// AppSettings holds general application settings.
type AppSettings struct {
	DefaultPageSize int `yaml:"default-page-size" default:"20"`
	MaxPageSize     int `yaml:"max-page-size" default:"100"`
	// DefaultContextTimeout bounds request handling, in seconds.
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// SoftDeleteRetentionTime is how long deleted notes survive before the
	// cleanup task destroys them; 0 or empty disables cleanup.
	SoftDeleteRetentionTime string `yaml:"soft-delete-retention-time" default:"7d"`
	// NoteCleanupInterval is how often the cleanup task runs.
	NoteCleanupInterval string `yaml:"note-cleanup-interval" default:"1h"`
}

// TranscribeConfig configures the speech provider.
type TranscribeConfig struct {
	BaseURL     string `yaml:"base-url" default:"https://api.openai.com/v1"`
	APIKey      string `yaml:"api-key"`
	SpeechModel string `yaml:"speech-model" default:"whisper-1"`
	FormatModel string `yaml:"format-model" default:"gpt-4.1-nano"`
	// Timeout bounds the whole transcribe-and-format pipeline.
	Timeout string `yaml:"timeout" default:"60s"`
}

// TracerConfig configures request tracing.
type TracerConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Header  string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig reads a yaml config file, filling defaults for absent fields.
// It returns the config and the file's absolute path.
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// fill fields that are present in the yaml but empty
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// Save writes the config back to its file.
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// GetTokenExpiry parses the configured token expiry.
func (c *AppConfig) GetTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil {
		return expiry
	}
	return 365 * 24 * time.Hour
}

// GetTranscribeTimeout parses the configured pipeline timeout.
func (c *AppConfig) GetTranscribeTimeout() time.Duration {
	if timeout, err := util.ParseDuration(c.Transcribe.Timeout); err == nil {
		return timeout
	}
	return 60 * time.Second
}

// GetContextTimeout returns the request context deadline.
func (c *AppConfig) GetContextTimeout() time.Duration {
	if c.App.DefaultContextTimeout > 0 {
		return time.Duration(c.App.DefaultContextTimeout) * time.Second
	}
	return 60 * time.Second
}
