package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/smartminutes/pkg/repository/record"
	"github.com/secmon-lab/smartminutes/pkg/service/enrich"
	"github.com/urfave/cli/v3"
)

// MaxTagsLimit bounds [ai] max_tags
const MaxTagsLimit = 20

// AppConfig represents the application configuration file
type AppConfig struct {
	AI      AIConfig      `toml:"ai"`
	Storage StorageConfig `toml:"storage"`
}

// AIConfig tunes the prompts sent to the LLM
type AIConfig struct {
	Language           string `toml:"language"`
	SummaryInstruction string `toml:"summary_instruction"`
	MaxTags            int    `toml:"max_tags"`
}

// StorageConfig tunes the record store
type StorageConfig struct {
	Key string `toml:"key"`
}

// Validate checks if the AIConfig is valid
func (a *AIConfig) Validate() error {
	if a.MaxTags < 0 || a.MaxTags > MaxTagsLimit {
		return goerr.Wrap(ErrInvalidConfig, "max_tags out of range",
			goerr.V("max_tags", a.MaxTags), goerr.V("limit", MaxTagsLimit))
	}
	return nil
}

// Validate checks if the StorageConfig is valid
func (s *StorageConfig) Validate() error {
	if s.Key == "" {
		return nil
	}
	if strings.ContainsAny(s.Key, "/\\") || strings.TrimSpace(s.Key) != s.Key {
		return goerr.Wrap(ErrInvalidConfig, "storage key must not contain slashes or surrounding spaces",
			goerr.V("key", s.Key))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if err := a.AI.Validate(); err != nil {
		return goerr.Wrap(err, "invalid [ai] section")
	}
	if err := a.Storage.Validate(); err != nil {
		return goerr.Wrap(err, "invalid [storage] section")
	}
	return nil
}

// EnrichOptions converts the [ai] section into enrich options
func (a *AppConfig) EnrichOptions() []enrich.Option {
	var opts []enrich.Option
	if a.AI.Language != "" {
		opts = append(opts, enrich.WithLanguage(a.AI.Language))
	}
	if a.AI.SummaryInstruction != "" {
		opts = append(opts, enrich.WithSummaryInstruction(a.AI.SummaryInstruction))
	}
	if a.AI.MaxTags > 0 {
		opts = append(opts, enrich.WithMaxTags(a.AI.MaxTags))
	}
	return opts
}

// RecordOptions converts the [storage] section into record store options
func (a *AppConfig) RecordOptions() []record.Option {
	var opts []record.Option
	if a.Storage.Key != "" {
		opts = append(opts, record.WithKey(a.Storage.Key))
	}
	return opts
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// App holds the CLI flag pointing at the optional config file
type App struct {
	path string
}

// Flags returns CLI flags for the application config file
func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML config file (optional)",
			Sources:     cli.EnvVars("SMARTMINUTES_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the config file, or returns defaults when no path is set
func (x *App) Configure() (*AppConfig, error) {
	if x.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(x.path)
}
