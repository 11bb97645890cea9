package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	appErrors "github.com/Tomas-vilte/ghwait/internal/errors"
)

type (
	Config struct {
		Language string        `toml:"language"`
		GitPath  string        `toml:"git_path"`
		GHPath   string        `toml:"gh_path"`
		Backoff  BackoffConfig `toml:"backoff"`

		// PathFile is the file the config was loaded from, empty for defaults.
		PathFile string `toml:"-"`
	}

	// BackoffConfig controls how often gh is polled while waiting.
	BackoffConfig struct {
		InitialInterval Duration `toml:"initial_interval"`
		Multiplier      float64  `toml:"multiplier"`
		JitterPercent   uint64   `toml:"jitter_percent"`
		MaxInterval     Duration `toml:"max_interval"`
		MaxElapsed      Duration `toml:"max_elapsed"`
	}
)

const (
	defaultGitPath         = "git"
	defaultGHPath          = "gh"
	defaultInitialInterval = 500 * time.Millisecond
	defaultMultiplier      = 1.5
	defaultJitterPercent   = 50
	defaultMaxInterval     = 60 * time.Second
	defaultMaxElapsed      = 15 * time.Minute
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Language: LangEN,
		GitPath:  defaultGitPath,
		GHPath:   defaultGHPath,
		Backoff: BackoffConfig{
			InitialInterval: Duration{defaultInitialInterval},
			Multiplier:      defaultMultiplier,
			JitterPercent:   defaultJitterPercent,
			MaxInterval:     Duration{defaultMaxInterval},
			MaxElapsed:      Duration{defaultMaxElapsed},
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. An empty path returns
// the defaults untouched.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, appErrors.ErrConfigRead.WithError(err).WithContext("path", path)
	}

	md, err := toml.Decode(string(data), config)
	if err != nil {
		return nil, appErrors.ErrConfigRead.WithError(err).WithContext("path", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, appErrors.ErrConfigInvalid.
			WithError(fmt.Errorf("unknown key %q", undecoded[0].String())).
			WithContext("path", path)
	}

	config.PathFile = path

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the configuration can drive the polling loop.
func Validate(config *Config) error {
	if err := validate(config); err != nil {
		return appErrors.ErrConfigInvalid.WithError(err)
	}
	return nil
}

func validate(config *Config) error {
	if !IsSupportedLanguage(config.Language) {
		return fmt.Errorf("language %q is not supported", config.Language)
	}
	if config.GitPath == "" {
		return errors.New("git_path cannot be empty")
	}
	if config.GHPath == "" {
		return errors.New("gh_path cannot be empty")
	}

	b := config.Backoff
	if b.InitialInterval.Duration <= 0 {
		return errors.New("backoff.initial_interval must be greater than 0")
	}
	if b.Multiplier < 1 {
		return errors.New("backoff.multiplier must be at least 1")
	}
	if b.JitterPercent > 100 {
		return errors.New("backoff.jitter_percent must be between 0 and 100")
	}
	if b.MaxInterval.Duration < b.InitialInterval.Duration {
		return errors.New("backoff.max_interval must not be lower than backoff.initial_interval")
	}
	if b.MaxElapsed.Duration <= 0 {
		return errors.New("backoff.max_elapsed must be greater than 0")
	}
	return nil
}
