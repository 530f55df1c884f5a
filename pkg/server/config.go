package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
)

// DefaultPort is used when PORT is not set.
const DefaultPort = 8080

// Config controls the dev server. Every field can be set from the
// environment.
type Config struct {
	// Port to listen on. ENV: PORT
	Port int `env:"PORT,default=8080" validate:"min=1,max=65535"`
	// PublicDir holds the prebuilt assets. ENV: PROPEDIT_PUBLIC_DIR
	PublicDir string `env:"PROPEDIT_PUBLIC_DIR,default=public" validate:"required"`
	// SearchPaths are extra asset roots consulted after PublicDir, comma
	// separated. ENV: PROPEDIT_SEARCH_PATHS
	SearchPaths string `env:"PROPEDIT_SEARCH_PATHS"`
	// LiveReload enables the file watcher and reload endpoint.
	// ENV: PROPEDIT_LIVE_RELOAD
	LiveReload bool `env:"PROPEDIT_LIVE_RELOAD,default=true"`
	// DocgenPath is watched and reloaded into the documentation store when
	// set. ENV: PROPEDIT_DOCGEN
	DocgenPath string `env:"PROPEDIT_DOCGEN"`
}

var validate = validator.New()

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		Port:       DefaultPort,
		PublicDir:  "public",
		LiveReload: true,
	}
}

// LoadConfig decodes Config from the environment and validates it.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("server: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports invalid settings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("server: invalid config: %w", err)
	}
	return nil
}

// Roots returns PublicDir followed by each search path, in lookup order.
func (c Config) Roots() []string {
	roots := []string{c.PublicDir}
	for _, path := range strings.Split(c.SearchPaths, ",") {
		if path = strings.TrimSpace(path); path != "" {
			roots = append(roots, path)
		}
	}
	return roots
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
