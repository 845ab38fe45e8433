// Package config loads the application configuration from the environment.
//
// CONFIGURATION CONTRACT:
// Provider credentials and the deployment base URL are hard requirements —
// an OAuth flow with an undefined client secret fails in confusing ways at
// request time, so we refuse to start instead. Everything optional has a
// default that works for local development.
//
// Values come from the process environment, with a best-effort .env file for
// local development (godotenv ignores a missing file). Struct tags drive the
// parsing via caarlos0/env, so this file is the complete inventory of every
// environment variable the server reads.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/marco-souza/tremtec/internal/model"
)

// Config holds everything the server needs to run.
type Config struct {
	// BaseURL is the public URL of the deployment, e.g. "https://tremtec.com".
	// OAuth callback URLs are derived from it.
	BaseURL string `env:"BASE_URL,required,notEmpty"`

	// GitHub OAuth app credentials.
	GitHubID     string `env:"GITHUB_ID,required,notEmpty"`
	GitHubSecret string `env:"GITHUB_SECRET,required,notEmpty"`

	// Google OAuth client credentials.
	GoogleID     string `env:"GOOGLE_ID,required,notEmpty"`
	GoogleSecret string `env:"GOOGLE_SECRET,required,notEmpty"`

	// Env selects cookie strictness: anything other than "development"
	// forces Secure/HttpOnly on the session cookie.
	Env string `env:"APP_ENV" envDefault:"development"`

	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite file backing the login directory.
	// An empty value disables the directory entirely.
	DBPath string `env:"DB_PATH" envDefault:"data/tremtec.db"`
}

// Load reads the .env file (if present) and the process environment into a
// Config, validating it before returning. Any error here is fatal — main
// logs it and exits.
func Load() (Config, error) {
	// The .env file is a local-dev convenience; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate catches values that are present but unusable. Required-ness is
// already enforced by the env tags; this checks shape.
func (c Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: BASE_URL %q is not an absolute URL", c.BaseURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d is out of range", c.Port)
	}
	return nil
}

// IsProduction reports whether the server runs outside local development.
// The session cookie's Secure and HttpOnly flags follow this.
func (c Config) IsProduction() bool {
	return c.Env != "development"
}

// CallbackURL derives the OAuth redirect URL for a provider from the base
// URL. Each provider's app registration must list this exact URL.
func (c Config) CallbackURL(p model.Provider) string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/auth/" + string(p)
}
