package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	DatabaseURL string `env:"DATABASE_URL"`

	// PublicBaseURL is the externally visible origin of this API, used to
	// build OAuth redirect URIs.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:3000"`
	FrontendURL   string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	Yandex  OAuthCredentials `envPrefix:"YANDEX_"`
	VK      OAuthCredentials `envPrefix:"VK_"`
	Metrika Metrika          `envPrefix:"YANDEX_METRIKA_"`
}

// OAuthCredentials contains one provider's client id/secret pair.
type OAuthCredentials struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

// Metrika contains Yandex Metrika reporting API parameters.
type Metrika struct {
	Token     string `env:"TOKEN"`
	CounterID string `env:"COUNTER" envDefault:"101026698"`
}

// Configured reports whether both halves of the credential pair are set.
func (c OAuthCredentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
