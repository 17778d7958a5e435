package order

import (
	"os"
	"strings"

	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
)

// Config carries environment-driven settings for the order service.
type Config struct {
	Port        string
	PostgresDSN string
	AMQPURL     string
	CatalogURL  string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() Config {
	return Config{
		Port:        bootstrap.EnvDefault("PORT", "8081"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AMQPURL:     strings.TrimSpace(os.Getenv("AMQP_URL")),
		CatalogURL:  bootstrap.EnvDefault("CATALOG_URL", "http://localhost:8086"),
	}
}
