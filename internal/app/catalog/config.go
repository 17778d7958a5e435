package catalog

import (
	"os"
	"strings"

	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
)

// Config carries environment-driven settings for the catalog service.
type Config struct {
	Port        string
	PostgresDSN string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() Config {
	return Config{
		Port:        bootstrap.EnvDefault("PORT", "8086"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
	}
}
