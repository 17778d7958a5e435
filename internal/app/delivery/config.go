package delivery

import (
	"os"
	"strings"

	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
)

// Config carries environment-driven settings for the delivery service.
type Config struct {
	Port        string
	PostgresDSN string
	AMQPURL     string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() Config {
	return Config{
		Port:        bootstrap.EnvDefault("PORT", "8083"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AMQPURL:     strings.TrimSpace(os.Getenv("AMQP_URL")),
	}
}
