package payment

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
	"github.com/shopmesh/shopmesh/internal/domains/payments/adapters/external/gateway"
)

// Config carries environment-driven settings for the payment service.
type Config struct {
	Port        string
	PostgresDSN string
	AMQPURL     string
	Gateway     gateway.Config
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        bootstrap.EnvDefault("PORT", "8082"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AMQPURL:     strings.TrimSpace(os.Getenv("AMQP_URL")),
		Gateway:     gateway.Defaults(),
	}
	if raw := strings.TrimSpace(os.Getenv("PAYMENT_SUCCESS_RATE")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate < 0 || rate > 1 {
			return Config{}, fmt.Errorf("PAYMENT_SUCCESS_RATE must be a number between 0 and 1")
		}
		cfg.Gateway.SuccessRate = rate
	}
	return cfg, nil
}
