// Package bootstrap holds the startup helpers shared by every service binary.
package bootstrap

import (
	"log/slog"
	"os"
	"strings"

	"github.com/shopmesh/shopmesh/internal/platform/membus"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
	"github.com/shopmesh/shopmesh/internal/platform/rabbit"
)

// EnvDefault reads an environment variable, falling back when unset or blank.
func EnvDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// IsTruthy interprets common boolean spellings of an environment value.
func IsTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

// ConnectBroker dials RabbitMQ when an AMQP URL is configured. Without one the
// service runs against the in-process bus, which keeps local single-binary
// runs working but connects nothing across processes.
func ConnectBroker(amqpURL string, logger *slog.Logger) (messaging.Broker, error) {
	if strings.TrimSpace(amqpURL) == "" {
		if logger != nil {
			logger.Warn("AMQP_URL not set, using in-process message bus")
		}
		return membus.New(logger), nil
	}
	return rabbit.Dial(amqpURL, logger)
}
