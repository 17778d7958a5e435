// Package gateway simulates the external payment provider. There is no real
// provider behind this system; the simulator gives the choreography realistic
// latency and a tunable failure rate.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
	"github.com/shopmesh/shopmesh/internal/domains/payments/ports"
)

// ErrDeclined is returned when the simulated provider rejects a charge.
var ErrDeclined = errors.New("payment gateway declined the charge")

// Config tunes the simulator. The zero value charges instantly and always
// declines (a zero success rate never wins the roll), which is handy for
// exercising failure paths; use Defaults() for production-like behavior.
type Config struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	SuccessRate float64
	Seed        int64
}

// Defaults returns the standard simulation profile: one to three seconds of
// processing and a 90% success rate.
func Defaults() Config {
	return Config{
		MinDelay:    time.Second,
		MaxDelay:    3 * time.Second,
		SuccessRate: 0.9,
	}
}

var _ ports.Gateway = (*Simulator)(nil)

// Simulator implements the payment gateway port.
type Simulator struct {
	cfg    Config
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a simulator. A non-zero Seed makes outcomes reproducible.
func New(cfg Config, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{cfg: cfg, logger: logger, rng: rand.New(rand.NewSource(seed))}
}

// Charge sleeps for a random duration inside the configured window and then
// succeeds or declines according to the success rate. Cancelling the context
// aborts the charge.
func (s *Simulator) Charge(ctx context.Context, payment *domain.Payment) error {
	delay := s.delay()
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if s.roll() >= s.cfg.SuccessRate {
		s.logger.Info("gateway declined charge",
			slog.String("payment.id", payment.ID.String()), slog.Float64("amount", payment.Amount))
		return ErrDeclined
	}
	s.logger.Info("gateway accepted charge",
		slog.String("payment.id", payment.ID.String()), slog.Float64("amount", payment.Amount))
	return nil
}

func (s *Simulator) delay() time.Duration {
	if s.cfg.MaxDelay <= s.cfg.MinDelay {
		return s.cfg.MinDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.MinDelay + time.Duration(s.rng.Int63n(int64(s.cfg.MaxDelay-s.cfg.MinDelay)))
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
