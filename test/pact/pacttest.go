//go:build pact
// +build pact

// Package pacttest holds the shared constants and paths for the contract
// tests between the notification service (consumer) and the order service
// (provider).
package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
)

const (
	ProviderName = "order-service"
	ConsumerName = "notification-service"

	StateOrderExists  = "an order exists"
	StateOrderMissing = "the order does not exist"
)

var (
	// ExistingOrderID and ExistingUserID are fixed so provider state
	// handlers can seed exactly the order the consumer asks for.
	ExistingOrderID = uuid.MustParse("7b8a1c2d-3e4f-4a5b-8c6d-9e0f1a2b3c4d")
	ExistingUserID  = uuid.MustParse("f0e1d2c3-b4a5-4687-9788-695a4b3c2d1e")
	MissingOrderID  = uuid.MustParse("00000000-0000-4000-8000-000000000404")
)

const ExampleOrderStatus = "Paid"

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the notification consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
