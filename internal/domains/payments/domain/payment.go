package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a payment.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
	StatusRefunded  Status = "Refunded"
)

var (
	ErrInvalidAmount    = errors.New("payment amount must be greater than zero")
	ErrAlreadyProcessed = errors.New("payment has already been processed")
	ErrNotRefundable    = errors.New("only completed payments can be refunded")
	ErrUnknownStatus    = errors.New("unknown payment status")
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// Payment is the aggregate managed by the payments bounded context. Exactly
// one payment exists per order.
type Payment struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	Amount       float64
	Status       Status
	ErrorMessage string
	CompletedAt  *time.Time
	FailedAt     *time.Time
	RefundedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewPayment validates the invariants and builds a pending payment.
func NewPayment(orderID uuid.UUID, amount float64) (*Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	now := time.Now().UTC()
	return &Payment{
		ID:        uuid.New(),
		OrderID:   orderID,
		Amount:    amount,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Complete marks a pending payment as successfully charged.
func (p *Payment) Complete() error {
	if p.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	now := time.Now().UTC()
	p.Status = StatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	return nil
}

// Fail marks a pending payment as rejected with the gateway's reason.
func (p *Payment) Fail(reason string) error {
	if p.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	now := time.Now().UTC()
	p.Status = StatusFailed
	p.ErrorMessage = reason
	p.FailedAt = &now
	p.UpdatedAt = now
	return nil
}

// Refund reverses a completed payment.
func (p *Payment) Refund() error {
	if p.Status != StatusCompleted {
		return ErrNotRefundable
	}
	now := time.Now().UTC()
	p.Status = StatusRefunded
	p.RefundedAt = &now
	p.UpdatedAt = now
	return nil
}

// ChangeStatus moves the payment to the given state through the transition
// rules above. It reports false without touching the aggregate when the
// status is already current.
func (p *Payment) ChangeStatus(next Status) (bool, error) {
	if !next.Valid() {
		return false, ErrUnknownStatus
	}
	if p.Status == next {
		return false, nil
	}
	switch next {
	case StatusCompleted:
		return true, p.Complete()
	case StatusFailed:
		return true, p.Fail("payment marked as failed")
	case StatusRefunded:
		return true, p.Refund()
	default:
		return false, ErrAlreadyProcessed
	}
}
