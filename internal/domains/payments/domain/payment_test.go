package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingPayment(t *testing.T) *Payment {
	t.Helper()
	payment, err := NewPayment(uuid.New(), 42.50)
	require.NoError(t, err)
	return payment
}

func TestNewPaymentStartsPending(t *testing.T) {
	payment := pendingPayment(t)
	assert.Equal(t, StatusPending, payment.Status)
	assert.Nil(t, payment.CompletedAt)

	_, err := NewPayment(uuid.New(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCompleteOnlyFromPending(t *testing.T) {
	payment := pendingPayment(t)
	require.NoError(t, payment.Complete())
	assert.Equal(t, StatusCompleted, payment.Status)
	require.NotNil(t, payment.CompletedAt)

	assert.ErrorIs(t, payment.Complete(), ErrAlreadyProcessed)
	assert.ErrorIs(t, payment.Fail("late failure"), ErrAlreadyProcessed)
}

func TestFailRecordsReason(t *testing.T) {
	payment := pendingPayment(t)
	require.NoError(t, payment.Fail("payment processing failed"))
	assert.Equal(t, StatusFailed, payment.Status)
	assert.Equal(t, "payment processing failed", payment.ErrorMessage)
	require.NotNil(t, payment.FailedAt)
}

func TestRefundOnlyFromCompleted(t *testing.T) {
	payment := pendingPayment(t)
	assert.ErrorIs(t, payment.Refund(), ErrNotRefundable)

	require.NoError(t, payment.Complete())
	require.NoError(t, payment.Refund())
	assert.Equal(t, StatusRefunded, payment.Status)
	require.NotNil(t, payment.RefundedAt)

	failed := pendingPayment(t)
	require.NoError(t, failed.Fail("declined"))
	assert.ErrorIs(t, failed.Refund(), ErrNotRefundable)
}

func TestChangeStatus(t *testing.T) {
	payment := pendingPayment(t)

	changed, err := payment.ChangeStatus(StatusPending)
	require.NoError(t, err)
	assert.False(t, changed, "same status is a no-op")

	changed, err = payment.ChangeStatus(StatusCompleted)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = payment.ChangeStatus(Status("Lost"))
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = payment.ChangeStatus(StatusFailed)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}
