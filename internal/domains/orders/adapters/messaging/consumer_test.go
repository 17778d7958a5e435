package messaging

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/orders/adapters/memory"
	"github.com/shopmesh/shopmesh/internal/domains/orders/application"
	"github.com/shopmesh/shopmesh/internal/domains/orders/domain"
	"github.com/shopmesh/shopmesh/internal/domains/orders/ports"
	platformmessaging "github.com/shopmesh/shopmesh/internal/platform/messaging"
)

type stubCatalog struct {
	products map[int64]ports.Product
}

func (c *stubCatalog) GetProducts(_ context.Context, ids []int64) ([]ports.Product, error) {
	result := make([]ports.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := c.products[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []contracts.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event contracts.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []contracts.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]contracts.Event{}, p.events...)
}

func newFixture() (*Consumer, *application.Service, *recordingPublisher) {
	repo := memory.NewRepository()
	catalog := &stubCatalog{products: map[int64]ports.Product{
		1: {ID: 1, Name: "Keyboard", Price: 49.90, Stock: 10},
		2: {ID: 2, Name: "Mouse", Price: 19.90, Stock: 2},
	}}
	publisher := &recordingPublisher{}
	svc := application.NewService(repo, catalog, publisher, nil)
	return NewConsumer(svc, publisher, nil), svc, publisher
}

func placeOrder(t *testing.T, svc *application.Service) *domain.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		UserID:          uuid.New(),
		DeliveryAddress: "1 Main Street",
		Items:           []ports.CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	return order
}

func TestHandlePaymentCompletedMarksOrderPaid(t *testing.T) {
	consumer, svc, _ := newFixture()
	order := placeOrder(t, svc)

	err := consumer.HandlePaymentCompleted(context.Background(), contracts.PaymentCompleted{
		OrderID: order.ID, PaymentID: uuid.New(), Amount: order.TotalPrice,
	})
	require.NoError(t, err)

	updated, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
}

func TestPaymentCompletedBeforeFailedWinsAndDuplicateIsNoOp(t *testing.T) {
	consumer, svc, publisher := newFixture()
	order := placeOrder(t, svc)

	completed := contracts.PaymentCompleted{OrderID: order.ID, PaymentID: uuid.New(), Amount: order.TotalPrice}
	require.NoError(t, consumer.HandlePaymentCompleted(context.Background(), completed))
	// Redelivery of the same event must not publish a second status change.
	require.NoError(t, consumer.HandlePaymentCompleted(context.Background(), completed))

	updated, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	paidEvents := 0
	for _, event := range publisher.published() {
		if changed, ok := event.(contracts.OrderStatusChanged); ok && changed.Status == string(domain.StatusPaid) {
			paidEvents++
		}
	}
	assert.Equal(t, 1, paidEvents)
}

func TestHandlePaymentFailedMarksOrderUnpaid(t *testing.T) {
	consumer, svc, _ := newFixture()
	order := placeOrder(t, svc)

	err := consumer.HandlePaymentFailed(context.Background(), contracts.PaymentFailed{
		OrderID: order.ID, PaymentID: uuid.New(), ErrorMessage: "payment processing failed",
	})
	require.NoError(t, err)

	updated, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnpaid, updated.Status)
}

func TestHandleDeliveryStatusUpdatedMapsDeliveryStates(t *testing.T) {
	consumer, svc, _ := newFixture()
	order := placeOrder(t, svc)

	require.NoError(t, consumer.HandleDeliveryStatusUpdated(context.Background(), contracts.DeliveryStatusUpdated{
		DeliveryID: uuid.New(), OrderID: order.ID, Status: "Shipped",
	}))
	updated, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)

	// A delivery state with no order equivalent leaves the order untouched.
	require.NoError(t, consumer.HandleDeliveryStatusUpdated(context.Background(), contracts.DeliveryStatusUpdated{
		DeliveryID: uuid.New(), OrderID: order.ID, Status: "Pending",
	}))
	updated, err = svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
}

// Events naming an order this service never created are acked, not requeued:
// a retry can never make the order appear, and on the real broker the
// redelivery loop would block the queue behind the poison message.
func TestUnknownOrderEventsAreAcked(t *testing.T) {
	consumer, _, publisher := newFixture()
	orderID := uuid.New()

	require.NoError(t, consumer.HandlePaymentCompleted(context.Background(), contracts.PaymentCompleted{
		OrderID: orderID, PaymentID: uuid.New(), Amount: 10,
	}))
	require.NoError(t, consumer.HandlePaymentFailed(context.Background(), contracts.PaymentFailed{
		OrderID: orderID, PaymentID: uuid.New(), ErrorMessage: "payment processing failed",
	}))
	require.NoError(t, consumer.HandlePaymentRefunded(context.Background(), contracts.PaymentRefunded{
		OrderID: orderID, PaymentID: uuid.New(), Amount: 10,
	}))
	require.NoError(t, consumer.HandleDeliveryStatusUpdated(context.Background(), contracts.DeliveryStatusUpdated{
		DeliveryID: uuid.New(), OrderID: orderID, Status: "Shipped",
	}))

	assert.Empty(t, publisher.published(), "no status change may be published for an unknown order")
}

func TestHandleCartCheckoutCreatesOrder(t *testing.T) {
	consumer, svc, _ := newFixture()
	userID := uuid.New()

	err := consumer.HandleCartCheckout(context.Background(), contracts.CartCheckout{
		UserID:          userID,
		DeliveryAddress: "1 Main Street",
		Items:           []contracts.CartCheckoutItem{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	orders, err := svc.ListUserOrders(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.StatusPending, orders[0].Status)
}

func TestHandleCartCheckoutInsufficientStockPublishesCheckoutError(t *testing.T) {
	consumer, svc, publisher := newFixture()
	userID := uuid.New()

	err := consumer.HandleCartCheckout(context.Background(), contracts.CartCheckout{
		UserID:          userID,
		DeliveryAddress: "1 Main Street",
		Items:           []contracts.CartCheckoutItem{{ProductID: 2, Quantity: 99}},
	})
	require.NoError(t, err, "checkout rejection is acked, not requeued")

	orders, err := svc.ListUserOrders(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	var checkoutErrors []contracts.CheckoutError
	for _, event := range publisher.published() {
		if failure, ok := event.(contracts.CheckoutError); ok {
			checkoutErrors = append(checkoutErrors, failure)
		}
	}
	require.Len(t, checkoutErrors, 1)
	assert.Equal(t, userID, checkoutErrors[0].UserID)
	assert.Contains(t, checkoutErrors[0].Details, "insufficient stock")
}

func TestHandleCartCheckoutUnknownProductIsDropped(t *testing.T) {
	consumer, _, publisher := newFixture()

	err := consumer.HandleCartCheckout(context.Background(), contracts.CartCheckout{
		UserID:          uuid.New(),
		DeliveryAddress: "1 Main Street",
		Items:           []contracts.CartCheckoutItem{{ProductID: 404, Quantity: 1}},
	})
	require.ErrorIs(t, err, platformmessaging.ErrDrop)
	assert.Empty(t, publisher.published())
}
