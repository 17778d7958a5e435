// Package e2e exercises the full checkout choreography across every service,
// wired together over the in-process bus.
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartsmemory "github.com/shopmesh/shopmesh/internal/domains/carts/adapters/memory"
	cartsmessaging "github.com/shopmesh/shopmesh/internal/domains/carts/adapters/messaging"
	cartsapp "github.com/shopmesh/shopmesh/internal/domains/carts/application"
	cartsports "github.com/shopmesh/shopmesh/internal/domains/carts/ports"
	deliveriesmemory "github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/memory"
	deliveriesmessaging "github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/messaging"
	deliveriesapp "github.com/shopmesh/shopmesh/internal/domains/deliveries/application"
	deliveriesdomain "github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
	notificationsmemory "github.com/shopmesh/shopmesh/internal/domains/notifications/adapters/memory"
	notificationsmessaging "github.com/shopmesh/shopmesh/internal/domains/notifications/adapters/messaging"
	notificationsapp "github.com/shopmesh/shopmesh/internal/domains/notifications/application"
	notificationsports "github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
	ordersmemory "github.com/shopmesh/shopmesh/internal/domains/orders/adapters/memory"
	ordersmessaging "github.com/shopmesh/shopmesh/internal/domains/orders/adapters/messaging"
	ordersapp "github.com/shopmesh/shopmesh/internal/domains/orders/application"
	ordersdomain "github.com/shopmesh/shopmesh/internal/domains/orders/domain"
	ordersports "github.com/shopmesh/shopmesh/internal/domains/orders/ports"
	paymentsmemory "github.com/shopmesh/shopmesh/internal/domains/payments/adapters/memory"
	paymentsmessaging "github.com/shopmesh/shopmesh/internal/domains/payments/adapters/messaging"
	paymentsapp "github.com/shopmesh/shopmesh/internal/domains/payments/application"
	paymentsdomain "github.com/shopmesh/shopmesh/internal/domains/payments/domain"
	"github.com/shopmesh/shopmesh/internal/platform/membus"
)

type ordersCatalogStub struct{}

func (ordersCatalogStub) GetProducts(_ context.Context, ids []int64) ([]ordersports.Product, error) {
	products := make([]ordersports.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, ordersports.Product{ID: id, Name: "Test Product", Price: 10, Stock: 100})
	}
	return products, nil
}

type cartsCatalogStub struct{}

func (cartsCatalogStub) GetProducts(_ context.Context, ids []int64) ([]cartsports.Product, error) {
	products := make([]cartsports.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, cartsports.Product{ID: id, Name: "Test Product", Price: 10, Stock: 100})
	}
	return products, nil
}

type instantGateway struct{}

func (instantGateway) Charge(context.Context, *paymentsdomain.Payment) error { return nil }

// orderLookupAdapter lets the notification consumer resolve users through the
// in-process order service instead of HTTP.
type orderLookupAdapter struct {
	orders ordersports.Service
}

func (a orderLookupAdapter) GetOrder(ctx context.Context, orderID uuid.UUID) (notificationsports.OrderInfo, error) {
	order, err := a.orders.GetOrder(ctx, orderID)
	if err != nil {
		return notificationsports.OrderInfo{}, err
	}
	return notificationsports.OrderInfo{ID: order.ID, UserID: order.UserID, Status: string(order.Status)}, nil
}

type platform struct {
	bus           *membus.Bus
	orders        *ordersapp.Service
	payments      *paymentsapp.Service
	deliveries    *deliveriesapp.Service
	notifications *notificationsapp.Service
	carts         *cartsapp.Service
}

func startPlatform(t *testing.T) *platform {
	t.Helper()
	bus := membus.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	p := &platform{
		bus:           bus,
		orders:        ordersapp.NewService(ordersmemory.NewRepository(), ordersCatalogStub{}, bus, nil),
		payments:      paymentsapp.NewService(paymentsmemory.NewRepository(), instantGateway{}, bus, nil),
		deliveries:    deliveriesapp.NewService(deliveriesmemory.NewRepository(), bus, nil),
		notifications: notificationsapp.NewService(notificationsmemory.NewRepository(), nil),
		carts:         cartsapp.NewService(cartsmemory.NewRepository(), cartsCatalogStub{}, bus, nil),
	}

	ctx := context.Background()
	require.NoError(t, ordersmessaging.NewConsumer(p.orders, bus, nil).Register(ctx, bus))
	require.NoError(t, paymentsmessaging.NewConsumer(p.payments, nil).Register(ctx, bus))
	require.NoError(t, deliveriesmessaging.NewConsumer(p.deliveries, nil).Register(ctx, bus))
	require.NoError(t, notificationsmessaging.NewConsumer(p.notifications, orderLookupAdapter{p.orders}, nil).Register(ctx, bus))
	require.NoError(t, cartsmessaging.NewConsumer(nil).Register(ctx, bus))
	return p
}

// orderPaid reports whether the order has absorbed the payment. The delivery
// service reacts to the same PaymentCompleted event and its Preparing status
// bounces back to the order, so Paid may already have advanced to
// PreparingForDelivery by the time a poll observes it.
func orderPaid(status ordersdomain.Status) bool {
	return status == ordersdomain.StatusPaid || status == ordersdomain.StatusPreparingForDelivery
}

func TestCheckoutToPaidOrderChoreography(t *testing.T) {
	p := startPlatform(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := p.carts.AddItem(ctx, userID, 1, 2)
	require.NoError(t, err)
	require.NoError(t, p.carts.Checkout(ctx, userID, "1 Main Street"))

	// Checkout -> order created -> payment charged -> order paid and
	// delivery preparing, all through broker events. Paid is transient: the
	// delivery's Preparing event immediately advances the order again, so the
	// poll accepts either resting state.
	var orderID uuid.UUID
	require.Eventually(t, func() bool {
		orders, err := p.orders.ListUserOrders(ctx, userID)
		if err != nil || len(orders) != 1 {
			return false
		}
		orderID = orders[0].ID
		return orderPaid(orders[0].Status)
	}, 5*time.Second, 10*time.Millisecond, "order never settled after payment")

	require.Eventually(t, func() bool {
		payment, err := p.payments.GetByOrderID(ctx, orderID)
		return err == nil && payment.Status == paymentsdomain.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond, "payment never completed")

	require.Eventually(t, func() bool {
		delivery, err := p.deliveries.GetByOrderID(ctx, orderID)
		return err == nil && delivery.Status == deliveriesdomain.StatusPreparing
	}, 5*time.Second, 10*time.Millisecond, "delivery never started preparing")

	// The cart is empty once the checkout is on the wire.
	cart, err := p.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cart.Empty())

	// The user heard about the order and the payment.
	require.Eventually(t, func() bool {
		notifications, err := p.notifications.ListForUser(ctx, userID)
		return err == nil && len(notifications) >= 2
	}, 5*time.Second, 10*time.Millisecond, "notifications never arrived")
}

func TestShippingPropagatesToOrderAndNotifications(t *testing.T) {
	p := startPlatform(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := p.carts.AddItem(ctx, userID, 7, 1)
	require.NoError(t, err)
	require.NoError(t, p.carts.Checkout(ctx, userID, "2 Side Street"))

	var orderID uuid.UUID
	require.Eventually(t, func() bool {
		orders, err := p.orders.ListUserOrders(ctx, userID)
		if err != nil || len(orders) != 1 {
			return false
		}
		orderID = orders[0].ID
		return orderPaid(orders[0].Status)
	}, 5*time.Second, 10*time.Millisecond)

	var delivery *deliveriesdomain.Delivery
	require.Eventually(t, func() bool {
		var err error
		delivery, err = p.deliveries.GetByOrderID(ctx, orderID)
		return err == nil && delivery.Status == deliveriesdomain.StatusPreparing
	}, 5*time.Second, 10*time.Millisecond)

	shipped, err := p.deliveries.UpdateStatus(ctx, delivery.ID, deliveriesdomain.StatusShipped)
	require.NoError(t, err)
	require.NotEmpty(t, shipped.TrackingNumber)

	require.Eventually(t, func() bool {
		order, err := p.orders.GetOrder(ctx, orderID)
		return err == nil && order.Status == ordersdomain.StatusShipped
	}, 5*time.Second, 10*time.Millisecond, "order never marked Shipped")

	_, err = p.deliveries.UpdateStatus(ctx, delivery.ID, deliveriesdomain.StatusDelivered)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		order, err := p.orders.GetOrder(ctx, orderID)
		return err == nil && order.Status == ordersdomain.StatusDelivered
	}, 5*time.Second, 10*time.Millisecond, "order never marked Delivered")

	require.Eventually(t, func() bool {
		notifications, err := p.notifications.ListForUser(ctx, userID)
		if err != nil {
			return false
		}
		for _, n := range notifications {
			if n.Title == "Your order has shipped" {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond, "shipping notification never arrived")
}
