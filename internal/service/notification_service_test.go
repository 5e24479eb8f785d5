package service

import (
	"testing"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/fogonims/stock-service/internal/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreadLowStock(t *testing.T, env *testEnv, caller domain.Caller, productID uuid.UUID) []*domain.Notification {
	t.Helper()

	var unread []*domain.Notification
	for _, n := range env.notificationsOfType(t, caller, domain.NotificationTypeLowStock) {
		if !n.IsRead && n.ProductID != nil && *n.ProductID == productID {
			unread = append(unread, n)
		}
	}
	return unread
}

func TestLowStockEvaluationDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Vanilla", 1, 0, 12.0)

	// two evaluations in a row with the condition holding
	env.dispatcher.EvaluateLowStock(product)
	env.dispatcher.EvaluateLowStock(product)

	unread := unreadLowStock(t, env, env.manager, product.ID)
	assert.Len(t, unread, 1)
}

func TestLowStockRefiresAfterPriorAlertRead(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Cocoa", 1, 0, 6.0)

	env.dispatcher.EvaluateLowStock(product)
	unread := unreadLowStock(t, env, env.manager, product.ID)
	require.Len(t, unread, 1)

	_, err := env.dispatcher.MarkRead(env.manager, unread[0].ID)
	require.NoError(t, err)

	// condition still holds, prior alert dismissed: fires again
	env.dispatcher.EvaluateLowStock(product)
	unread = unreadLowStock(t, env, env.manager, product.ID)
	assert.Len(t, unread, 1)

	all := env.notificationsOfType(t, env.manager, domain.NotificationTypeLowStock)
	assert.Len(t, all, 2)
}

func TestLowStockNotFiredWhenHealthy(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Beans", 50, 10, 2.0)

	env.dispatcher.EvaluateLowStock(product)

	assert.Empty(t, env.notificationsOfType(t, env.manager, domain.NotificationTypeLowStock))
}

func TestLowStockAlertsEveryManager(t *testing.T) {
	env := newTestEnv(t)
	manager2 := env.seedUser(t, "dave", domain.RoleManager)
	product := env.seedProduct(t, "Thyme", 0, 0, 1.0)

	env.dispatcher.EvaluateLowStock(product)

	assert.Len(t, unreadLowStock(t, env, env.manager, product.ID), 1)
	assert.Len(t, unreadLowStock(t, env, manager2, product.ID), 1)
	// cooks are not low-stock recipients
	assert.Empty(t, env.notificationsOfType(t, env.cook, domain.NotificationTypeLowStock))
}

func TestQuantityDropsThroughFloorFiresOnce(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Parsley", 3, 0, 0.7)

	// two separate quantity drops, both below the hard floor
	input := ProductInput{Name: "Parsley", Quantity: 1, Price: 0.7}
	_, err := env.inventory.UpdateProduct(env.manager, product.ID, input)
	require.NoError(t, err)

	input.Quantity = 0
	_, err = env.inventory.UpdateProduct(env.manager, product.ID, input)
	require.NoError(t, err)

	assert.Len(t, unreadLowStock(t, env, env.manager, product.ID), 1)
}

func TestExplicitFlagFiresAlert(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Truffle Oil", 50, 0, 30.0)

	// plenty of stock, but the flag alone marks the product low
	input := ProductInput{Name: "Truffle Oil", Quantity: 50, Price: 30.0, LowStockFlag: true}
	_, err := env.inventory.UpdateProduct(env.manager, product.ID, input)
	require.NoError(t, err)

	assert.Len(t, unreadLowStock(t, env, env.manager, product.ID), 1)
}

func TestMarkReadGuardsAndIdempotence(t *testing.T) {
	env := newTestEnv(t)

	notification := domain.NewNotification(env.cook.ID, domain.NotificationTypeRequestApproved, "approved")
	require.NoError(t, env.store.CreateNotification(notification))

	_, err := env.dispatcher.MarkRead(env.cook2, notification.ID)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	marked, err := env.dispatcher.MarkRead(env.cook, notification.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)

	// marking again is a no-op, not an error
	marked, err = env.dispatcher.MarkRead(env.cook, notification.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)

	_, err = env.dispatcher.MarkRead(env.cook, uuid.New())
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestListNotificationsScopedAndNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	first := domain.NewNotification(env.cook.ID, domain.NotificationTypeRequestApproved, "first")
	second := domain.NewNotification(env.cook.ID, domain.NotificationTypeRequestDenied, "second")
	other := domain.NewNotification(env.cook2.ID, domain.NotificationTypeRequestApproved, "not yours")
	require.NoError(t, env.store.CreateNotification(first))
	require.NoError(t, env.store.CreateNotification(second))
	require.NoError(t, env.store.CreateNotification(other))

	notifications, err := env.dispatcher.ListNotifications(env.cook)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "second", notifications[0].Message)
	assert.Equal(t, "first", notifications[1].Message)
}

func TestRequestCreatedFanOutReachesAllManagers(t *testing.T) {
	env := newTestEnv(t)
	manager2 := env.seedUser(t, "erin", domain.RoleManager)

	payload := events.RequestCreatedPayload{
		RequestID:     uuid.New(),
		ProductID:     uuid.New(),
		ProductName:   "Flour",
		RequesterID:   env.cook.ID,
		RequesterName: "alice",
		Quantity:      5,
	}

	require.NoError(t, env.dispatcher.NotifyRequestCreated(payload))

	for _, manager := range []domain.Caller{env.manager, manager2} {
		created := env.notificationsOfType(t, manager, domain.NotificationTypeRequestCreated)
		require.Len(t, created, 1)
		assert.Contains(t, created[0].Message, "alice requested 5 x Flour")
	}
	assert.Empty(t, env.notificationsOfType(t, env.cook2, domain.NotificationTypeRequestCreated))
}
