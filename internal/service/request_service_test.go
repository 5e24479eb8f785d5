package service

import (
	"sync"
	"testing"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/fogonims/stock-service/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store      *memory.Store
	dispatcher *NotificationService
	requests   *RequestService
	inventory  *InventoryService

	cook    domain.Caller
	cook2   domain.Caller
	manager domain.Caller
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	dispatcher := NewNotificationService(store, store, NopPublisher{})

	env := &testEnv{
		store:      store,
		dispatcher: dispatcher,
		requests:   NewRequestService(store, store, dispatcher, NopPublisher{}),
		inventory:  NewInventoryService(store, dispatcher, NopPublisher{}),
	}

	env.cook = env.seedUser(t, "alice", domain.RoleCook)
	env.cook2 = env.seedUser(t, "bob", domain.RoleCook)
	env.manager = env.seedUser(t, "carol", domain.RoleManager)

	return env
}

func (e *testEnv) seedUser(t *testing.T, username string, role domain.Role) domain.Caller {
	t.Helper()

	user := domain.NewUser(username, username+"@kitchen.test", "x", role)
	require.NoError(t, e.store.CreateUser(user))
	return domain.Caller{ID: user.ID, Username: username, Role: role}
}

func (e *testEnv) seedProduct(t *testing.T, name string, quantity, threshold int, price float64) *domain.Product {
	t.Helper()

	product := domain.NewProduct(name, quantity, price, threshold)
	require.NoError(t, e.store.CreateProduct(product))
	return product
}

func (e *testEnv) notificationsOfType(t *testing.T, caller domain.Caller, notificationType domain.NotificationType) []*domain.Notification {
	t.Helper()

	all, err := e.dispatcher.ListNotifications(caller)
	require.NoError(t, err)

	var matched []*domain.Notification
	for _, n := range all {
		if n.Type == notificationType {
			matched = append(matched, n)
		}
	}
	return matched
}

func TestApproveCreditsStockAndNotifiesRequester(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Flour", 10, 2, 1.5)

	request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, request.Status)

	approved, err := env.requests.ApproveRequest(env.manager, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)

	stored, err := env.store.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.Quantity)

	notifications := env.notificationsOfType(t, env.cook, domain.NotificationTypeRequestApproved)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "Flour")
}

func TestEditWhilePendingThenDenyWithReason(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Olive Oil", 20, 5, 8.0)

	request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	newQuantity := 8
	edited, err := env.requests.EditRequest(env.cook, request.ID, EditRequestInput{Quantity: &newQuantity})
	require.NoError(t, err)
	assert.Equal(t, 8, edited.Quantity)

	denied, err := env.requests.DenyRequest(env.manager, request.ID, "insufficient budget")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusDenied, denied.Status)
	assert.Equal(t, "insufficient budget", denied.DenyReason)

	// stock untouched by a denial
	stored, err := env.store.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Quantity)

	notifications := env.notificationsOfType(t, env.cook, domain.NotificationTypeRequestDenied)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "insufficient budget")
}

func TestDeleteAfterDecisionFails(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Salt", 10, 0, 0.5)

	request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = env.requests.ApproveRequest(env.manager, request.ID)
	require.NoError(t, err)

	err = env.requests.DeleteRequest(env.cook, request.ID)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
}

func TestDecisionIsAtMostOnce(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Butter", 10, 2, 3.0)

	request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)

	_, err = env.requests.ApproveRequest(env.manager, request.ID)
	require.NoError(t, err)

	_, err = env.requests.ApproveRequest(env.manager, request.ID)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))

	_, err = env.requests.DenyRequest(env.manager, request.ID, "")
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))

	// quantity credited exactly once
	stored, err := env.store.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 14, stored.Quantity)
}

func TestConcurrentDecisionsOnlyOneWins(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Eggs", 10, 2, 0.3)

	request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 6})
	require.NoError(t, err)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		deny := i%2 == 0
		go func() {
			defer wg.Done()
			var err error
			if deny {
				_, err = env.requests.DenyRequest(env.manager, request.ID, "raced")
			} else {
				_, err = env.requests.ApproveRequest(env.manager, request.ID)
			}
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
		}
	}
	assert.Equal(t, 1, successes)
}

func TestConcurrentApprovalsConserveInventory(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Sugar", 10, 0, 1.0)

	quantities := []int{3, 5, 7, 2, 4, 6, 1, 8}
	var requestIDs []uuid.UUID
	expected := 10
	for _, q := range quantities {
		request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: q})
		require.NoError(t, err)
		requestIDs = append(requestIDs, request.ID)
		expected += q
	}

	var wg sync.WaitGroup
	for _, id := range requestIDs {
		wg.Add(1)
		go func(requestID uuid.UUID) {
			defer wg.Done()
			_, err := env.requests.ApproveRequest(env.manager, requestID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	stored, err := env.store.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, stored.Quantity)
}

func TestOwnershipGuards(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Rice", 30, 5, 2.0)

	request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	quantity := 9
	_, err = env.requests.EditRequest(env.cook2, request.ID, EditRequestInput{Quantity: &quantity})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	err = env.requests.DeleteRequest(env.cook2, request.ID)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	_, err = env.requests.ApproveRequest(env.manager, request.ID)
	require.NoError(t, err)

	_, err = env.requests.EditRequest(env.cook, request.ID, EditRequestInput{Quantity: &quantity})
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
}

func TestDecisionRequiresManagerRole(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Pepper", 10, 2, 4.0)

	request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = env.requests.ApproveRequest(env.cook2, request.ID)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	_, err = env.requests.DenyRequest(env.cook, request.ID, "no")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	// request untouched by the rejected attempts
	stored, err := env.store.GetRequestByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, stored.Status)
}

func TestListIsRoleScoped(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Milk", 40, 10, 1.2)

	_, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.requests.CreateRequest(env.cook2, CreateRequestInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	own, err := env.requests.ListRequests(env.cook)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, env.cook.ID, own[0].RequestedBy)

	all, err := env.requests.ListRequests(env.manager)
	require.NoError(t, err)
	require.Len(t, all, 2)
	names := map[string]bool{}
	for _, request := range all {
		names[request.RequesterName] = true
	}
	assert.True(t, names["alice"])
	assert.True(t, names["bob"])
}

func TestCreateRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Yeast", 5, 1, 0.8)

	_, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 0})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: uuid.New(), Quantity: 2})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestApproveOrphanedRequestFailsDenyStillWorks(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Saffron", 3, 1, 50.0)

	first, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	second, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, env.inventory.DeleteProduct(env.manager, product.ID))

	_, err = env.requests.ApproveRequest(env.manager, first.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	// the failed approval left the request pending
	stored, err := env.store.GetRequestByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, stored.Status)

	// denying a request for a deleted product is a legitimate resolution
	denied, err := env.requests.DenyRequest(env.manager, second.ID, "product discontinued")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusDenied, denied.Status)
}

func TestEditCanRepointToAnotherProduct(t *testing.T) {
	env := newTestEnv(t)
	flour := env.seedProduct(t, "Flour", 10, 2, 1.5)
	sugar := env.seedProduct(t, "Sugar", 10, 2, 1.0)

	request, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: flour.ID, Quantity: 5})
	require.NoError(t, err)

	edited, err := env.requests.EditRequest(env.cook, request.ID, EditRequestInput{ProductID: &sugar.ID})
	require.NoError(t, err)
	assert.Equal(t, sugar.ID, edited.ProductID)
	assert.Equal(t, 5, edited.Quantity)

	missing := uuid.New()
	_, err = env.requests.EditRequest(env.cook, request.ID, EditRequestInput{ProductID: &missing})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
