package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockRequestRejectsNonPositiveQuantity(t *testing.T) {
	requester := uuid.New()
	product := uuid.New()

	for _, quantity := range []int{0, -1, -100} {
		_, err := NewStockRequest(requester, product, quantity)
		require.Error(t, err)
		assert.Equal(t, KindInvalidInput, KindOf(err))
	}

	request, err := NewStockRequest(requester, product, 5)
	require.NoError(t, err)
	assert.Equal(t, RequestStatusPending, request.Status)
	assert.Equal(t, requester, request.RequestedBy)
	assert.Nil(t, request.DecidedAt)
}

func TestRequestTransitionsAreOneWay(t *testing.T) {
	request, err := NewStockRequest(uuid.New(), uuid.New(), 3)
	require.NoError(t, err)

	decidedAt := time.Now()
	require.NoError(t, request.Approve(decidedAt))
	assert.Equal(t, RequestStatusApproved, request.Status)
	require.NotNil(t, request.DecidedAt)

	// every further transition is rejected
	err = request.Approve(time.Now())
	assert.Equal(t, KindInvalidState, KindOf(err))
	err = request.Deny("too late", time.Now())
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestRequestDenyStoresReason(t *testing.T) {
	request, err := NewStockRequest(uuid.New(), uuid.New(), 3)
	require.NoError(t, err)

	require.NoError(t, request.Deny("insufficient budget", time.Now()))
	assert.Equal(t, RequestStatusDenied, request.Status)
	assert.Equal(t, "insufficient budget", request.DenyReason)

	err = request.Approve(time.Now())
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestCanModifyGuards(t *testing.T) {
	creator := Caller{ID: uuid.New(), Username: "cook", Role: RoleCook}
	stranger := Caller{ID: uuid.New(), Username: "other", Role: RoleCook}

	request, err := NewStockRequest(creator.ID, uuid.New(), 3)
	require.NoError(t, err)

	assert.NoError(t, request.CanModify(creator))
	assert.Equal(t, KindForbidden, KindOf(request.CanModify(stranger)))

	require.NoError(t, request.Approve(time.Now()))

	// once decided, even the creator sees InvalidState
	assert.Equal(t, KindInvalidState, KindOf(request.CanModify(creator)))
	assert.Equal(t, KindInvalidState, KindOf(request.CanModify(stranger)))
}
