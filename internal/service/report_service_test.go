package service

import (
	"testing"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpendSummaryCountsApprovedOnly(t *testing.T) {
	env := newTestEnv(t)
	reports := NewReportService(env.store)

	flour := env.seedProduct(t, "Flour", 10, 2, 1.5)

	approvedA, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: flour.ID, Quantity: 4})
	require.NoError(t, err)
	approvedB, err := env.requests.CreateRequest(env.cook2, CreateRequestInput{ProductID: flour.ID, Quantity: 6})
	require.NoError(t, err)
	deniedReq, err := env.requests.CreateRequest(env.cook, CreateRequestInput{ProductID: flour.ID, Quantity: 100})
	require.NoError(t, err)

	_, err = env.requests.ApproveRequest(env.manager, approvedA.ID)
	require.NoError(t, err)
	_, err = env.requests.ApproveRequest(env.manager, approvedB.ID)
	require.NoError(t, err)
	_, err = env.requests.DenyRequest(env.manager, deniedReq.ID, "too much")
	require.NoError(t, err)

	summary, err := reports.SpendSummary(env.manager)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, 2, summary[0].ApprovedRequests)
	assert.Equal(t, 10, summary[0].ApprovedQuantity)
	assert.InDelta(t, 15.0, summary[0].TotalCost, 0.001)

	volume, err := reports.RequestVolume(env.manager)
	require.NoError(t, err)
	assert.Equal(t, 0, volume.Pending)
	assert.Equal(t, 2, volume.Approved)
	assert.Equal(t, 1, volume.Denied)
}

func TestReportsAreManagerOnly(t *testing.T) {
	env := newTestEnv(t)
	reports := NewReportService(env.store)

	_, err := reports.SpendSummary(env.cook)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	_, err = reports.RequestVolume(env.cook)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}
