package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fulfillment-system/internal/dto"
	"fulfillment-system/internal/entities"
	"fulfillment-system/pkg/constants"
	apperrors "fulfillment-system/pkg/errors"
	"fulfillment-system/pkg/utils"
)

func newOrderServiceFixture(orders ...*entities.Order) (OrderServiceInterface, *fakeOrderRepo, *fakeStatusLogRepo) {
	orderRepo := newFakeOrderRepo(orders...)
	statusLog := &fakeStatusLogRepo{}
	return NewOrderService(orderRepo, statusLog, zap.NewNop()), orderRepo, statusLog
}

func TestCreateOrderStartsPendingPayment(t *testing.T) {
	svc, repo, _ := newOrderServiceFixture()

	id, err := svc.CreateOrder(context.Background(), dto.CreateOrderDTO{
		OrderNumber:    "2024-3",
		CustomerName:   "Ana Torres",
		DeliveryRegion: constants.RegionPeninsula,
		Lines: []dto.OrderLineDTO{
			{Quantity: 2, Material: "OAK"},
			{Quantity: 1, Material: "PINE"},
		},
	})
	require.NoError(t, err)

	created := repo.orders[id]
	assert.Equal(t, constants.StatusPendingPayment, created.Status)
	require.Len(t, created.Lines, 2)
	assert.Equal(t, 1, created.Lines[0].Position)
	assert.Equal(t, 2, created.Lines[1].Position)
}

func TestCreateOrderRejectsBadDeliveryDate(t *testing.T) {
	svc, _, _ := newOrderServiceFixture()
	bad := "02/04/2025"

	_, err := svc.CreateOrder(context.Background(), dto.CreateOrderDTO{
		OrderNumber:  "2024-3",
		CustomerName: "Ana Torres",
		DeliveryDate: &bad,
	})
	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestUpdateOrderReplacesLinesWholesale(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusPaid)
	svc, repo, _ := newOrderServiceFixture(order)

	err := svc.UpdateOrder(context.Background(), 1, dto.UpdateOrderDTO{
		Lines: []dto.OrderLineDTO{
			{Quantity: 5, Material: "WALNUT"},
		},
	})
	require.NoError(t, err)

	updated := repo.orders[1]
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, "WALNUT", updated.Lines[0].Material)
}

func TestUpdateOrderBlockedForArchivedOrders(t *testing.T) {
	for _, status := range []string{constants.StatusDelivered, constants.StatusCancelled} {
		svc, _, _ := newOrderServiceFixture(productionReadyOrder(1, status))
		name := "Someone Else"

		err := svc.UpdateOrder(context.Background(), 1, dto.UpdateOrderDTO{CustomerName: &name})
		var inputErr *apperrors.InvalidInputError
		assert.ErrorAs(t, err, &inputErr, "from %s", status)
	}
}

func TestRecomputeQuantityTotal(t *testing.T) {
	order := &entities.Order{
		Lines: []entities.OrderLine{
			{Quantity: 2},
			{Quantity: 3},
			{Quantity: 1},
		},
	}
	order.RecomputeQuantityTotal()
	assert.Equal(t, 6, order.QuantityTotal)

	order.Lines = nil
	order.RecomputeQuantityTotal()
	assert.Equal(t, 0, order.QuantityTotal)
}

func TestGetOrdersMapsDTO(t *testing.T) {
	svc, _, _ := newOrderServiceFixture(productionReadyOrder(1, constants.StatusCutting))

	out, total, err := svc.GetOrders(context.Background(), utils.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, out, 1)
	assert.Equal(t, "2024-55", out[0].OrderNumber)
	assert.Equal(t, constants.StatusCutting, out[0].Status)
}

func TestGetHistory(t *testing.T) {
	svc, _, statusLog := newOrderServiceFixture(productionReadyOrder(1, constants.StatusPaid))
	statusLog.entries = []entities.StatusLogEntry{
		{ID: 1, OrderID: 1, OldStatus: constants.StatusPendingPayment, NewStatus: constants.StatusPaid, Actor: "ana", ChangedAt: engineNow},
		{ID: 2, OrderID: 2, OldStatus: constants.StatusPaid, NewStatus: constants.StatusCutting, Actor: "luis", ChangedAt: engineNow},
	}

	history, err := svc.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 1, "only the requested order's entries")
	assert.Equal(t, "ana", history[0].Actor)
}

func TestReconcileLabelUnknownOrder(t *testing.T) {
	svc, _, _ := newOrderServiceFixture()

	result, err := svc.ReconcileLabel(context.Background(), "9999-1|Nobody|PENINSULA|||")
	require.NoError(t, err, "an unknown label is an invalid result, not a failure")
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Discrepancies[0], "no order matches")
}

func TestReconcileLabelEmptyPayload(t *testing.T) {
	svc, _, _ := newOrderServiceFixture()

	result, err := svc.ReconcileLabel(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, result.IsValid)
}

func TestReconcileLabelMatchesRecord(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusCutting)
	svc, _, _ := newOrderServiceFixture(order)

	payload, err := svc.EncodeLabel(context.Background(), 1)
	require.NoError(t, err)

	result, err := svc.ReconcileLabel(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Discrepancies)
	assert.Equal(t, int64(1), result.OrderID)
}
