package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fulfillment-system/internal/entities"
	"fulfillment-system/pkg/constants"
	"fulfillment-system/pkg/contextkeys"
	apperrors "fulfillment-system/pkg/errors"
	"fulfillment-system/pkg/eventbus"
)

var engineNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type engineFixture struct {
	engine     *StatusEngine
	orders     *fakeOrderRepo
	statusLog  *fakeStatusLogRepo
	commercial *fakeCommercialRepo
	tx         *fakeTxManager
}

func newEngineFixture(orders ...*entities.Order) *engineFixture {
	f := &engineFixture{
		orders:     newFakeOrderRepo(orders...),
		statusLog:  &fakeStatusLogRepo{},
		commercial: newFakeCommercialRepo(),
		tx:         &fakeTxManager{},
	}
	f.engine = &StatusEngine{
		txManager:      f.tx,
		orderRepo:      f.orders,
		statusLogRepo:  f.statusLog,
		commercialRepo: f.commercial,
		bus:            eventbus.New(zap.NewNop()),
		logger:         zap.NewNop(),
		now:            func() time.Time { return engineNow },
	}
	return f
}

func productionReadyOrder(id int64, status string) *entities.Order {
	return &entities.Order{
		ID:             id,
		OrderNumber:    "2024-55",
		CustomerName:   "Carlos Ruiz",
		AdminCode:      null.StringFrom("ADM-7"),
		DeliveryRegion: constants.RegionPeninsula,
		Status:         status,
		Lines: []entities.OrderLine{
			{Position: 1, Quantity: 3, Material: "OAK"},
		},
		QuantityTotal: 3,
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{constants.StatusPendingPayment, constants.StatusPaid, true},
		{constants.StatusPendingPayment, constants.StatusCutting, false},
		{constants.StatusPaid, constants.StatusCutting, true},
		{constants.StatusPaid, constants.StatusSewing, false},
		{constants.StatusCutting, constants.StatusSewing, true},
		{constants.StatusSewing, constants.StatusCutting, true}, // sub-stages interchange
		{constants.StatusSewing, constants.StatusPaid, false},   // never back to PAID
		{constants.StatusQualityControl, constants.StatusReadyToShip, true},
		{constants.StatusReadyToShip, constants.StatusShipped, true},
		{constants.StatusShipped, constants.StatusDelivered, true},
		{constants.StatusShipped, constants.StatusReadyToShip, false},
		{constants.StatusDelivered, constants.StatusCancelled, false}, // terminal
		{constants.StatusCancelled, constants.StatusPaid, false},      // terminal
		{constants.StatusCutting, constants.StatusCancelled, true},
		{"EN_PROCESO", constants.StatusSewing, true}, // legacy spelling normalized
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestAcceptPayment(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusPendingPayment))

	err := f.engine.AcceptPayment(context.Background(), 1, "paid by transfer")
	require.NoError(t, err)

	assert.Equal(t, []string{constants.StatusPaid}, f.orders.statusWrites)
	require.Len(t, f.statusLog.entries, 1)
	entry := f.statusLog.entries[0]
	assert.Equal(t, constants.StatusPendingPayment, entry.OldStatus)
	assert.Equal(t, constants.StatusPaid, entry.NewStatus)
	assert.Equal(t, "paid by transfer", entry.Comment)
	assert.Equal(t, "system", entry.Actor)
	assert.Equal(t, 1, f.tx.calls)
}

func TestAcceptPaymentRejectsWrongState(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusCutting))

	err := f.engine.AcceptPayment(context.Background(), 1, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Empty(t, f.statusLog.entries)
	assert.Zero(t, f.tx.calls)
}

func TestActorFromContext(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusPendingPayment))
	ctx := context.WithValue(context.Background(), contextkeys.ActorKey, "lucia")

	require.NoError(t, f.engine.AcceptPayment(ctx, 1, ""))
	require.Len(t, f.statusLog.entries, 1)
	assert.Equal(t, "lucia", f.statusLog.entries[0].Actor)
}

func TestStartProductionDerivesDueDate(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusPaid))

	err := f.engine.StartProduction(context.Background(), 1, "")
	require.NoError(t, err)

	assert.True(t, f.orders.productionSet)
	assert.Equal(t, engineNow, f.orders.startAt)
	assert.Equal(t, engineNow.AddDate(0, 0, 10), f.orders.dueDate)
	assert.Equal(t, []string{constants.StatusCutting}, f.orders.statusWrites)
}

func TestStartProductionCanariasLeadTime(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusPaid)
	order.DeliveryRegion = constants.RegionCanarias
	f := newEngineFixture(order)

	require.NoError(t, f.engine.StartProduction(context.Background(), 1, ""))
	assert.Equal(t, engineNow.AddDate(0, 0, 20), f.orders.dueDate)
}

func TestStartProductionCollectsMissingFields(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusPaid)
	order.CustomerName = ""
	order.AdminCode = null.String{}
	order.Lines = nil
	f := newEngineFixture(order)

	err := f.engine.StartProduction(context.Background(), 1, "")
	require.Error(t, err)

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 3)
	assert.Zero(t, f.tx.calls, "nothing is written when validation fails")
}

func TestAdvanceProductionStage(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusCutting))

	require.NoError(t, f.engine.AdvanceProductionStage(context.Background(), 1, constants.StatusUpholstery, "skipping sewing"))
	assert.Equal(t, []string{constants.StatusUpholstery}, f.orders.statusWrites)
}

func TestAdvanceProductionStageRejectsUnknownStage(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusCutting))

	err := f.engine.AdvanceProductionStage(context.Background(), 1, constants.StatusShipped, "")
	require.Error(t, err)
	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestFinishProduction(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusQualityControl)
	order.DueDate = null.TimeFrom(engineNow.AddDate(0, 0, 8))
	order.CommercialOrderID = null.Int64From(9)
	f := newEngineFixture(order)
	f.commercial.byID[9] = "PTE_PAGO"

	err := f.engine.FinishProduction(context.Background(), 1, 3, "qc passed")
	require.NoError(t, err)

	assert.True(t, f.orders.finishSet)
	assert.Equal(t, 3, f.orders.packagesCount)
	assert.False(t, f.orders.needsValid)
	assert.Equal(t, []string{constants.StatusReadyToShip}, f.orders.statusWrites)
	assert.Equal(t, constants.CommercialStatusPendingShipment, f.commercial.byID[9])
}

// The commercial table is keyed independently of the production table:
// without a commercial_order_id link the mirror must go through the order
// number, even when some unrelated commercial row happens to share the
// production order's id.
func TestFinishProductionMirrorNeverKeysByProductionID(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusCutting)
	f := newEngineFixture(order)
	f.commercial.byID[1] = "PTE_PAGO" // unrelated commercial row, id collides with the order

	require.NoError(t, f.engine.FinishProduction(context.Background(), 1, 1, ""))

	assert.Equal(t, "PTE_PAGO", f.commercial.byID[1])
	assert.Equal(t, constants.CommercialStatusPendingShipment, f.commercial.byNumber["2024-55"])
}

func TestFinishProductionFlagsNearDueOrders(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusQualityControl)
	order.DueDate = null.TimeFrom(engineNow.AddDate(0, 0, 1))
	f := newEngineFixture(order)

	require.NoError(t, f.engine.FinishProduction(context.Background(), 1, 2, ""))
	assert.True(t, f.orders.needsValid)
}

func TestFinishProductionRequiresPositiveCount(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusQualityControl))

	err := f.engine.FinishProduction(context.Background(), 1, 0, "")
	require.Error(t, err)
	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestFinishProductionRejectsNonProductionStatus(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusPaid))

	err := f.engine.FinishProduction(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestFinishProductionMirrorFallsBackToOrderNumber(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusCutting)
	order.CommercialOrderID = null.Int64From(9)
	f := newEngineFixture(order)
	f.commercial.idFail = errors.New("no commercial row with that id")

	require.NoError(t, f.engine.FinishProduction(context.Background(), 1, 1, ""))
	assert.Equal(t, constants.CommercialStatusPendingShipment, f.commercial.byNumber["2024-55"])
}

func TestConfirmShipment(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusReadyToShip)
	order.PackagesCount = 2
	order.ScannedPackages = 2
	order.CommercialOrderID = null.Int64From(9)
	f := newEngineFixture(order)
	f.commercial.byID[9] = constants.CommercialStatusPendingShipment

	err := f.engine.ConfirmShipment(context.Background(), 1, "SEUR", "TRK-9", "")
	require.NoError(t, err)

	assert.True(t, f.orders.shipmentSet)
	assert.Equal(t, "SEUR", f.orders.carrier)
	assert.Equal(t, "TRK-9", f.orders.trackingNumber)
	assert.Equal(t, constants.CommercialStatusShipped, f.commercial.byID[9])
}

func TestConfirmShipmentRequiresFullScanCount(t *testing.T) {
	order := productionReadyOrder(1, constants.StatusReadyToShip)
	order.PackagesCount = 3
	order.ScannedPackages = 2
	f := newEngineFixture(order)

	err := f.engine.ConfirmShipment(context.Background(), 1, "SEUR", "TRK-9", "")
	assert.ErrorIs(t, err, apperrors.ErrVerificationIncomplete)
	assert.False(t, f.orders.shipmentSet)
}

func TestCancelRequiresComment(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusCutting))

	err := f.engine.Cancel(context.Background(), 1, "")
	assert.ErrorIs(t, err, apperrors.ErrCommentRequired)

	require.NoError(t, f.engine.Cancel(context.Background(), 1, "customer withdrew"))
	assert.Equal(t, []string{constants.StatusCancelled}, f.orders.statusWrites)
}

func TestCancelRejectedFromTerminalStates(t *testing.T) {
	for _, status := range []string{constants.StatusDelivered, constants.StatusCancelled} {
		f := newEngineFixture(productionReadyOrder(1, status))
		err := f.engine.Cancel(context.Background(), 1, "too late")
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "from %s", status)
	}
}

func TestTransitionRollsBackOnAuditFailure(t *testing.T) {
	f := newEngineFixture(productionReadyOrder(1, constants.StatusPendingPayment))
	f.statusLog.fail = errors.New("audit table unavailable")

	err := f.engine.AcceptPayment(context.Background(), 1, "")
	require.Error(t, err)
	assert.Empty(t, f.statusLog.entries)
}
