package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fulfillment-system/internal/entities"
	"fulfillment-system/pkg/constants"
)

// syncedShipmentRepo keeps the order fake's scanned count in step with the
// shipment fake, the way both views share one row in production.
type syncedShipmentRepo struct {
	*fakeShipmentRepo
	orders *fakeOrderRepo
}

func (r *syncedShipmentRepo) UpdateScannedCount(ctx context.Context, orderID int64, count int) error {
	if err := r.fakeShipmentRepo.UpdateScannedCount(ctx, orderID, count); err != nil {
		return err
	}
	if o, ok := r.orders.orders[orderID]; ok {
		o.ScannedPackages = count
	}
	return nil
}

// Walks one Canary Islands order through the whole lifecycle: payment,
// production with the 20-day committed lead time, package declaration,
// scan verification and dispatch, checking the commercial mirror at each
// hand-off.
func TestCanaryOrderLifecycle(t *testing.T) {
	order := &entities.Order{
		ID:                1,
		OrderNumber:       "2024-77",
		CustomerName:      "Ana Torres",
		AdminCode:         null.StringFrom("ADM-3"),
		CommercialOrderID: null.Int64From(4),
		DeliveryRegion:    constants.RegionCanarias,
		Status:            constants.StatusPendingPayment,
		Lines: []entities.OrderLine{
			{Position: 1, Quantity: 2, Material: "OAK"},
		},
	}
	f := newEngineFixture(order)
	f.commercial.byID[4] = "PTE_PAGO"

	ctx := context.Background()
	require.NoError(t, f.engine.AcceptPayment(ctx, 1, ""))
	require.NoError(t, f.engine.StartProduction(ctx, 1, ""))
	assert.Equal(t, engineNow.AddDate(0, 0, 20), f.orders.dueDate)

	require.NoError(t, f.engine.AdvanceProductionStage(ctx, 1, constants.StatusUpholstery, ""))
	require.NoError(t, f.engine.FinishProduction(ctx, 1, 2, "qc passed"))
	assert.Equal(t, constants.CommercialStatusPendingShipment, f.commercial.byID[4])

	repo := &syncedShipmentRepo{
		fakeShipmentRepo: newFakeShipmentRepo(readyShipment(1, "2024-77", 2, 0)),
		orders:           f.orders,
	}
	v := &ShipmentVerifier{
		shipmentRepo: repo,
		engine:       f.engine,
		logger:       zap.NewNop(),
		now:          func() time.Time { return engineNow },
	}

	for i := 0; i < 2; i++ {
		res, err := v.RecordScan(ctx, "2024-77")
		require.NoError(t, err)
		assert.True(t, res.Accepted)
	}
	require.True(t, v.IsComplete())

	require.NoError(t, v.ConfirmDispatch(ctx, "SEUR", "TRK-77"))

	final, err := f.orders.FindOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusShipped, final.Status)
	assert.Equal(t, "SEUR", final.CarrierCompany.String)
	assert.Equal(t, "TRK-77", final.TrackingNumber.String)
	assert.Equal(t, constants.CommercialStatusShipped, f.commercial.byID[4])
	assert.Equal(t, []string{
		constants.StatusPaid,
		constants.StatusCutting,
		constants.StatusUpholstery,
		constants.StatusReadyToShip,
		constants.StatusShipped,
	}, f.orders.statusWrites)
	assert.Nil(t, v.Current(), "dispatch closes the verification session")
}
