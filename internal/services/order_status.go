package services

import (
	"context"
	"time"

	"fulfillment-system/internal/entities"
	"fulfillment-system/internal/repositories"
	"fulfillment-system/pkg/constants"
	"fulfillment-system/pkg/contextkeys"
	apperrors "fulfillment-system/pkg/errors"
	"fulfillment-system/pkg/eventbus"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// successors defines the legal transition targets per status. A requested
// target outside the current status's set is rejected outright; the engine
// never coerces.
var successors = map[string][]string{
	constants.StatusPendingPayment: {constants.StatusPaid, constants.StatusCancelled},
	constants.StatusPaid:           {constants.StatusCutting, constants.StatusCancelled},
	constants.StatusCutting:        {constants.StatusSewing, constants.StatusUpholstery, constants.StatusQualityControl, constants.StatusReadyToShip, constants.StatusCancelled},
	constants.StatusSewing:         {constants.StatusCutting, constants.StatusUpholstery, constants.StatusQualityControl, constants.StatusReadyToShip, constants.StatusCancelled},
	constants.StatusUpholstery:     {constants.StatusCutting, constants.StatusSewing, constants.StatusQualityControl, constants.StatusReadyToShip, constants.StatusCancelled},
	constants.StatusQualityControl: {constants.StatusCutting, constants.StatusSewing, constants.StatusUpholstery, constants.StatusReadyToShip, constants.StatusCancelled},
	constants.StatusReadyToShip:    {constants.StatusShipped, constants.StatusCancelled},
	constants.StatusShipped:        {constants.StatusDelivered, constants.StatusCancelled},
	constants.StatusDelivered:      {},
	constants.StatusCancelled:      {},
}

// CanTransition reports whether target belongs to the successor set of from.
func CanTransition(from, to string) bool {
	for _, s := range successors[constants.NormalizeStatus(from)] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderStatusChangedEvent is published after every committed transition.
type OrderStatusChangedEvent struct {
	OrderID   int64
	OldStatus string
	NewStatus string
}

func (OrderStatusChangedEvent) Name() string { return "order.status_changed" }

type StatusEngineInterface interface {
	AcceptPayment(ctx context.Context, orderID int64, comment string) error
	StartProduction(ctx context.Context, orderID int64, comment string) error
	AdvanceProductionStage(ctx context.Context, orderID int64, nextStage string, comment string) error
	FinishProduction(ctx context.Context, orderID int64, declaredPackageCount int, comment string) error
	ConfirmShipment(ctx context.Context, orderID int64, carrier, trackingNumber string, comment string) error
	MarkDelivered(ctx context.Context, orderID int64, comment string) error
	Cancel(ctx context.Context, orderID int64, comment string) error
}

// StatusEngine is the state machine governing an order's lifecycle across
// the commercial, production and shipping domains. Each transition is one
// read-modify-write cycle; the mirrored commercial write happens after the
// production commit and is idempotent, so a retry after a crash between the
// two writes converges.
type StatusEngine struct {
	txManager      repositories.TxManagerInterface
	orderRepo      repositories.OrderRepositoryInterface
	statusLogRepo  repositories.StatusLogRepositoryInterface
	commercialRepo repositories.CommercialRepositoryInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
	now            func() time.Time
}

func NewStatusEngine(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	statusLogRepo repositories.StatusLogRepositoryInterface,
	commercialRepo repositories.CommercialRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) StatusEngineInterface {
	return &StatusEngine{
		txManager:      txManager,
		orderRepo:      orderRepo,
		statusLogRepo:  statusLogRepo,
		commercialRepo: commercialRepo,
		bus:            bus,
		logger:         logger,
		now:            time.Now,
	}
}

func actorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(contextkeys.ActorKey).(string); ok && actor != "" {
		return actor
	}
	return "system"
}

// transition validates the target against the successor table, applies the
// status write plus any extra writes, and appends exactly one audit entry,
// all in one transaction.
func (e *StatusEngine) transition(
	ctx context.Context,
	order *entities.Order,
	target string,
	comment string,
	extra func(tx pgx.Tx) error,
) error {
	if !CanTransition(order.Status, target) {
		return apperrors.NewInvalidTransitionError(order.Status, target)
	}

	entry := entities.StatusLogEntry{
		OrderID:   order.ID,
		OldStatus: order.Status,
		NewStatus: target,
		Comment:   comment,
		Actor:     actorFrom(ctx),
		ChangedAt: e.now(),
	}

	err := e.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := e.orderRepo.UpdateStatusInTx(ctx, tx, order.ID, target); err != nil {
			return err
		}
		if extra != nil {
			if err := extra(tx); err != nil {
				return err
			}
		}
		return e.statusLogRepo.AppendInTx(ctx, tx, entry)
	})
	if err != nil {
		return err
	}

	e.bus.Publish(ctx, OrderStatusChangedEvent{
		OrderID:   order.ID,
		OldStatus: order.Status,
		NewStatus: target,
	})
	order.Status = target
	return nil
}

// AcceptPayment moves PENDING_PAYMENT -> PAID. No side effects beyond the
// status and audit entry.
func (e *StatusEngine) AcceptPayment(ctx context.Context, orderID int64, comment string) error {
	order, err := e.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return e.transition(ctx, order, constants.StatusPaid, comment, nil)
}

// StartProduction moves PAID -> CUTTING, records process_start_at and
// derives the due date from the region's committed lead time.
func (e *StatusEngine) StartProduction(ctx context.Context, orderID int64, comment string) error {
	order, err := e.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if missing := ValidateForProduction(order); len(missing) > 0 {
		return apperrors.NewValidationError(missing)
	}

	startAt := e.now()
	dueDate := DueDate(startAt, order.DeliveryRegion)
	return e.transition(ctx, order, constants.StatusCutting, comment, func(tx pgx.Tx) error {
		return e.orderRepo.SetProductionStartInTx(ctx, tx, order.ID, startAt, dueDate)
	})
}

// AdvanceProductionStage moves between the production sub-stages. The
// operators pick the sequence; the successor table only forbids leaving the
// production set backwards.
func (e *StatusEngine) AdvanceProductionStage(ctx context.Context, orderID int64, nextStage string, comment string) error {
	if !constants.IsProductionStatus(nextStage) {
		return apperrors.NewInvalidInputError("unknown production stage %q", nextStage)
	}
	order, err := e.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return e.transition(ctx, order, nextStage, comment, nil)
}

// FinishProduction moves any production sub-status -> READY_TO_SHIP, records
// the declared package count and flags near-due orders for expedited
// shipping handling. The commercial record is mirrored to pending-shipment.
func (e *StatusEngine) FinishProduction(ctx context.Context, orderID int64, declaredPackageCount int, comment string) error {
	if declaredPackageCount <= 0 {
		return apperrors.NewInvalidInputError("declared package count must be positive")
	}
	order, err := e.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !constants.IsProductionStatus(order.Status) {
		return apperrors.NewInvalidTransitionError(order.Status, constants.StatusReadyToShip)
	}

	needsValidation := order.DaysRemaining(e.now()) <= 2
	err = e.transition(ctx, order, constants.StatusReadyToShip, comment, func(tx pgx.Tx) error {
		return e.orderRepo.SetProductionFinishInTx(ctx, tx, order.ID, declaredPackageCount, needsValidation)
	})
	if err != nil {
		return err
	}

	e.mirrorToCommercial(ctx, order, constants.CommercialStatusPendingShipment)
	return nil
}

// ConfirmShipment moves READY_TO_SHIP -> SHIPPED. The caller (the shipment
// verifier) guarantees that every declared package was scanned; the engine
// re-checks the precondition anyway.
func (e *StatusEngine) ConfirmShipment(ctx context.Context, orderID int64, carrier, trackingNumber string, comment string) error {
	order, err := e.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.PackagesCount <= 0 || order.ScannedPackages < order.PackagesCount {
		return apperrors.ErrVerificationIncomplete
	}

	shippedAt := e.now()
	err = e.transition(ctx, order, constants.StatusShipped, comment, func(tx pgx.Tx) error {
		return e.orderRepo.SetShipmentInTx(ctx, tx, order.ID, carrier, trackingNumber, shippedAt)
	})
	if err != nil {
		return err
	}

	e.mirrorToCommercial(ctx, order, constants.CommercialStatusShipped)
	return nil
}

func (e *StatusEngine) MarkDelivered(ctx context.Context, orderID int64, comment string) error {
	order, err := e.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return e.transition(ctx, order, constants.StatusDelivered, comment, nil)
}

// Cancel is reachable from any non-terminal state and always requires an
// explanation, which lands in the status log.
func (e *StatusEngine) Cancel(ctx context.Context, orderID int64, comment string) error {
	if comment == "" {
		return apperrors.ErrCommentRequired
	}
	order, err := e.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return e.transition(ctx, order, constants.StatusCancelled, comment, nil)
}

// mirrorToCommercial pushes the production-side status into the commercial
// record through the commercial_order_id link, falling back to the
// order-number lookup when the link is NULL or its write misses. The
// production order id is never a valid key into the commercial table.
// Mirror failures are logged, not propagated: the production write already
// committed and the mirror is retryable.
func (e *StatusEngine) mirrorToCommercial(ctx context.Context, order *entities.Order, status string) {
	if order.CommercialOrderID.Valid {
		if err := e.commercialRepo.MirrorStatusByID(ctx, order.CommercialOrderID.Int64, status); err == nil {
			return
		}
	}
	err := e.commercialRepo.MirrorStatusByOrderNumber(ctx, order.OrderNumber, status)
	if err != nil {
		e.logger.Warn("commercial mirror write failed",
			zap.Int64("order_id", order.ID),
			zap.String("order_number", order.OrderNumber),
			zap.String("status", status),
			zap.Error(err),
		)
	}
}
