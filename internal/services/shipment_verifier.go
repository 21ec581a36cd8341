package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"fulfillment-system/internal/entities"
	"fulfillment-system/internal/repositories"
	apperrors "fulfillment-system/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reopenWindow bounds how long after dispatch a shipment may still be
// selected, to correct a mistake made moments earlier. Anything older is
// closed for good.
const reopenWindow = 24 * time.Hour

// ScanResult reports the outcome of one scan or adjustment.
type ScanResult struct {
	Shipment     *entities.Shipment
	Accepted     bool
	Saturated    bool
	AutoSelected bool
}

type ShipmentVerifierInterface interface {
	SelectShipment(ctx context.Context, identifier string) (*entities.Shipment, error)
	RecordScan(ctx context.Context, code string) (*ScanResult, error)
	ManualAdjust(ctx context.Context, delta int) (*ScanResult, error)
	Current() *entities.Shipment
	IsComplete() bool
	Abandon()
	ConfirmDispatch(ctx context.Context, carrier, trackingNumber string) error
}

// ShipmentVerifier tracks one verification session: the selected shipment,
// its declared package total and the scan progress. Its core safety
// invariant is the cross-contamination guard: while a selected shipment is
// partially scanned, a scan resolving to a different shipment is refused so
// parcels for two destinations cannot be conflated mid-verification.
type ShipmentVerifier struct {
	shipmentRepo repositories.ShipmentRepositoryInterface
	engine       StatusEngineInterface
	logger       *zap.Logger
	now          func() time.Time

	mu        sync.Mutex
	sessionID string
	selected  *entities.Shipment
}

func NewShipmentVerifier(
	shipmentRepo repositories.ShipmentRepositoryInterface,
	engine StatusEngineInterface,
	logger *zap.Logger,
) ShipmentVerifierInterface {
	return &ShipmentVerifier{
		shipmentRepo: shipmentRepo,
		engine:       engine,
		logger:       logger,
		now:          time.Now,
	}
}

// SelectShipment resolves an identifier (tracking number, internal id or
// id prefix) and opens a verification session on it. The persisted scanned
// count is the source of truth, so re-selecting after a reload or device
// swap resumes where the operator left off.
func (v *ShipmentVerifier) SelectShipment(ctx context.Context, identifier string) (*entities.Shipment, error) {
	shipment, err := v.shipmentRepo.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if v.isClosed(shipment) {
		return nil, apperrors.ErrShipmentClosed
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.sessionID = uuid.NewString()
	v.selected = shipment
	v.logger.Info("shipment selected for verification",
		zap.String("session", v.sessionID),
		zap.Int64("order_id", shipment.OrderID),
		zap.Int("scanned", shipment.ScannedPackages),
		zap.Int("declared", shipment.PackagesCount),
	)
	return shipment, nil
}

func (v *ShipmentVerifier) isClosed(s *entities.Shipment) bool {
	if !s.InTransit() {
		return false
	}
	if s.ShippedAt.Valid && v.now().Sub(s.ShippedAt.Time) <= reopenWindow {
		return false
	}
	return true
}

// RecordScan processes one physical scan. With no session open, the scan
// selects its shipment. With a partially verified shipment open, a scan
// resolving elsewhere is a blocking error and mutates nothing.
func (v *ShipmentVerifier) RecordScan(ctx context.Context, code string) (*ScanResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.selected == nil {
		shipment, err := v.shipmentRepo.Resolve(ctx, code)
		if err != nil {
			return nil, err
		}
		if v.isClosed(shipment) {
			return nil, apperrors.ErrShipmentClosed
		}
		v.sessionID = uuid.NewString()
		v.selected = shipment
		return v.increment(ctx, true)
	}

	if v.matchesSelected(code) {
		return v.increment(ctx, false)
	}

	// The code does not match the open session. Resolve it to tell an
	// unknown code apart from a competing shipment.
	other, err := v.shipmentRepo.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if other.OrderID == v.selected.OrderID {
		return v.increment(ctx, false)
	}

	inProgress := v.selected.ScannedPackages > 0 && v.selected.ScannedPackages < v.selected.PackagesCount
	if inProgress {
		v.logger.Warn("cross-shipment scan refused",
			zap.String("session", v.sessionID),
			zap.Int64("selected_order_id", v.selected.OrderID),
			zap.Int64("scanned_order_id", other.OrderID),
		)
		return nil, apperrors.ErrCrossShipmentScan
	}

	// Nothing at stake yet (0 scans, or already complete): switch over.
	if v.isClosed(other) {
		return nil, apperrors.ErrShipmentClosed
	}
	v.sessionID = uuid.NewString()
	v.selected = other
	return v.increment(ctx, true)
}

func (v *ShipmentVerifier) matchesSelected(code string) bool {
	s := v.selected
	if s.TrackingNumber.Valid && code == s.TrackingNumber.String {
		return true
	}
	if code == s.OrderNumber {
		return true
	}
	return code == strconv.FormatInt(s.OrderID, 10)
}

// increment bumps the persisted counter, saturating at the declared total;
// scans beyond it are idempotent no-ops. Caller holds the lock.
func (v *ShipmentVerifier) increment(ctx context.Context, autoSelected bool) (*ScanResult, error) {
	result := &ScanResult{Shipment: v.selected, AutoSelected: autoSelected}
	if v.selected.ScannedPackages >= v.selected.PackagesCount {
		result.Saturated = true
		return result, nil
	}

	next := v.selected.ScannedPackages + 1
	if err := v.shipmentRepo.UpdateScannedCount(ctx, v.selected.OrderID, next); err != nil {
		return nil, err
	}
	v.selected.ScannedPackages = next
	result.Accepted = true
	result.Saturated = next >= v.selected.PackagesCount
	return result, nil
}

// ManualAdjust corrects the counter without a physical scan, clamped to
// [0, declared total]. Persisted immediately like a scan.
func (v *ShipmentVerifier) ManualAdjust(ctx context.Context, delta int) (*ScanResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return nil, apperrors.ErrNoShipmentSelected
	}

	next := v.selected.ScannedPackages + delta
	if next < 0 {
		next = 0
	}
	if next > v.selected.PackagesCount {
		next = v.selected.PackagesCount
	}
	if next != v.selected.ScannedPackages {
		if err := v.shipmentRepo.UpdateScannedCount(ctx, v.selected.OrderID, next); err != nil {
			return nil, err
		}
		v.selected.ScannedPackages = next
	}
	return &ScanResult{
		Shipment:  v.selected,
		Accepted:  true,
		Saturated: next >= v.selected.PackagesCount && v.selected.PackagesCount > 0,
	}, nil
}

func (v *ShipmentVerifier) Current() *entities.Shipment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// IsComplete is true iff every declared package has been scanned and at
// least one package was declared.
func (v *ShipmentVerifier) IsComplete() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected != nil &&
		v.selected.PackagesCount > 0 &&
		v.selected.ScannedPackages >= v.selected.PackagesCount
}

// Abandon explicitly drops the open session so the operator can start a
// different shipment. Progress stays persisted.
func (v *ShipmentVerifier) Abandon() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = nil
	v.sessionID = ""
}

// ConfirmDispatch gates the terminal shipping transition on completion and
// hands over to the status engine.
func (v *ShipmentVerifier) ConfirmDispatch(ctx context.Context, carrier, trackingNumber string) error {
	v.mu.Lock()
	selected := v.selected
	v.mu.Unlock()

	if selected == nil {
		return apperrors.ErrNoShipmentSelected
	}
	if selected.PackagesCount <= 0 || selected.ScannedPackages < selected.PackagesCount {
		return apperrors.ErrVerificationIncomplete
	}

	if err := v.engine.ConfirmShipment(ctx, selected.OrderID, carrier, trackingNumber, "dispatch confirmed after package verification"); err != nil {
		return err
	}

	v.mu.Lock()
	v.selected = nil
	v.sessionID = ""
	v.mu.Unlock()
	return nil
}
