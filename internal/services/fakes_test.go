package services

import (
	"context"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"

	"fulfillment-system/internal/entities"
	apperrors "fulfillment-system/pkg/errors"
	"fulfillment-system/pkg/utils"
)

// In-memory repository doubles. Transactions are modeled as a plain
// function call: the tx handle is nil and the fakes ignore it.

type fakeTxManager struct {
	calls int
	fail  error
}

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	if m.fail != nil {
		return m.fail
	}
	return fn(nil)
}

type fakeOrderRepo struct {
	orders map[int64]*entities.Order

	statusWrites   []string
	productionSet  bool
	startAt        time.Time
	dueDate        time.Time
	finishSet      bool
	packagesCount  int
	needsValid     bool
	shipmentSet    bool
	carrier        string
	trackingNumber string
}

func newFakeOrderRepo(orders ...*entities.Order) *fakeOrderRepo {
	m := make(map[int64]*entities.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return &fakeOrderRepo{orders: m}
}

func (r *fakeOrderRepo) GetOrders(_ context.Context, _ utils.QueryParams) ([]entities.Order, uint64, error) {
	out := make([]entities.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeOrderRepo) FindOrder(_ context.Context, id int64) (*entities.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*entities.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeOrderRepo) FindActiveOrders(_ context.Context) ([]entities.Order, error) {
	out := make([]entities.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *entities.Order) (int64, error) {
	id := int64(len(r.orders) + 1)
	order.ID = id
	r.orders[id] = order
	return id, nil
}

func (r *fakeOrderRepo) UpdateOrder(_ context.Context, order *entities.Order, _ bool) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) UpdateStatusInTx(_ context.Context, _ pgx.Tx, id int64, status string) error {
	r.statusWrites = append(r.statusWrites, status)
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) SetProductionStartInTx(_ context.Context, _ pgx.Tx, id int64, startAt, dueDate time.Time) error {
	r.productionSet = true
	r.startAt = startAt
	r.dueDate = dueDate
	if o, ok := r.orders[id]; ok {
		o.ProcessStartAt = null.TimeFrom(startAt)
		o.DueDate = null.TimeFrom(dueDate)
	}
	return nil
}

func (r *fakeOrderRepo) SetProductionFinishInTx(_ context.Context, _ pgx.Tx, id int64, packagesCount int, needsValidation bool) error {
	r.finishSet = true
	r.packagesCount = packagesCount
	r.needsValid = needsValidation
	if o, ok := r.orders[id]; ok {
		o.PackagesCount = packagesCount
		o.ScannedPackages = 0
	}
	return nil
}

func (r *fakeOrderRepo) SetShipmentInTx(_ context.Context, _ pgx.Tx, id int64, carrier, trackingNumber string, shippedAt time.Time) error {
	r.shipmentSet = true
	r.carrier = carrier
	r.trackingNumber = trackingNumber
	if o, ok := r.orders[id]; ok {
		o.CarrierCompany = null.StringFrom(carrier)
		o.TrackingNumber = null.StringFrom(trackingNumber)
		o.ShippedAt = null.TimeFrom(shippedAt)
	}
	return nil
}

func (r *fakeOrderRepo) SoftDeleteOrder(_ context.Context, id int64) error {
	delete(r.orders, id)
	return nil
}

type fakeStatusLogRepo struct {
	entries []entities.StatusLogEntry
	fail    error
}

func (r *fakeStatusLogRepo) AppendInTx(_ context.Context, _ pgx.Tx, entry entities.StatusLogEntry) error {
	if r.fail != nil {
		return r.fail
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeStatusLogRepo) ListByOrder(_ context.Context, orderID int64) ([]entities.StatusLogEntry, error) {
	var out []entities.StatusLogEntry
	for _, e := range r.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCommercialRepo struct {
	byID     map[int64]string
	byNumber map[string]string
	idFail   error
}

func newFakeCommercialRepo() *fakeCommercialRepo {
	return &fakeCommercialRepo{byID: make(map[int64]string), byNumber: make(map[string]string)}
}

// MirrorStatusByID models the production UPDATE: it only touches rows that
// exist, reporting not-found otherwise so the caller falls back.
func (r *fakeCommercialRepo) MirrorStatusByID(_ context.Context, id int64, status string) error {
	if r.idFail != nil {
		return r.idFail
	}
	if _, ok := r.byID[id]; !ok {
		return apperrors.ErrNotFound
	}
	r.byID[id] = status
	return nil
}

func (r *fakeCommercialRepo) MirrorStatusByOrderNumber(_ context.Context, orderNumber, status string) error {
	r.byNumber[orderNumber] = status
	return nil
}

type fakeShipmentRepo struct {
	shipments map[int64]*entities.Shipment

	scanWrites []int
	scanFail   error
}

func newFakeShipmentRepo(shipments ...*entities.Shipment) *fakeShipmentRepo {
	m := make(map[int64]*entities.Shipment, len(shipments))
	for _, s := range shipments {
		m[s.OrderID] = s
	}
	return &fakeShipmentRepo{shipments: m}
}

func (r *fakeShipmentRepo) FindByOrderID(_ context.Context, orderID int64) (*entities.Shipment, error) {
	s, ok := r.shipments[orderID]
	if !ok {
		return nil, apperrors.ErrShipmentNotFound
	}
	return s, nil
}

// Resolve mimics the production lookup chain: tracking number, then order
// number, then the numeric id.
func (r *fakeShipmentRepo) Resolve(_ context.Context, identifier string) (*entities.Shipment, error) {
	for _, s := range r.shipments {
		if s.TrackingNumber.Valid && s.TrackingNumber.String == identifier {
			return s, nil
		}
	}
	for _, s := range r.shipments {
		if s.OrderNumber == identifier {
			return s, nil
		}
	}
	return nil, apperrors.ErrShipmentNotFound
}

func (r *fakeShipmentRepo) UpdateScannedCount(_ context.Context, orderID int64, count int) error {
	if r.scanFail != nil {
		return r.scanFail
	}
	r.scanWrites = append(r.scanWrites, count)
	if s, ok := r.shipments[orderID]; ok {
		s.ScannedPackages = count
	}
	return nil
}

func (r *fakeShipmentRepo) CreatePackages(_ context.Context, _ int64, _ []entities.Package) error {
	return nil
}

func (r *fakeShipmentRepo) ListPackages(_ context.Context, _ int64) ([]entities.Package, error) {
	return nil, nil
}

// fakeCacheRepo is mutex-guarded: the queue cache is invalidated from an
// event listener goroutine.
type fakeCacheRepo struct {
	mu     sync.Mutex
	values map[string]string
	dels   int
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string)}
}

func (r *fakeCacheRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (r *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := value.(string); ok {
		r.values[key] = s
		return nil
	}
	if b, ok := value.([]byte); ok {
		r.values[key] = string(b)
	}
	return nil
}

func (r *fakeCacheRepo) Del(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dels++
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}
