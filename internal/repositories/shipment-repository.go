package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fulfillment-system/internal/entities"
	"fulfillment-system/pkg/constants"
	apperrors "fulfillment-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shipmentColumns = `id, order_number, status, carrier_company, tracking_number,
	packages_count, scanned_packages, shipped_at, created_at`

type ShipmentRepositoryInterface interface {
	FindByOrderID(ctx context.Context, orderID int64) (*entities.Shipment, error)
	Resolve(ctx context.Context, identifier string) (*entities.Shipment, error)
	UpdateScannedCount(ctx context.Context, orderID int64, count int) error
	CreatePackages(ctx context.Context, orderID int64, packages []entities.Package) error
	ListPackages(ctx context.Context, orderID int64) ([]entities.Package, error)
}

type ShipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewShipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) ShipmentRepositoryInterface {
	return &ShipmentRepository{storage: storage, logger: logger}
}

func scanShipment(row pgx.Row) (*entities.Shipment, error) {
	var s entities.Shipment
	err := row.Scan(&s.OrderID, &s.OrderNumber, &s.Status, &s.CarrierCompany,
		&s.TrackingNumber, &s.PackagesCount, &s.ScannedPackages, &s.ShippedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("failed to scan shipment: %w", err)
	}
	s.Status = constants.NormalizeStatus(s.Status)
	return &s, nil
}

func (r *ShipmentRepository) FindByOrderID(ctx context.Context, orderID int64) (*entities.Shipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 AND deleted_at IS NULL`, shipmentColumns)
	return scanShipment(r.storage.QueryRow(ctx, query, orderID))
}

// Resolve matches an operator-supplied identifier against the shipment set:
// exact tracking number first, then order number, then internal id, then
// id prefix. The persisted scanned count read here is the source of truth
// when a verification session is (re)opened.
func (r *ShipmentRepository) Resolve(ctx context.Context, identifier string) (*entities.Shipment, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.ErrShipmentNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE tracking_number = $1 AND deleted_at IS NULL`, shipmentColumns)
	s, err := scanShipment(r.storage.QueryRow(ctx, query, identifier))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, apperrors.ErrShipmentNotFound) {
		return nil, err
	}

	query = fmt.Sprintf(`SELECT %s FROM orders WHERE order_number = $1 AND deleted_at IS NULL`, shipmentColumns)
	s, err = scanShipment(r.storage.QueryRow(ctx, query, identifier))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, apperrors.ErrShipmentNotFound) {
		return nil, err
	}

	if id, convErr := strconv.ParseInt(identifier, 10, 64); convErr == nil {
		s, err = r.FindByOrderID(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrShipmentNotFound) {
			return nil, err
		}

		// Kiosk scanners sometimes deliver only the leading digits of an
		// id barcode: accept a prefix when it matches exactly one row.
		query = fmt.Sprintf(
			`SELECT %s FROM orders WHERE CAST(id AS TEXT) LIKE $1 AND deleted_at IS NULL LIMIT 2`,
			shipmentColumns)
		rows, qErr := r.storage.Query(ctx, query, identifier+"%")
		if qErr != nil {
			return nil, fmt.Errorf("failed to resolve shipment by id prefix: %w", qErr)
		}
		defer rows.Close()

		var matches []*entities.Shipment
		for rows.Next() {
			m, sErr := scanShipment(rows)
			if sErr != nil {
				return nil, sErr
			}
			matches = append(matches, m)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
	}

	return nil, apperrors.ErrShipmentNotFound
}

// UpdateScannedCount persists the verification progress immediately so it
// survives a page reload or device swap mid-scan.
func (r *ShipmentRepository) UpdateScannedCount(ctx context.Context, orderID int64, count int) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE orders SET scanned_packages = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		orderID, count)
	if err != nil {
		return fmt.Errorf("failed to persist scanned count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ShipmentRepository) CreatePackages(ctx context.Context, orderID int64, packages []entities.Package) error {
	for _, p := range packages {
		if _, err := r.storage.Exec(ctx,
			`INSERT INTO packages (order_id, sequence, units_count, weight, width, height, depth)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (order_id, sequence) DO UPDATE
			 SET units_count = EXCLUDED.units_count, weight = EXCLUDED.weight,
			     width = EXCLUDED.width, height = EXCLUDED.height, depth = EXCLUDED.depth`,
			orderID, p.Sequence, p.UnitsCount, p.Weight, p.Width, p.Height, p.Depth,
		); err != nil {
			return fmt.Errorf("failed to insert package %d: %w", p.Sequence, err)
		}
	}
	return nil
}

func (r *ShipmentRepository) ListPackages(ctx context.Context, orderID int64) ([]entities.Package, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, order_id, sequence, units_count, weight, width, height, depth
		 FROM packages WHERE order_id = $1 ORDER BY sequence`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query packages: %w", err)
	}
	defer rows.Close()

	packages := make([]entities.Package, 0)
	for rows.Next() {
		var p entities.Package
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Sequence, &p.UnitsCount,
			&p.Weight, &p.Width, &p.Height, &p.Depth); err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}
