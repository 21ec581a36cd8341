package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment-system/internal/entities"
	"fulfillment-system/pkg/constants"
	apperrors "fulfillment-system/pkg/errors"
	"fulfillment-system/pkg/utils"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const orderColumns = `id, order_number, admin_code, commercial_order_id, customer_name, company_name,
	delivery_region, delivery_address, delivery_date, quantity_total, status,
	process_start_at, due_date, packages_count, needs_shipping_validation,
	carrier_company, tracking_number, scanned_packages, shipped_at,
	shipping_notification_pending, created_at, updated_at`

// pgUndefinedColumn is raised by deployments whose schema predates a newer
// optional column.
const pgUndefinedColumn = "42703"

type OrderRepositoryInterface interface {
	GetOrders(ctx context.Context, params utils.QueryParams) ([]entities.Order, uint64, error)
	FindOrder(ctx context.Context, id int64) (*entities.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*entities.Order, error)
	FindActiveOrders(ctx context.Context) ([]entities.Order, error)
	CreateOrder(ctx context.Context, order *entities.Order) (int64, error)
	UpdateOrder(ctx context.Context, order *entities.Order, replaceLines bool) error
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id int64, status string) error
	SetProductionStartInTx(ctx context.Context, tx pgx.Tx, id int64, startAt time.Time, dueDate time.Time) error
	SetProductionFinishInTx(ctx context.Context, tx pgx.Tx, id int64, packagesCount int, needsValidation bool) error
	SetShipmentInTx(ctx context.Context, tx pgx.Tx, id int64, carrier string, trackingNumber string, shippedAt time.Time) error
	SoftDeleteOrder(ctx context.Context, id int64) error
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.AdminCode, &o.CommercialOrderID, &o.CustomerName, &o.CompanyName,
		&o.DeliveryRegion, &o.DeliveryAddress, &o.DeliveryDate, &o.QuantityTotal, &o.Status,
		&o.ProcessStartAt, &o.DueDate, &o.PackagesCount, &o.NeedsShippingValidation,
		&o.CarrierCompany, &o.TrackingNumber, &o.ScannedPackages, &o.ShippedAt,
		&o.ShippingNotificationPending, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	// Legacy spellings never leave the read boundary.
	o.Status = constants.NormalizeStatus(o.Status)
	return &o, nil
}

func (r *OrderRepository) loadLines(ctx context.Context, q querier, orderIDs ...int64) (map[int64][]entities.OrderLine, error) {
	if len(orderIDs) == 0 {
		return map[int64][]entities.OrderLine{}, nil
	}
	rows, err := q.Query(ctx,
		`SELECT order_id, position, quantity, width, height, material, color, note
		 FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[int64][]entities.OrderLine)
	for rows.Next() {
		var orderID int64
		var line entities.OrderLine
		if err := rows.Scan(&orderID, &line.Position, &line.Quantity, &line.Width,
			&line.Height, &line.Material, &line.Color, &line.Note); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines[orderID] = append(lines[orderID], line)
	}
	return lines, rows.Err()
}

func (r *OrderRepository) GetOrders(ctx context.Context, params utils.QueryParams) ([]entities.Order, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select(orderColumns).From("orders").Where(sq.Eq{"deleted_at": nil})
	countQ := psql.Select("COUNT(*)").From("orders").Where(sq.Eq{"deleted_at": nil})

	if status, ok := params.Filters["status"]; ok {
		base = base.Where(sq.Eq{"status": status})
		countQ = countQ.Where(sq.Eq{"status": status})
	}
	if region, ok := params.Filters["delivery_region"]; ok {
		base = base.Where(sq.Eq{"delivery_region": region})
		countQ = countQ.Where(sq.Eq{"delivery_region": region})
	}
	if params.Search != "" {
		like := sq.Or{
			sq.ILike{"order_number": "%" + params.Search + "%"},
			sq.ILike{"customer_name": "%" + params.Search + "%"},
			sq.ILike{"admin_code": "%" + params.Search + "%"},
		}
		base = base.Where(like)
		countQ = countQ.Where(like)
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	sortBy := "created_at"
	switch params.SortBy {
	case "due_date", "order_number", "status", "created_at":
		sortBy = params.SortBy
	}
	order := sortBy + " DESC"
	if params.SortOrder == "asc" {
		order = sortBy + " ASC"
	}

	querySQL, queryArgs, err := base.OrderBy(order).Limit(params.Limit).Offset(params.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build orders query: %w", err)
	}

	rows, err := r.storage.Query(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	var ids []int64
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	lines, err := r.loadLines(ctx, r.storage, ids...)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, total, nil
}

func (r *OrderRepository) findBy(ctx context.Context, field string, value interface{}) (*entities.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s = $1 AND deleted_at IS NULL`, orderColumns, field)
	order, err := scanOrder(r.storage.QueryRow(ctx, query, value))
	if err != nil {
		return nil, err
	}
	lines, err := r.loadLines(ctx, r.storage, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines[order.ID]
	return order, nil
}

func (r *OrderRepository) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	return r.findBy(ctx, "id", id)
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*entities.Order, error) {
	return r.findBy(ctx, "order_number", orderNumber)
}

func (r *OrderRepository) FindActiveOrders(ctx context.Context) ([]entities.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE status = ANY($1) AND deleted_at IS NULL ORDER BY created_at`, orderColumns)
	rows, err := r.storage.Query(ctx, query, constants.ActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	var ids []int64
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, r.storage, ids...)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *entities.Order) (newID int64, err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	order.RecomputeQuantityTotal()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (order_number, admin_code, commercial_order_id, customer_name, company_name,
			delivery_region, delivery_address, delivery_date, quantity_total, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		order.OrderNumber, order.AdminCode, order.CommercialOrderID, order.CustomerName, order.CompanyName,
		order.DeliveryRegion, order.DeliveryAddress, order.DeliveryDate,
		order.QuantityTotal, order.Status,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	if err = r.insertLines(ctx, tx, newID, order.Lines); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return newID, nil
}

func (r *OrderRepository) insertLines(ctx context.Context, q querier, orderID int64, lines []entities.OrderLine) error {
	for i, line := range lines {
		if _, err := q.Exec(ctx,
			`INSERT INTO order_lines (order_id, position, quantity, width, height, material, color, note)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			orderID, i+1, line.Quantity, line.Width, line.Height, line.Material, line.Color, line.Note,
		); err != nil {
			return fmt.Errorf("failed to insert order line %d: %w", i+1, err)
		}
	}
	return nil
}

// UpdateOrder writes the commercial attribute cluster. When replaceLines is
// set, the line list is replaced wholesale and quantity_total recomputed;
// lines are never patched in place.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order *entities.Order, replaceLines bool) (err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if replaceLines {
		order.RecomputeQuantityTotal()
		if _, err = tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}
		if err = r.insertLines(ctx, tx, order.ID, order.Lines); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx,
		`UPDATE orders SET admin_code = $2, customer_name = $3, company_name = $4,
			delivery_region = $5, delivery_address = $6, delivery_date = $7,
			quantity_total = $8, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		order.ID, order.AdminCode, order.CustomerName, order.CompanyName,
		order.DeliveryRegion, order.DeliveryAddress, order.DeliveryDate, order.QuantityTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *OrderRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id int64, status string) error {
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) SetProductionStartInTx(ctx context.Context, tx pgx.Tx, id int64, startAt time.Time, dueDate time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE orders SET process_start_at = $2, due_date = $3, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, startAt, dueDate)
	if err != nil {
		return fmt.Errorf("failed to set production start: %w", err)
	}
	return nil
}

func (r *OrderRepository) SetProductionFinishInTx(ctx context.Context, tx pgx.Tx, id int64, packagesCount int, needsValidation bool) error {
	_, err := tx.Exec(ctx,
		`UPDATE orders SET packages_count = $2, needs_shipping_validation = $3,
			scanned_packages = 0, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, packagesCount, needsValidation)
	if err != nil {
		return fmt.Errorf("failed to set production finish: %w", err)
	}
	return nil
}

func (r *OrderRepository) SetShipmentInTx(ctx context.Context, tx pgx.Tx, id int64, carrier string, trackingNumber string, shippedAt time.Time) error {
	return setShipmentFields(ctx, tx, r.logger, id, carrier, trackingNumber, shippedAt)
}

// setShipmentFields writes the dispatch fields. Some deployments predate
// the carrier_company column; on an undefined-column error the write is
// retried once without it.
func setShipmentFields(ctx context.Context, q querier, logger *zap.Logger, id int64, carrier, trackingNumber string, shippedAt time.Time) error {
	_, err := q.Exec(ctx,
		`UPDATE orders SET carrier_company = $2, tracking_number = $3, shipped_at = $4,
			shipping_notification_pending = TRUE, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, null.StringFrom(carrier), trackingNumber, shippedAt)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumn {
		logger.Warn("carrier_company column missing, retrying dispatch write without it",
			zap.Int64("order_id", id))
		_, retryErr := q.Exec(ctx,
			`UPDATE orders SET tracking_number = $2, shipped_at = $3,
				shipping_notification_pending = TRUE, updated_at = now()
			 WHERE id = $1 AND deleted_at IS NULL`,
			id, trackingNumber, shippedAt)
		if retryErr != nil {
			return fmt.Errorf("failed to set shipment fields (fallback): %w", retryErr)
		}
		return nil
	}
	return fmt.Errorf("failed to set shipment fields: %w", err)
}

func (r *OrderRepository) SoftDeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE orders SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
