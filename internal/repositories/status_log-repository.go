package repositories

import (
	"context"
	"fmt"

	"fulfillment-system/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatusLogRepositoryInterface interface {
	AppendInTx(ctx context.Context, tx pgx.Tx, entry entities.StatusLogEntry) error
	ListByOrder(ctx context.Context, orderID int64) ([]entities.StatusLogEntry, error)
}

type StatusLogRepository struct {
	storage *pgxpool.Pool
}

func NewStatusLogRepository(storage *pgxpool.Pool) StatusLogRepositoryInterface {
	return &StatusLogRepository{storage: storage}
}

// AppendInTx writes one audit entry inside the transition's transaction so
// a transition and its log entry land together or not at all.
func (r *StatusLogRepository) AppendInTx(ctx context.Context, tx pgx.Tx, entry entities.StatusLogEntry) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO status_log (order_id, old_status, new_status, comment, actor, changed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.OrderID, entry.OldStatus, entry.NewStatus, entry.Comment, entry.Actor, entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to append status log entry: %w", err)
	}
	return nil
}

func (r *StatusLogRepository) ListByOrder(ctx context.Context, orderID int64) ([]entities.StatusLogEntry, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, order_id, old_status, new_status, comment, actor, changed_at
		 FROM status_log WHERE order_id = $1 ORDER BY changed_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status log: %w", err)
	}
	defer rows.Close()

	entries := make([]entities.StatusLogEntry, 0)
	for rows.Next() {
		var e entities.StatusLogEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.OldStatus, &e.NewStatus, &e.Comment, &e.Actor, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
