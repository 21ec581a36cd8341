package repositories

import (
	"context"
	"fmt"

	apperrors "fulfillment-system/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// CommercialRepositoryInterface covers the one-way mirror writes from the
// production domain into the commercial acceptance record. Status flows
// production -> commercial only; this repository never reads production
// state back into commercial rows.
type CommercialRepositoryInterface interface {
	MirrorStatusByID(ctx context.Context, id int64, status string) error
	MirrorStatusByOrderNumber(ctx context.Context, orderNumber string, status string) error
}

type CommercialRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCommercialRepository(storage *pgxpool.Pool, logger *zap.Logger) CommercialRepositoryInterface {
	return &CommercialRepository{storage: storage, logger: logger}
}

// MirrorStatusByID updates the commercial record's status. The write is
// idempotent, so a retry after a crash between the production write and
// this one is safe.
func (r *CommercialRepository) MirrorStatusByID(ctx context.Context, id int64, status string) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE commercial_orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("failed to mirror status to commercial order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MirrorStatusByOrderNumber is the secondary lookup used when the direct
// foreign key is unavailable.
func (r *CommercialRepository) MirrorStatusByOrderNumber(ctx context.Context, orderNumber string, status string) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE commercial_orders SET status = $2, updated_at = now() WHERE order_number = $1`,
		orderNumber, status)
	if err != nil {
		return fmt.Errorf("failed to mirror status to commercial order %q: %w", orderNumber, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("no commercial order matched the mirror write",
			zap.String("order_number", orderNumber),
			zap.String("status", status))
		return apperrors.ErrNotFound
	}
	return nil
}
