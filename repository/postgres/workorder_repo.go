package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/repository"
)

const workOrderColumns = `id, COALESCE(asset_id, ''), title, COALESCE(description, ''), status, priority, metadata, created_at, updated_at`

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository returns a Postgres-backed implementation of WorkOrderRepository.
func NewWorkOrderRepository(pool *pgxpool.Pool) repository.WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`
	return scanWorkOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *workOrderRepository) List(ctx context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + `
	FROM work_orders
	WHERE ($1 = '' OR status = $1)
	ORDER BY created_at DESC, id
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, string(filter.Status), clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.WorkOrder, 0)
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *workOrderRepository) Create(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	if order == nil || order.Title == "" {
		return nil, domain.ErrInvalidPayload
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = domain.StatusPendente
	}
	if !order.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	const query = `
	INSERT INTO work_orders (id, asset_id, title, description, status, priority, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		order.ID,
		nullString(order.AssetID),
		order.Title,
		nullString(order.Description),
		string(order.Status),
		order.Priority,
		marshalMap(order.Metadata),
	).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.ErrCodeConflict, "work order already exists")
		}
		return nil, err
	}
	return order, nil
}

func (r *workOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.WorkOrderStatus) (*domain.WorkOrder, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	query := `
	UPDATE work_orders
	SET status = $2,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + workOrderColumns
	return scanWorkOrder(r.pool.QueryRow(ctx, query, id, string(status)))
}

func (r *workOrderRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM work_orders WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkOrderNotFound
	}
	return nil
}

func scanWorkOrder(row rowScanner) (*domain.WorkOrder, error) {
	var (
		order    domain.WorkOrder
		status   string
		metadata []byte
	)
	if err := row.Scan(
		&order.ID,
		&order.AssetID,
		&order.Title,
		&order.Description,
		&status,
		&order.Priority,
		&metadata,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkOrderNotFound
		}
		return nil, err
	}
	order.Status = domain.WorkOrderStatus(status)
	order.Metadata = unmarshalMap(metadata)
	return &order, nil
}
