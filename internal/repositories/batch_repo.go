package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"freshtrack/internal/models"

	"github.com/jackc/pgx/v5"
)

type BatchRepository interface {
	Create(ctx context.Context, batch *models.InventoryBatch) error
	GetByID(ctx context.Context, batchID string) (*models.InventoryBatch, error)
	Update(ctx context.Context, batchID string, patch *models.BatchUpdate) (*models.InventoryBatch, error)
	Delete(ctx context.Context, batchID string) error
	List(ctx context.Context, limit, offset int) ([]*models.InventoryBatch, error)
	ListAll(ctx context.Context) ([]*models.InventoryBatch, error)
}

type batchRepo struct {
	db Database
}

func NewBatchRepo(db Database) BatchRepository {
	return &batchRepo{db: db}
}

const batchColumns = "batch_id, product_name, production_date, expiry_date, quantity, image_key, status, created_at, updated_at, created_by, last_updated_by"

func (r *batchRepo) Create(ctx context.Context, batch *models.InventoryBatch) error {
	query := `
		INSERT INTO inventory_batches (batch_id, product_name, production_date, expiry_date, quantity, image_key, status, created_by, last_updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, batch.BatchID, batch.ProductName, batch.ProductionDate, batch.ExpiryDate, batch.Quantity, batch.ImageKey, batch.Status, batch.CreatedBy, batch.CreatedBy)
	return err
}

func (r *batchRepo) GetByID(ctx context.Context, batchID string) (*models.InventoryBatch, error) {
	batch := &models.InventoryBatch{}
	query := fmt.Sprintf(`SELECT %s FROM inventory_batches WHERE batch_id = $1`, batchColumns)
	err := r.db.QueryRow(ctx, query, batchID).Scan(
		&batch.BatchID, &batch.ProductName, &batch.ProductionDate, &batch.ExpiryDate,
		&batch.Quantity, &batch.ImageKey, &batch.Status, &batch.CreatedAt, &batch.UpdatedAt,
		&batch.CreatedBy, &batch.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return batch, nil
}

// Update applies a merge patch: only the patch's non-nil fields are written,
// and updated_at is always refreshed server-side. Returns the updated row.
func (r *batchRepo) Update(ctx context.Context, batchID string, patch *models.BatchUpdate) (*models.InventoryBatch, error) {
	setClauses := []string{}
	args := []interface{}{}
	argCount := 0

	addSet := func(column string, value interface{}) {
		argCount++
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
	}

	if patch.ProductName != nil {
		addSet("product_name", *patch.ProductName)
	}
	if patch.ProductionDate != nil {
		addSet("production_date", *patch.ProductionDate)
	}
	if patch.ExpiryDate != nil {
		addSet("expiry_date", *patch.ExpiryDate)
	}
	if patch.Quantity != nil {
		addSet("quantity", *patch.Quantity)
	}
	if patch.ImageKey != nil {
		addSet("image_key", *patch.ImageKey)
	}
	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.LastUpdatedBy != nil {
		addSet("last_updated_by", *patch.LastUpdatedBy)
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	argCount++
	query := fmt.Sprintf(`
		UPDATE inventory_batches
		SET %s
		WHERE batch_id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argCount, batchColumns)
	args = append(args, batchID)

	batch := &models.InventoryBatch{}
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&batch.BatchID, &batch.ProductName, &batch.ProductionDate, &batch.ExpiryDate,
		&batch.Quantity, &batch.ImageKey, &batch.Status, &batch.CreatedAt, &batch.UpdatedAt,
		&batch.CreatedBy, &batch.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return batch, nil
}

func (r *batchRepo) Delete(ctx context.Context, batchID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_batches WHERE batch_id = $1`, batchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *batchRepo) List(ctx context.Context, limit, offset int) ([]*models.InventoryBatch, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM inventory_batches
		ORDER BY expiry_date
		LIMIT $1 OFFSET $2
	`, batchColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListAll is a full-table scan; acceptable at this system's scale and the
// only read path reconciliation and the metrics summary use.
func (r *batchRepo) ListAll(ctx context.Context) ([]*models.InventoryBatch, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_batches ORDER BY expiry_date`, batchColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

func scanBatches(rows pgx.Rows) ([]*models.InventoryBatch, error) {
	var batches []*models.InventoryBatch
	for rows.Next() {
		batch := &models.InventoryBatch{}
		if err := rows.Scan(
			&batch.BatchID, &batch.ProductName, &batch.ProductionDate, &batch.ExpiryDate,
			&batch.Quantity, &batch.ImageKey, &batch.Status, &batch.CreatedAt, &batch.UpdatedAt,
			&batch.CreatedBy, &batch.LastUpdatedBy); err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}
