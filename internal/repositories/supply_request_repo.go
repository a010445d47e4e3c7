package repositories

import (
	"context"
	"errors"

	"freshtrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SupplyRequestRepository interface {
	Create(ctx context.Context, request *models.SupplyRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SupplyRequest, error)
	// Resolve sets the terminal status if and only if the request is still
	// pending. Returns ErrNotFound when the id does not exist and
	// ErrAlreadyResolved when the request was approved or rejected before.
	Resolve(ctx context.Context, id uuid.UUID, status models.SupplyRequestStatus) error
	List(ctx context.Context, limit, offset int) ([]*models.SupplyRequest, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.SupplyRequest, error)
}

type supplyRequestRepo struct {
	db Database
}

func NewSupplyRequestRepo(db Database) SupplyRequestRepository {
	return &supplyRequestRepo{db: db}
}

func (r *supplyRequestRepo) Create(ctx context.Context, request *models.SupplyRequest) error {
	query := `
		INSERT INTO supply_requests (id, supplier_id, product_name, quantity, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, request.ID, request.SupplierID, request.ProductName, request.Quantity, request.Description, request.Status)
	return err
}

func (r *supplyRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SupplyRequest, error) {
	request := &models.SupplyRequest{}
	query := `
		SELECT id, supplier_id, product_name, quantity, description, status, created_at, updated_at
		FROM supply_requests
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&request.ID, &request.SupplierID, &request.ProductName, &request.Quantity, &request.Description, &request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

func (r *supplyRequestRepo) Resolve(ctx context.Context, id uuid.UUID, status models.SupplyRequestStatus) error {
	// The status guard makes the transition one-way even under concurrent
	// responders: whoever loses the race sees zero rows affected.
	query := `
		UPDATE supply_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, status, id, models.SupplyRequestPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return models.ErrAlreadyResolved
	}
	return nil
}

func (r *supplyRequestRepo) List(ctx context.Context, limit, offset int) ([]*models.SupplyRequest, error) {
	query := `
		SELECT id, supplier_id, product_name, quantity, description, status, created_at, updated_at
		FROM supply_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSupplyRequests(rows)
}

func (r *supplyRequestRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.SupplyRequest, error) {
	query := `
		SELECT id, supplier_id, product_name, quantity, description, status, created_at, updated_at
		FROM supply_requests
		WHERE supplier_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, supplierID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSupplyRequests(rows)
}

func scanSupplyRequests(rows pgx.Rows) ([]*models.SupplyRequest, error) {
	var requests []*models.SupplyRequest
	for rows.Next() {
		request := &models.SupplyRequest{}
		if err := rows.Scan(&request.ID, &request.SupplierID, &request.ProductName, &request.Quantity, &request.Description, &request.Status, &request.CreatedAt, &request.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
