package services

import (
	"context"
	"fmt"
	"strings"

	"freshtrack/internal/models"
	"freshtrack/internal/repositories"

	"github.com/google/uuid"
)

type SupplyRequestService interface {
	Create(ctx context.Context, supplierID uuid.UUID, productName string, quantity int, description *string) (*models.SupplyRequest, error)
	// Respond applies the one and only permitted transition:
	// pending -> approved|rejected.
	Respond(ctx context.Context, requestID uuid.UUID, decision string) (*models.SupplyRequest, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (*models.SupplyRequest, error)
	List(ctx context.Context, limit, offset int) ([]*models.SupplyRequest, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.SupplyRequest, error)
}

type supplyRequestService struct {
	requestRepo repositories.SupplyRequestRepository
}

func NewSupplyRequestService(requestRepo repositories.SupplyRequestRepository) SupplyRequestService {
	return &supplyRequestService{requestRepo: requestRepo}
}

func (s *supplyRequestService) Create(ctx context.Context, supplierID uuid.UUID, productName string, quantity int, description *string) (*models.SupplyRequest, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, models.NewValidationError("product name is required")
	}
	if quantity <= 0 {
		return nil, models.NewValidationError("quantity must be positive")
	}

	request := &models.SupplyRequest{
		ID:          uuid.New(),
		SupplierID:  supplierID,
		ProductName: productName,
		Quantity:    quantity,
		Description: description,
		Status:      models.SupplyRequestPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *supplyRequestService) Respond(ctx context.Context, requestID uuid.UUID, decision string) (*models.SupplyRequest, error) {
	var status models.SupplyRequestStatus
	switch decision {
	case "approve":
		status = models.SupplyRequestApproved
	case "reject":
		status = models.SupplyRequestRejected
	default:
		return nil, models.NewValidationError(fmt.Sprintf("decision must be 'approve' or 'reject', got %q", decision))
	}

	if err := s.requestRepo.Resolve(ctx, requestID, status); err != nil {
		return nil, err
	}
	return s.requestRepo.GetByID(ctx, requestID)
}

func (s *supplyRequestService) GetByID(ctx context.Context, requestID uuid.UUID) (*models.SupplyRequest, error) {
	return s.requestRepo.GetByID(ctx, requestID)
}

func (s *supplyRequestService) List(ctx context.Context, limit, offset int) ([]*models.SupplyRequest, error) {
	return s.requestRepo.List(ctx, limit, offset)
}

func (s *supplyRequestService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.SupplyRequest, error) {
	return s.requestRepo.ListBySupplier(ctx, supplierID, limit, offset)
}
