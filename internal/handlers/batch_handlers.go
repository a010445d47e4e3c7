package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"freshtrack/internal/common"
	"freshtrack/internal/models"
	"freshtrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxImageSize bounds batch image uploads at 10 MiB.
const maxImageSize = 10 << 20

// BatchHandlers handles HTTP requests for inventory batches
type BatchHandlers struct {
	batchService services.BatchService
	metrics      services.MetricsService
}

// NewBatchHandlers creates a new batch handlers instance
func NewBatchHandlers(batchService services.BatchService, metrics services.MetricsService) *BatchHandlers {
	return &BatchHandlers{batchService: batchService, metrics: metrics}
}

type createBatchRequest struct {
	BatchID        string `json:"batch_id"`
	ProductName    string `json:"product_name"`
	ProductionDate string `json:"production_date"`
	ExpiryDate     string `json:"expiry_date"`
	Quantity       int    `json:"quantity"`
}

// CreateBatch handles POST /batches
func (h *BatchHandlers) CreateBatch(c echo.Context) error {
	ctx := c.Request().Context()

	var req createBatchRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid request format")
	}

	productionDate, err := common.ParseDate(req.ProductionDate, "production_date")
	if err != nil {
		return common.RespondError(c, http.StatusBadRequest, err.Error())
	}
	expiryDate, err := common.ParseDate(req.ExpiryDate, "expiry_date")
	if err != nil {
		return common.RespondError(c, http.StatusBadRequest, err.Error())
	}

	batch := &models.InventoryBatch{
		BatchID:        strings.TrimSpace(req.BatchID),
		ProductName:    strings.TrimSpace(req.ProductName),
		ProductionDate: productionDate,
		ExpiryDate:     expiryDate,
		Quantity:       req.Quantity,
	}

	if err := h.batchService.Create(ctx, batch, actorID(c)); err != nil {
		return respondServiceError(c, err, "Failed to create batch")
	}

	return common.RespondSuccess(c, http.StatusCreated, batch)
}

// GetBatch handles GET /batches/:batch_id
func (h *BatchHandlers) GetBatch(c echo.Context) error {
	ctx := c.Request().Context()

	batchID := strings.TrimSpace(c.Param("batch_id"))
	if batchID == "" {
		return common.RespondError(c, http.StatusBadRequest, "batch_id is required")
	}

	batch, err := h.batchService.GetByID(ctx, batchID)
	if err != nil {
		return respondServiceError(c, err, "Failed to fetch batch")
	}
	return common.RespondSuccess(c, http.StatusOK, batch)
}

// ListBatches handles GET /batches
func (h *BatchHandlers) ListBatches(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c)

	h.metrics.Record(ctx, services.MetricPageViews)

	batches, err := h.batchService.List(ctx, limit, offset)
	if err != nil {
		return respondServiceError(c, err, "Failed to list batches")
	}
	return common.RespondSuccess(c, http.StatusOK, batches)
}

type updateBatchRequest struct {
	ProductName    *string `json:"product_name"`
	ProductionDate *string `json:"production_date"`
	ExpiryDate     *string `json:"expiry_date"`
	Quantity       *int    `json:"quantity"`
}

// UpdateBatch handles PUT /batches/:batch_id with merge semantics:
// only the fields present in the body change.
func (h *BatchHandlers) UpdateBatch(c echo.Context) error {
	ctx := c.Request().Context()

	batchID := strings.TrimSpace(c.Param("batch_id"))
	if batchID == "" {
		return common.RespondError(c, http.StatusBadRequest, "batch_id is required")
	}

	var req updateBatchRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid request format")
	}

	patch := &models.BatchUpdate{
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
	}
	if req.ProductionDate != nil {
		date, err := common.ParseDate(*req.ProductionDate, "production_date")
		if err != nil {
			return common.RespondError(c, http.StatusBadRequest, err.Error())
		}
		patch.ProductionDate = &date
	}
	if req.ExpiryDate != nil {
		date, err := common.ParseDate(*req.ExpiryDate, "expiry_date")
		if err != nil {
			return common.RespondError(c, http.StatusBadRequest, err.Error())
		}
		patch.ExpiryDate = &date
	}
	if patch.IsZero() {
		return common.RespondError(c, http.StatusBadRequest, "No fields to update")
	}

	batch, err := h.batchService.Update(ctx, batchID, patch, actorID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to update batch")
	}
	return common.RespondSuccess(c, http.StatusOK, batch)
}

// DeleteBatch handles DELETE /batches/:batch_id
func (h *BatchHandlers) DeleteBatch(c echo.Context) error {
	ctx := c.Request().Context()

	batchID := strings.TrimSpace(c.Param("batch_id"))
	if batchID == "" {
		return common.RespondError(c, http.StatusBadRequest, "batch_id is required")
	}

	if err := h.batchService.Delete(ctx, batchID); err != nil {
		return respondServiceError(c, err, "Failed to delete batch")
	}
	return common.RespondSuccess(c, http.StatusOK, map[string]string{"batch_id": batchID, "deleted": "true"})
}

// UploadBatchImage handles POST /batches/:batch_id/image (multipart form,
// field name "image").
func (h *BatchHandlers) UploadBatchImage(c echo.Context) error {
	ctx := c.Request().Context()

	batchID := strings.TrimSpace(c.Param("batch_id"))
	if batchID == "" {
		return common.RespondError(c, http.StatusBadRequest, "batch_id is required")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.RespondError(c, http.StatusBadRequest, "image file is required")
	}
	if fileHeader.Size > maxImageSize {
		return common.RespondError(c, http.StatusBadRequest, "image exceeds the 10MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Failed to open uploaded image for batch %s: %v", batchID, err)
		return common.RespondError(c, http.StatusInternalServerError, "Failed to read uploaded image")
	}
	defer file.Close()

	batch, err := h.batchService.AttachImage(ctx, batchID, fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondServiceError(c, err, "Failed to upload image")
	}
	return common.RespondSuccess(c, http.StatusOK, batch)
}

// paginationParams reads limit/offset query params with sane defaults.
func paginationParams(c echo.Context) (int, int) {
	limit := 50
	offset := 0
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// actorID pulls the authenticated user's ID out of the request, or nil
// when the route was reached without authentication.
func actorID(c echo.Context) *uuid.UUID {
	if userID, ok := common.UserIDFromContext(c.Request().Context()); ok {
		return &userID
	}
	return nil
}

// respondServiceError maps service errors to the uniform error envelope.
func respondServiceError(c echo.Context, err error, fallback string) error {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return common.RespondError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrAlreadyResolved):
		return common.RespondError(c, http.StatusConflict, "Request has already been resolved")
	case errors.As(err, &validationErr):
		return common.RespondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s: %v", fallback, err)
		return common.RespondError(c, http.StatusInternalServerError, fallback)
	}
}
