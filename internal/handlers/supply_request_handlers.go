package handlers

import (
	"net/http"

	"freshtrack/internal/common"
	"freshtrack/internal/models"
	"freshtrack/internal/services"

	"github.com/labstack/echo/v4"
)

// SupplyRequestHandlers handles HTTP requests for the supply workflow
type SupplyRequestHandlers struct {
	requestService services.SupplyRequestService
}

// NewSupplyRequestHandlers creates a new supply request handlers instance
func NewSupplyRequestHandlers(requestService services.SupplyRequestService) *SupplyRequestHandlers {
	return &SupplyRequestHandlers{requestService: requestService}
}

type createSupplyRequestRequest struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Description *string `json:"description"`
}

// CreateRequest handles POST /supply-requests (supplier only).
func (h *SupplyRequestHandlers) CreateRequest(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return common.RespondError(c, http.StatusUnauthorized, "Unauthorized access")
	}

	var req createSupplyRequestRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid request format")
	}

	request, err := h.requestService.Create(ctx, supplierID, req.ProductName, req.Quantity, req.Description)
	if err != nil {
		return respondServiceError(c, err, "Failed to create supply request")
	}
	return common.RespondSuccess(c, http.StatusCreated, request)
}

type respondSupplyRequestRequest struct {
	Decision string `json:"decision"`
}

// RespondToRequest handles POST /supply-requests/:id/respond (manufacturer
// only). The decision is final: a second response returns 409.
func (h *SupplyRequestHandlers) RespondToRequest(c echo.Context) error {
	ctx := c.Request().Context()

	requestID, err := common.ValidateUUID(c.Param("id"), "request id")
	if err != nil {
		return common.RespondError(c, http.StatusBadRequest, err.Error())
	}

	var req respondSupplyRequestRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid request format")
	}

	request, err := h.requestService.Respond(ctx, requestID, req.Decision)
	if err != nil {
		return respondServiceError(c, err, "Failed to respond to supply request")
	}
	return common.RespondSuccess(c, http.StatusOK, request)
}

// GetRequest handles GET /supply-requests/:id
func (h *SupplyRequestHandlers) GetRequest(c echo.Context) error {
	ctx := c.Request().Context()

	requestID, err := common.ValidateUUID(c.Param("id"), "request id")
	if err != nil {
		return common.RespondError(c, http.StatusBadRequest, err.Error())
	}

	request, err := h.requestService.GetByID(ctx, requestID)
	if err != nil {
		return respondServiceError(c, err, "Failed to fetch supply request")
	}
	return common.RespondSuccess(c, http.StatusOK, request)
}

// ListRequests handles GET /supply-requests. Manufacturers see every
// request; suppliers see only their own.
func (h *SupplyRequestHandlers) ListRequests(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c)

	role, _ := common.RoleFromContext(ctx)
	if role == models.RoleSupplier {
		supplierID, ok := common.UserIDFromContext(ctx)
		if !ok {
			return common.RespondError(c, http.StatusUnauthorized, "Unauthorized access")
		}
		requests, err := h.requestService.ListBySupplier(ctx, supplierID, limit, offset)
		if err != nil {
			return respondServiceError(c, err, "Failed to list supply requests")
		}
		return common.RespondSuccess(c, http.StatusOK, requests)
	}

	requests, err := h.requestService.List(ctx, limit, offset)
	if err != nil {
		return respondServiceError(c, err, "Failed to list supply requests")
	}
	return common.RespondSuccess(c, http.StatusOK, requests)
}
