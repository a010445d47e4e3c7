package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplyRequestStatus transitions exactly once from pending to a terminal value.
type SupplyRequestStatus string

const (
	SupplyRequestPending  SupplyRequestStatus = "pending"
	SupplyRequestApproved SupplyRequestStatus = "approved"
	SupplyRequestRejected SupplyRequestStatus = "rejected"
)

type SupplyRequest struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	SupplierID  uuid.UUID           `json:"supplier_id" db:"supplier_id"`
	ProductName string              `json:"product_name" db:"product_name"`
	Quantity    int                 `json:"quantity" db:"quantity"`
	Description *string             `json:"description,omitempty" db:"description"`
	Status      SupplyRequestStatus `json:"status" db:"status"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}
