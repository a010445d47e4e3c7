package models

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus is the derived freshness classification of a batch.
type BatchStatus string

const (
	StatusSafe         BatchStatus = "Safe"
	StatusExpiringSoon BatchStatus = "Expiring Soon"
	StatusExpired      BatchStatus = "Expired"
)

type InventoryBatch struct {
	BatchID        string      `json:"batch_id" db:"batch_id"`
	ProductName    string      `json:"product_name" db:"product_name"`
	ProductionDate time.Time   `json:"production_date" db:"production_date"`
	ExpiryDate     time.Time   `json:"expiry_date" db:"expiry_date"`
	Quantity       int         `json:"quantity" db:"quantity"`
	ImageKey       *string     `json:"image_key,omitempty" db:"image_key"`
	Status         BatchStatus `json:"status" db:"status"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
	CreatedBy      *uuid.UUID  `json:"created_by,omitempty" db:"created_by"`
	LastUpdatedBy  *uuid.UUID  `json:"last_updated_by,omitempty" db:"last_updated_by"`

	// PresignedURL is filled on reads when an image is attached; never stored.
	PresignedURL *string `json:"presigned_url,omitempty" db:"-"`
}

// BatchUpdate is a merge patch: nil fields keep their stored value.
// Status is set by the service layer when ExpiryDate changes, never by callers.
type BatchUpdate struct {
	ProductName    *string      `json:"product_name,omitempty"`
	ProductionDate *time.Time   `json:"production_date,omitempty"`
	ExpiryDate     *time.Time   `json:"expiry_date,omitempty"`
	Quantity       *int         `json:"quantity,omitempty"`
	ImageKey       *string      `json:"-"`
	Status         *BatchStatus `json:"-"`
	LastUpdatedBy  *uuid.UUID   `json:"-"`
}

// IsZero reports whether the patch carries no fields at all.
func (u *BatchUpdate) IsZero() bool {
	return u.ProductName == nil && u.ProductionDate == nil && u.ExpiryDate == nil &&
		u.Quantity == nil && u.ImageKey == nil && u.Status == nil && u.LastUpdatedBy == nil
}

// MetricsSummary is the payload of the metrics endpoint.
type MetricsSummary struct {
	TotalBatches       int                 `json:"total_batches"`
	StatusDistribution map[BatchStatus]int `json:"status_distribution"`
	TotalQuantity      int                 `json:"total_quantity"`
	Timestamp          time.Time           `json:"timestamp"`
}
