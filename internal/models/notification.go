package models

import "time"

// ExpiryNotice describes one batch whose status transitioned during a
// reconciliation pass. ExpiryDate is kept as a plain date string so the
// envelope stays readable on the wire.
type ExpiryNotice struct {
	BatchID      string      `json:"batch_id"`
	ProductName  string      `json:"product_name"`
	ExpiryDate   string      `json:"expiry_date"`
	Status       BatchStatus `json:"status"`
	DaysToExpiry int         `json:"days_to_expiry"`
}

// ExpiryEnvelope is the message emitted once per reconciliation pass that
// produced at least one transition into Expired or Expiring Soon.
type ExpiryEnvelope struct {
	Timestamp         time.Time      `json:"timestamp"`
	TotalUpdates      int            `json:"total_updates"`
	ExpiredItems      []ExpiryNotice `json:"expired_items"`
	ExpiringSoonItems []ExpiryNotice `json:"expiring_soon_items"`
}
