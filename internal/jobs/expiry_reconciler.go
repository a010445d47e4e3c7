package jobs

import (
	"context"
	"log"
	"time"

	"freshtrack/internal/caching"
	"freshtrack/internal/expiry"
	"freshtrack/internal/models"
	"freshtrack/internal/notify"
	"freshtrack/internal/repositories"
)

// ExpiryReconciler walks the whole inventory, re-derives each batch's
// status from its expiry date, persists the ones that changed and emits
// one envelope describing the run to the notification stream.
type ExpiryReconciler struct {
	batchRepo    repositories.BatchRepository
	cacheService caching.CacheService
	dispatcher   notify.Dispatcher
}

func NewExpiryReconciler(batchRepo repositories.BatchRepository, cacheService caching.CacheService, dispatcher notify.Dispatcher) *ExpiryReconciler {
	return &ExpiryReconciler{
		batchRepo:    batchRepo,
		cacheService: cacheService,
		dispatcher:   dispatcher,
	}
}

// Run performs one reconciliation pass. A failure on an individual batch
// is logged and skipped so one bad record never stalls the sweep; the
// returned envelope reflects only the transitions that were persisted.
func (r *ExpiryReconciler) Run(ctx context.Context) (*models.ExpiryEnvelope, error) {
	batches, err := r.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	envelope := &models.ExpiryEnvelope{
		Timestamp:         now.UTC(),
		ExpiredItems:      []models.ExpiryNotice{},
		ExpiringSoonItems: []models.ExpiryNotice{},
	}

	for _, batch := range batches {
		newStatus := expiry.Classify(batch.ExpiryDate, now)
		if newStatus == batch.Status {
			continue
		}

		status := newStatus
		if _, err := r.batchRepo.Update(ctx, batch.BatchID, &models.BatchUpdate{Status: &status}); err != nil {
			log.Printf("Failed to persist status for batch %s: %v", batch.BatchID, err)
			continue
		}
		if cacheErr := r.cacheService.DeleteBatch(ctx, batch.BatchID); cacheErr != nil {
			log.Printf("Failed to invalidate cache for batch %s: %v", batch.BatchID, cacheErr)
		}

		envelope.TotalUpdates++

		notice := models.ExpiryNotice{
			BatchID:      batch.BatchID,
			ProductName:  batch.ProductName,
			ExpiryDate:   batch.ExpiryDate.Format("2006-01-02"),
			Status:       newStatus,
			DaysToExpiry: expiry.DaysToExpiry(batch.ExpiryDate, now),
		}
		switch newStatus {
		case models.StatusExpired:
			envelope.ExpiredItems = append(envelope.ExpiredItems, notice)
		case models.StatusExpiringSoon:
			envelope.ExpiringSoonItems = append(envelope.ExpiringSoonItems, notice)
		}
	}

	log.Printf("Expiry reconciliation complete: %d updated (%d expired, %d expiring soon) of %d batches",
		envelope.TotalUpdates, len(envelope.ExpiredItems), len(envelope.ExpiringSoonItems), len(batches))

	if envelope.TotalUpdates > 0 {
		// Emission is best-effort; the transitions are already durable and
		// the next pass runs from the stored state regardless.
		if err := r.dispatcher.Send(ctx, envelope); err != nil {
			log.Printf("Failed to emit expiry envelope: %v", err)
		}
	}

	return envelope, nil
}
