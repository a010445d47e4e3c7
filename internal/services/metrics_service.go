package services

import (
	"context"
	"log"
	"time"

	"freshtrack/internal/caching"
	"freshtrack/internal/models"
	"freshtrack/internal/repositories"
)

// Counter names emitted by the batch service and handlers.
const (
	MetricPageViews    = "PageViews"
	MetricBatchCreated = "BatchCreated"
	MetricBatchUpdated = "BatchUpdated"
	MetricBatchDeleted = "BatchDeleted"
)

// MetricsService records fire-and-forget counters and computes the on-demand
// inventory summary. A metrics failure must never fail the operation that
// triggered it, so Record swallows and logs every error.
type MetricsService interface {
	Record(ctx context.Context, name string)
	RecordStatus(ctx context.Context, status models.BatchStatus)
	Counter(ctx context.Context, name string) int64
	Summary(ctx context.Context) (*models.MetricsSummary, error)
}

type metricsService struct {
	cacheService caching.CacheService
	batchRepo    repositories.BatchRepository
}

func NewMetricsService(cacheService caching.CacheService, batchRepo repositories.BatchRepository) MetricsService {
	return &metricsService{
		cacheService: cacheService,
		batchRepo:    batchRepo,
	}
}

func (s *metricsService) Record(ctx context.Context, name string) {
	if err := s.cacheService.IncrCounter(ctx, name); err != nil {
		log.Printf("Failed to record metric %s: %v", name, err)
	}
}

func (s *metricsService) RecordStatus(ctx context.Context, status models.BatchStatus) {
	// "Expiring Soon" -> "StatusExpiringSoon" style counter names.
	name := "Status"
	for _, r := range status {
		if r != ' ' {
			name += string(r)
		}
	}
	s.Record(ctx, name)
}

func (s *metricsService) Counter(ctx context.Context, name string) int64 {
	val, err := s.cacheService.GetCounter(ctx, name)
	if err != nil {
		log.Printf("Failed to read metric %s: %v", name, err)
		return 0
	}
	return val
}

func (s *metricsService) Summary(ctx context.Context) (*models.MetricsSummary, error) {
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.MetricsSummary{
		TotalBatches: len(batches),
		StatusDistribution: map[models.BatchStatus]int{
			models.StatusSafe:         0,
			models.StatusExpiringSoon: 0,
			models.StatusExpired:      0,
		},
		Timestamp: time.Now().UTC(),
	}
	for _, batch := range batches {
		summary.StatusDistribution[batch.Status]++
		summary.TotalQuantity += batch.Quantity
	}
	return summary, nil
}
