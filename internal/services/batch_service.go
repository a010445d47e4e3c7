package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"freshtrack/internal/caching"
	"freshtrack/internal/expiry"
	"freshtrack/internal/models"
	"freshtrack/internal/repositories"

	"github.com/google/uuid"
)

const (
	batchImageBucket = "batch-images"
	batchCacheTTL    = 15 * time.Minute
)

type BatchService interface {
	Create(ctx context.Context, batch *models.InventoryBatch, createdBy *uuid.UUID) error
	GetByID(ctx context.Context, batchID string) (*models.InventoryBatch, error)
	Update(ctx context.Context, batchID string, patch *models.BatchUpdate, updatedBy *uuid.UUID) (*models.InventoryBatch, error)
	Delete(ctx context.Context, batchID string) error
	List(ctx context.Context, limit, offset int) ([]*models.InventoryBatch, error)
	AttachImage(ctx context.Context, batchID, filename string, reader io.Reader, size int64, contentType string) (*models.InventoryBatch, error)
}

type batchService struct {
	batchRepo    repositories.BatchRepository
	minioService MinioService
	cacheService caching.CacheService
	metrics      MetricsService
}

func NewBatchService(batchRepo repositories.BatchRepository, minioService MinioService, cacheService caching.CacheService, metrics MetricsService) BatchService {
	return &batchService{
		batchRepo:    batchRepo,
		minioService: minioService,
		cacheService: cacheService,
		metrics:      metrics,
	}
}

func (s *batchService) Create(ctx context.Context, batch *models.InventoryBatch, createdBy *uuid.UUID) error {
	if strings.TrimSpace(batch.BatchID) == "" {
		return models.NewValidationError("batch id is required")
	}
	if strings.TrimSpace(batch.ProductName) == "" {
		return models.NewValidationError("product name is required")
	}
	if batch.Quantity < 0 {
		return models.NewValidationError("quantity cannot be negative")
	}

	// Status is derived, never taken from the caller.
	batch.Status = expiry.Classify(batch.ExpiryDate, time.Now())
	batch.CreatedBy = createdBy
	batch.LastUpdatedBy = createdBy

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return err
	}

	s.metrics.Record(ctx, MetricBatchCreated)
	s.metrics.RecordStatus(ctx, batch.Status)
	return nil
}

func (s *batchService) GetByID(ctx context.Context, batchID string) (*models.InventoryBatch, error) {
	if cached, err := s.cacheService.GetBatch(ctx, batchID); cached != nil {
		s.present(ctx, cached)
		return cached, nil
	} else if err != nil {
		// Cache errors never fail the read.
		log.Printf("Cache error for batch %s: %v", batchID, err)
	}

	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetBatch(ctx, batch, batchCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache batch %s: %v", batchID, cacheErr)
	}

	s.present(ctx, batch)
	return batch, nil
}

func (s *batchService) Update(ctx context.Context, batchID string, patch *models.BatchUpdate, updatedBy *uuid.UUID) (*models.InventoryBatch, error) {
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, models.NewValidationError("quantity cannot be negative")
	}
	if patch.ProductName != nil && strings.TrimSpace(*patch.ProductName) == "" {
		return nil, models.NewValidationError("product name cannot be empty")
	}

	// Recompute-on-write: an expiry change carries its new status in the
	// same update so a read immediately after never sees a stale value.
	if patch.ExpiryDate != nil {
		status := expiry.Classify(*patch.ExpiryDate, time.Now())
		patch.Status = &status
	}
	patch.LastUpdatedBy = updatedBy

	batch, err := s.batchRepo.Update(ctx, batchID, patch)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.DeleteBatch(ctx, batchID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for batch %s: %v", batchID, cacheErr)
	}

	s.metrics.Record(ctx, MetricBatchUpdated)
	s.present(ctx, batch)
	return batch, nil
}

func (s *batchService) Delete(ctx context.Context, batchID string) error {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return err
	}

	if err := s.batchRepo.Delete(ctx, batchID); err != nil {
		return err
	}

	// The record is gone; a blob-delete failure is logged, not surfaced.
	if batch.ImageKey != nil {
		if blobErr := s.minioService.DeleteImage(ctx, batchImageBucket, *batch.ImageKey); blobErr != nil {
			log.Printf("Failed to delete image %s for batch %s: %v", *batch.ImageKey, batchID, blobErr)
		}
	}

	if cacheErr := s.cacheService.DeleteBatch(ctx, batchID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for batch %s: %v", batchID, cacheErr)
	}

	s.metrics.Record(ctx, MetricBatchDeleted)
	return nil
}

func (s *batchService) List(ctx context.Context, limit, offset int) ([]*models.InventoryBatch, error) {
	batches, err := s.batchRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, batch := range batches {
		s.present(ctx, batch)
	}
	return batches, nil
}

func (s *batchService) AttachImage(ctx context.Context, batchID, filename string, reader io.Reader, size int64, contentType string) (*models.InventoryBatch, error) {
	if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("batches/%s%s", batchID, filepath.Ext(filename))

	if err := s.minioService.EnsureBucketExists(ctx, batchImageBucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}
	if err := s.minioService.UploadImage(ctx, batchImageBucket, objectKey, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload image to storage: %w", err)
	}

	batch, err := s.batchRepo.Update(ctx, batchID, &models.BatchUpdate{ImageKey: &objectKey})
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.DeleteBatch(ctx, batchID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for batch %s: %v", batchID, cacheErr)
	}

	s.present(ctx, batch)
	return batch, nil
}

// present refreshes the derived fields on a batch before it leaves the
// service: status is recomputed against today (the stored copy is only a
// cache) and a presigned image URL is attached when possible.
func (s *batchService) present(ctx context.Context, batch *models.InventoryBatch) {
	batch.Status = expiry.Classify(batch.ExpiryDate, time.Now())

	if batch.ImageKey == nil {
		return
	}
	url, err := s.minioService.GetPresignedURL(ctx, batchImageBucket, *batch.ImageKey, PresignedURLValidity)
	if err != nil {
		log.Printf("Failed to presign image URL for batch %s: %v", batch.BatchID, err)
		return
	}
	batch.PresignedURL = &url
}
