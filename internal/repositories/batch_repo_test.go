package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"freshtrack/internal/models"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BatchRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    BatchRepository
	context context.Context
}

func (suite *BatchRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewBatchRepo(mock)
	suite.context = context.Background()
}

func (suite *BatchRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestBatchRepoTestSuite(t *testing.T) {
	suite.Run(t, new(BatchRepoTestSuite))
}

func batchRow(batch *models.InventoryBatch) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"batch_id", "product_name", "production_date", "expiry_date", "quantity",
		"image_key", "status", "created_at", "updated_at", "created_by", "last_updated_by",
	}).AddRow(
		batch.BatchID, batch.ProductName, batch.ProductionDate, batch.ExpiryDate, batch.Quantity,
		batch.ImageKey, batch.Status, batch.CreatedAt, batch.UpdatedAt, batch.CreatedBy, batch.LastUpdatedBy,
	)
}

func sampleBatch() *models.InventoryBatch {
	now := time.Now()
	return &models.InventoryBatch{
		BatchID:        "BATCH-001",
		ProductName:    "Whole Milk",
		ProductionDate: now.AddDate(0, 0, -3),
		ExpiryDate:     now.AddDate(0, 0, 4),
		Quantity:       120,
		Status:         models.StatusExpiringSoon,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (suite *BatchRepoTestSuite) TestCreate_Success() {
	batch := sampleBatch()

	suite.mock.ExpectExec(`INSERT INTO inventory_batches`).
		WithArgs(batch.BatchID, batch.ProductName, batch.ProductionDate, batch.ExpiryDate,
			batch.Quantity, batch.ImageKey, batch.Status, batch.CreatedBy, batch.CreatedBy).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, batch)
	assert.NoError(suite.T(), err)
}

func (suite *BatchRepoTestSuite) TestGetByID_Success() {
	batch := sampleBatch()

	suite.mock.ExpectQuery(`SELECT .+ FROM inventory_batches WHERE batch_id = \$1`).
		WithArgs(batch.BatchID).
		WillReturnRows(batchRow(batch))

	got, err := suite.repo.GetByID(suite.context, batch.BatchID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), batch.BatchID, got.BatchID)
	assert.Equal(suite.T(), batch.ProductName, got.ProductName)
	assert.Equal(suite.T(), batch.Status, got.Status)
}

func (suite *BatchRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM inventory_batches WHERE batch_id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"batch_id"}))

	got, err := suite.repo.GetByID(suite.context, "missing")
	assert.Nil(suite.T(), got)
	assert.True(suite.T(), errors.Is(err, models.ErrNotFound))
}

func (suite *BatchRepoTestSuite) TestUpdate_MergesOnlyProvidedFields() {
	batch := sampleBatch()
	quantity := 80

	suite.mock.ExpectQuery(`UPDATE inventory_batches\s+SET quantity = \$1, updated_at = NOW\(\)\s+WHERE batch_id = \$2`).
		WithArgs(quantity, batch.BatchID).
		WillReturnRows(batchRow(batch))

	got, err := suite.repo.Update(suite.context, batch.BatchID, &models.BatchUpdate{Quantity: &quantity})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), batch.BatchID, got.BatchID)
}

func (suite *BatchRepoTestSuite) TestUpdate_NotFound() {
	name := "Renamed"

	suite.mock.ExpectQuery(`UPDATE inventory_batches`).
		WithArgs(name, "missing").
		WillReturnRows(pgxmock.NewRows([]string{"batch_id"}))

	got, err := suite.repo.Update(suite.context, "missing", &models.BatchUpdate{ProductName: &name})
	assert.Nil(suite.T(), got)
	assert.True(suite.T(), errors.Is(err, models.ErrNotFound))
}

func (suite *BatchRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM inventory_batches WHERE batch_id = \$1`).
		WithArgs("BATCH-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, "BATCH-001")
	assert.NoError(suite.T(), err)
}

func (suite *BatchRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM inventory_batches WHERE batch_id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, "missing")
	assert.True(suite.T(), errors.Is(err, models.ErrNotFound))
}

func (suite *BatchRepoTestSuite) TestListAll_OrdersByExpiry() {
	batch := sampleBatch()

	suite.mock.ExpectQuery(`SELECT .+ FROM inventory_batches ORDER BY expiry_date`).
		WillReturnRows(batchRow(batch))

	got, err := suite.repo.ListAll(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), got, 1)
	assert.Equal(suite.T(), batch.BatchID, got[0].BatchID)
}
