package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"freshtrack/internal/models"
	"freshtrack/internal/notify"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *models.InventoryBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) GetByID(ctx context.Context, batchID string) (*models.InventoryBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryBatch), args.Error(1)
}

func (m *MockBatchRepository) Update(ctx context.Context, batchID string, patch *models.BatchUpdate) (*models.InventoryBatch, error) {
	args := m.Called(ctx, batchID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryBatch), args.Error(1)
}

func (m *MockBatchRepository) Delete(ctx context.Context, batchID string) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

func (m *MockBatchRepository) List(ctx context.Context, limit, offset int) ([]*models.InventoryBatch, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.InventoryBatch), args.Error(1)
}

func (m *MockBatchRepository) ListAll(ctx context.Context) ([]*models.InventoryBatch, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.InventoryBatch), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetBatch(ctx context.Context, batchID string) (*models.InventoryBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryBatch), args.Error(1)
}

func (m *MockCacheService) SetBatch(ctx context.Context, batch *models.InventoryBatch, ttl time.Duration) error {
	args := m.Called(ctx, batch, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteBatch(ctx context.Context, batchID string) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

func (m *MockCacheService) IncrCounter(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockCacheService) GetCounter(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Client() *redis.Client {
	return nil
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, envelope *models.ExpiryEnvelope) error {
	args := m.Called(ctx, envelope)
	return args.Error(0)
}

func (m *MockDispatcher) Receive(ctx context.Context, max int64) ([]notify.Delivery, error) {
	args := m.Called(ctx, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notify.Delivery), args.Error(1)
}

func (m *MockDispatcher) Ack(ctx context.Context, deliveryID string) error {
	args := m.Called(ctx, deliveryID)
	return args.Error(0)
}

type ExpiryReconcilerTestSuite struct {
	suite.Suite
	mockBatchRepo  *MockBatchRepository
	mockCache      *MockCacheService
	mockDispatcher *MockDispatcher
	reconciler     *ExpiryReconciler
}

func (suite *ExpiryReconcilerTestSuite) SetupTest() {
	suite.mockBatchRepo = &MockBatchRepository{}
	suite.mockCache = &MockCacheService{}
	suite.mockDispatcher = &MockDispatcher{}
	suite.reconciler = NewExpiryReconciler(suite.mockBatchRepo, suite.mockCache, suite.mockDispatcher)
}

func (suite *ExpiryReconcilerTestSuite) TearDownTest() {
	suite.mockBatchRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
	suite.mockDispatcher.AssertExpectations(suite.T())
}

func TestExpiryReconcilerTestSuite(t *testing.T) {
	suite.Run(t, new(ExpiryReconcilerTestSuite))
}

func staleBatch(id string, daysToExpiry int, stored models.BatchStatus) *models.InventoryBatch {
	return &models.InventoryBatch{
		BatchID:     id,
		ProductName: "Milk " + id,
		ExpiryDate:  time.Now().AddDate(0, 0, daysToExpiry),
		Status:      stored,
	}
}

func (suite *ExpiryReconcilerTestSuite) TestRun_PersistsTransitionsAndEmitsEnvelope() {
	expired := staleBatch("B-1", -2, models.StatusSafe)
	current := staleBatch("B-2", 90, models.StatusSafe)

	suite.mockBatchRepo.On("ListAll", mock.Anything).
		Return([]*models.InventoryBatch{expired, current}, nil).Once()
	suite.mockBatchRepo.On("Update", mock.Anything, "B-1", mock.MatchedBy(func(p *models.BatchUpdate) bool {
		return p.Status != nil && *p.Status == models.StatusExpired && p.Quantity == nil
	})).Return(expired, nil).Once()
	suite.mockCache.On("DeleteBatch", mock.Anything, "B-1").Return(nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, mock.MatchedBy(func(e *models.ExpiryEnvelope) bool {
		return e.TotalUpdates == 1 && len(e.ExpiredItems) == 1 && len(e.ExpiringSoonItems) == 0
	})).Return(nil).Once()

	envelope, err := suite.reconciler.Run(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, envelope.TotalUpdates)
	assert.Equal(suite.T(), "B-1", envelope.ExpiredItems[0].BatchID)
	assert.Negative(suite.T(), envelope.ExpiredItems[0].DaysToExpiry)
}

func (suite *ExpiryReconcilerTestSuite) TestRun_NoTransitionsNoEmission() {
	safe := staleBatch("B-3", 90, models.StatusSafe)
	soon := staleBatch("B-4", 3, models.StatusExpiringSoon)

	suite.mockBatchRepo.On("ListAll", mock.Anything).
		Return([]*models.InventoryBatch{safe, soon}, nil).Once()

	envelope, err := suite.reconciler.Run(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, envelope.TotalUpdates)
	suite.mockDispatcher.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
}

func (suite *ExpiryReconcilerTestSuite) TestRun_SkipsFailedBatchAndContinues() {
	failing := staleBatch("B-5", -1, models.StatusExpiringSoon)
	succeeding := staleBatch("B-6", 5, models.StatusSafe)

	suite.mockBatchRepo.On("ListAll", mock.Anything).
		Return([]*models.InventoryBatch{failing, succeeding}, nil).Once()
	suite.mockBatchRepo.On("Update", mock.Anything, "B-5", mock.Anything).
		Return(nil, errors.New("write conflict")).Once()
	suite.mockBatchRepo.On("Update", mock.Anything, "B-6", mock.Anything).
		Return(succeeding, nil).Once()
	suite.mockCache.On("DeleteBatch", mock.Anything, "B-6").Return(nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, mock.MatchedBy(func(e *models.ExpiryEnvelope) bool {
		return e.TotalUpdates == 1 && len(e.ExpiringSoonItems) == 1
	})).Return(nil).Once()

	envelope, err := suite.reconciler.Run(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, envelope.TotalUpdates)
	assert.Equal(suite.T(), "B-6", envelope.ExpiringSoonItems[0].BatchID)
}

func (suite *ExpiryReconcilerTestSuite) TestRun_EmissionFailureDoesNotFailTheRun() {
	expired := staleBatch("B-7", -10, models.StatusSafe)

	suite.mockBatchRepo.On("ListAll", mock.Anything).
		Return([]*models.InventoryBatch{expired}, nil).Once()
	suite.mockBatchRepo.On("Update", mock.Anything, "B-7", mock.Anything).
		Return(expired, nil).Once()
	suite.mockCache.On("DeleteBatch", mock.Anything, "B-7").Return(nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, mock.Anything).
		Return(errors.New("stream unavailable")).Once()

	envelope, err := suite.reconciler.Run(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, envelope.TotalUpdates)
}

func (suite *ExpiryReconcilerTestSuite) TestRun_ScanFailure() {
	suite.mockBatchRepo.On("ListAll", mock.Anything).
		Return([]*models.InventoryBatch(nil), errors.New("connection refused")).Once()

	envelope, err := suite.reconciler.Run(context.Background())

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), envelope)
}
