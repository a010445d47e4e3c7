package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"freshtrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, envelope *models.ExpiryEnvelope) error {
	args := m.Called(ctx, envelope)
	return args.Error(0)
}

func (m *MockDispatcher) Receive(ctx context.Context, max int64) ([]Delivery, error) {
	args := m.Called(ctx, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Delivery), args.Error(1)
}

func (m *MockDispatcher) Ack(ctx context.Context, deliveryID string) error {
	args := m.Called(ctx, deliveryID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendAlert(ctx context.Context, subject string, lines []string) error {
	args := m.Called(ctx, subject, lines)
	return args.Error(0)
}

type ConsumerTestSuite struct {
	suite.Suite
	mockDispatcher *MockDispatcher
	mockNotifier   *MockNotifier
	consumer       *Consumer
}

func (suite *ConsumerTestSuite) SetupTest() {
	suite.mockDispatcher = &MockDispatcher{}
	suite.mockNotifier = &MockNotifier{}
	suite.consumer = NewConsumer(suite.mockDispatcher, suite.mockNotifier)
}

func (suite *ConsumerTestSuite) TearDownTest() {
	suite.mockDispatcher.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestConsumerTestSuite(t *testing.T) {
	suite.Run(t, new(ConsumerTestSuite))
}

func testEnvelope() *models.ExpiryEnvelope {
	return &models.ExpiryEnvelope{
		Timestamp:    time.Now().UTC(),
		TotalUpdates: 2,
		ExpiredItems: []models.ExpiryNotice{
			{BatchID: "B-1", ProductName: "Milk", ExpiryDate: "2025-06-10", Status: models.StatusExpired, DaysToExpiry: -3},
		},
		ExpiringSoonItems: []models.ExpiryNotice{
			{BatchID: "B-2", ProductName: "Yogurt", ExpiryDate: "2025-06-18", Status: models.StatusExpiringSoon, DaysToExpiry: 5},
		},
	}
}

func (suite *ConsumerTestSuite) TestHandle_AcksAfterSuccessfulSend() {
	delivery := Delivery{ID: "1-0", Envelope: testEnvelope()}

	suite.mockNotifier.On("SendAlert", mock.Anything, mock.Anything, mock.MatchedBy(func(lines []string) bool {
		return len(lines) == 2
	})).Return(nil).Once()
	suite.mockDispatcher.On("Ack", mock.Anything, "1-0").Return(nil).Once()

	suite.consumer.handle(context.Background(), delivery)
}

func (suite *ConsumerTestSuite) TestHandle_LeavesUnackedOnSendFailure() {
	delivery := Delivery{ID: "2-0", Envelope: testEnvelope()}

	suite.mockNotifier.On("SendAlert", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel down")).Once()

	suite.consumer.handle(context.Background(), delivery)

	suite.mockDispatcher.AssertNotCalled(suite.T(), "Ack", mock.Anything, mock.Anything)
}

func (suite *ConsumerTestSuite) TestHandle_AcksMalformedDeliveries() {
	delivery := Delivery{ID: "3-0", Envelope: nil}

	suite.mockDispatcher.On("Ack", mock.Anything, "3-0").Return(nil).Once()

	suite.consumer.handle(context.Background(), delivery)

	suite.mockNotifier.AssertNotCalled(suite.T(), "SendAlert", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConsumerTestSuite) TestHandle_AcksEmptyEnvelopeWithoutAlert() {
	delivery := Delivery{ID: "4-0", Envelope: &models.ExpiryEnvelope{Timestamp: time.Now().UTC()}}

	suite.mockDispatcher.On("Ack", mock.Anything, "4-0").Return(nil).Once()

	suite.consumer.handle(context.Background(), delivery)

	suite.mockNotifier.AssertNotCalled(suite.T(), "SendAlert", mock.Anything, mock.Anything, mock.Anything)
}

func TestRenderNotice(t *testing.T) {
	tests := []struct {
		name     string
		notice   models.ExpiryNotice
		expected string
	}{
		{
			"expired",
			models.ExpiryNotice{BatchID: "B-1", ProductName: "Milk", ExpiryDate: "2025-06-10", DaysToExpiry: -3},
			"Milk (batch B-1) expired 3 day(s) ago on 2025-06-10",
		},
		{
			"expires today",
			models.ExpiryNotice{BatchID: "B-2", ProductName: "Yogurt", ExpiryDate: "2025-06-13", DaysToExpiry: 0},
			"Yogurt (batch B-2) expires today (2025-06-13)",
		},
		{
			"expiring soon",
			models.ExpiryNotice{BatchID: "B-3", ProductName: "Cheese", ExpiryDate: "2025-06-18", DaysToExpiry: 5},
			"Cheese (batch B-3) expires in 5 day(s) on 2025-06-18",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderNotice(tt.notice))
		})
	}
}
