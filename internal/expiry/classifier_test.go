package expiry

import (
	"testing"
	"time"

	"freshtrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysToExpiry(t *testing.T) {
	reference := date(2025, time.June, 15)

	tests := []struct {
		name     string
		expiry   time.Time
		expected int
	}{
		{"same day", date(2025, time.June, 15), 0},
		{"tomorrow", date(2025, time.June, 16), 1},
		{"yesterday", date(2025, time.June, 14), -1},
		{"a week out", date(2025, time.June, 22), 7},
		{"across month boundary", date(2025, time.July, 1), 16},
		{"time of day is ignored", time.Date(2025, time.June, 16, 23, 59, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysToExpiry(tt.expiry, reference))
		})
	}
}

func TestClassify(t *testing.T) {
	reference := date(2025, time.June, 15)

	tests := []struct {
		name     string
		expiry   time.Time
		expected models.BatchStatus
	}{
		{"expired yesterday", date(2025, time.June, 14), models.StatusExpired},
		{"expires today", date(2025, time.June, 15), models.StatusExpiringSoon},
		{"expires in seven days", date(2025, time.June, 22), models.StatusExpiringSoon},
		{"expires in eight days", date(2025, time.June, 23), models.StatusSafe},
		{"expires far in the future", date(2026, time.June, 15), models.StatusSafe},
		{"long expired", date(2024, time.January, 1), models.StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.expiry, reference))
		})
	}
}
