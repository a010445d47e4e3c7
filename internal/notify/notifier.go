package notify

import (
	"context"
	"log"
)

// Notifier delivers a rendered expiry alert to its final audience.
type Notifier interface {
	SendAlert(ctx context.Context, subject string, lines []string) error
}

// logNotifier writes alerts to the process log. It stands in for an
// outbound channel (email, chat webhook) until one is configured.
type logNotifier struct{}

func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) SendAlert(_ context.Context, subject string, lines []string) error {
	log.Printf("ALERT: %s", subject)
	for _, line := range lines {
		log.Printf("  %s", line)
	}
	return nil
}
