package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

// DirectNotifier sends immediately through sender and cannot defer
// delivery. Used when no queue is configured.
type DirectNotifier struct {
	sender Sender
	log    *zap.Logger
}

func NewDirectNotifier(sender Sender, log *zap.Logger) *DirectNotifier {
	return &DirectNotifier{sender: sender, log: log}
}

func (n *DirectNotifier) SendNow(ctx context.Context, recipient, message string) error {
	return n.sender.Send(ctx, recipient, message)
}

func (n *DirectNotifier) SendAt(_ context.Context, recipient, _ string, delay time.Duration) error {
	n.log.Warn("reminder dropped: no task queue configured",
		zap.String("to", recipient),
		zap.Duration("delay", delay),
	)
	return nil
}

var _ appt.Notifier = (*DirectNotifier)(nil)
