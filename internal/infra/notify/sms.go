// Package notify delivers SMS messages through an asynq queue.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

const TypeSMSSend = "sms:send"

type SMSPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func NewSMSTask(to, message string) (*asynq.Task, error) {
	b, err := json.Marshal(SMSPayload{To: to, Message: message})
	if err != nil {
		return nil, errors.Wrap(err, "encode sms payload")
	}
	return asynq.NewTask(TypeSMSSend, b, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier implements appointment.Notifier by enqueuing sms:send tasks.
type QueueNotifier struct {
	queue Enqueuer
	log   *zap.Logger
}

func NewQueueNotifier(queue Enqueuer, log *zap.Logger) *QueueNotifier {
	return &QueueNotifier{queue: queue, log: log}
}

func (n *QueueNotifier) SendNow(ctx context.Context, recipient, message string) error {
	return n.enqueue(ctx, recipient, message)
}

func (n *QueueNotifier) SendAt(ctx context.Context, recipient, message string, delay time.Duration) error {
	return n.enqueue(ctx, recipient, message, asynq.ProcessIn(delay))
}

func (n *QueueNotifier) enqueue(ctx context.Context, recipient, message string, opts ...asynq.Option) error {
	task, err := NewSMSTask(recipient, message)
	if err != nil {
		return errors.Wrap(err, "build sms task")
	}
	info, err := n.queue.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return errors.Wrap(err, "enqueue sms")
	}
	n.log.Debug("sms enqueued", zap.String("task_id", info.ID), zap.String("queue", info.Queue))
	return nil
}

var _ appt.Notifier = (*QueueNotifier)(nil)

// ======================================================
// WORKER
// ======================================================

// Sender delivers one SMS.
type Sender interface {
	Send(ctx context.Context, to, message string) error
}

// LogSender stands in for a real SMS gateway and only logs the delivery.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, message string) error {
	s.log.Info("sms sent", zap.String("to", to), zap.String("message", message))
	return nil
}

// HandleSMSTask decodes an sms:send payload and hands it to sender. A bad
// payload is not retried.
func HandleSMSTask(sender Sender, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p SMSPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Error("invalid sms payload", zap.Error(err))
			return errors.Wrapf(asynq.SkipRetry, "decode sms payload: %v", err)
		}
		if p.To == "" {
			log.Warn("sms without recipient dropped")
			return nil
		}
		if err := sender.Send(ctx, p.To, p.Message); err != nil {
			log.Warn("sms delivery failed", zap.String("to", p.To), zap.Error(err))
			return err
		}
		return nil
	}
}

// NewServeMux routes every task type the worker handles.
func NewServeMux(sender Sender, log *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSMSSend, HandleSMSTask(sender, log))
	return mux
}
