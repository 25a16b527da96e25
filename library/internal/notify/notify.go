package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/pkg/circuit_breaker"
	"github.com/Astemirdum/library-api/pkg/kafka"
)

// KafkaNotifier publishes a notification batch for the mailer.
type KafkaNotifier struct {
	log      *zap.Logger
	enqueuer kafka.Enqueuer
	cb       circuit_breaker.CircuitBreaker
	topic    string
	now      func() time.Time
}

func NewKafkaNotifier(enqueuer kafka.Enqueuer, cb circuit_breaker.CircuitBreaker, log *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		log:      log.Named("notify"),
		enqueuer: enqueuer,
		cb:       cb,
		topic:    kafka.NotificationTopic,
		now:      time.Now,
	}
}

func (n *KafkaNotifier) Send(ctx context.Context, subject string, recipients []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	event := kafka.NewNotificationEvent(subject, recipients, n.now())
	if err := n.cb.Call(func() error {
		return n.enqueuer.Enqueue(n.topic, event.ID.String(), event)
	}); err != nil {
		return err
	}
	n.log.Debug("notification enqueued", zap.Stringer("id", event.ID), zap.Int("recipients", len(recipients)))
	return nil
}

// LogNotifier only logs the batch.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

func (n *LogNotifier) Send(_ context.Context, subject string, recipients []string) error {
	n.log.Info("notification", zap.String("subject", subject), zap.Strings("recipients", recipients))
	return nil
}
