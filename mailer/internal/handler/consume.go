package handler

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=consume.go -destination=mocks/mock.go

type Mailer interface {
	Send(ctx context.Context, subject string, recipients []string) error
}

const defaultRetryDelay = 5 * time.Second

type Consumer struct {
	mailer     Mailer
	log        *zap.Logger
	retryDelay time.Duration
}

type Option func(*Consumer)

// WithRetryDelay sets the pause before a failed delivery ends the claim.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Consumer) {
		c.retryDelay = d
	}
}

func NewConsumer(mailer Mailer, log *zap.Logger, opts ...Option) *Consumer {
	c := &Consumer{
		mailer:     mailer,
		log:        log.Named("consumer"),
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks a message once it is delivered or cannot be decoded.
// A failed delivery ends the claim without marking, so nothing after it gets
// committed and the group resumes from the failed message on the next session.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			event, err := kafka.DecodeNotificationEvent(message.Value)
			if err != nil {
				consumer.log.Error("bad notification payload", zap.Int64("offset", message.Offset), zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.mailer.Send(session.Context(), event.Subject, event.Recipients); err != nil {
				consumer.log.Error("mailer.Send", zap.Stringer("event", event.ID), zap.Int64("offset", message.Offset), zap.Error(err))
				select {
				case <-session.Context().Done():
					return nil
				case <-time.After(consumer.retryDelay):
				}
				return errors.Wrapf(err, "deliver offset %d", message.Offset)
			}

			consumer.log.Debug("Message claimed:",
				zap.Stringer("event", event.ID),
				zap.Int("recipients", len(event.Recipients)),
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
