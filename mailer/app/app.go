package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-api/mailer/config"
	"github.com/Astemirdum/library-api/mailer/internal/handler"
	"github.com/Astemirdum/library-api/mailer/internal/mail"
	"github.com/Astemirdum/library-api/pkg/kafka"
	"github.com/Astemirdum/library-api/pkg/logger"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "mailer")

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.MailerConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumer %w", err)
	}
	h := handler.NewConsumer(mail.New(cfg.Mail, log), log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return kafka.Consume(ctx, consumer, h, log, kafka.NotificationTopic)
	})
	log.Info("mailer consuming", zap.String("topic", kafka.NotificationTopic), zap.Strings("brokers", cfg.Kafka.Addrs))

	<-ctx.Done()
	log.Debug("Graceful shutdown")

	if err := consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err := gg.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
