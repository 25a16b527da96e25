package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-api/library/config"
	"github.com/Astemirdum/library-api/library/internal/handler"
	"github.com/Astemirdum/library-api/library/internal/notify"
	"github.com/Astemirdum/library-api/library/internal/repository"
	"github.com/Astemirdum/library-api/library/internal/server"
	"github.com/Astemirdum/library-api/library/internal/service"
	"github.com/Astemirdum/library-api/library/internal/sweep"
	"github.com/Astemirdum/library-api/library/migrations"
	"github.com/Astemirdum/library-api/pkg/circuit_breaker"
	"github.com/Astemirdum/library-api/pkg/kafka"
	"github.com/Astemirdum/library-api/pkg/logger"
	"github.com/Astemirdum/library-api/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}

	tx := postgres.NewTxManager(db)
	bookRepo := repository.NewBookRepository(db, log)
	loanRepo := repository.NewLoanRepository(db, log)
	bookSvc := service.NewBookService(bookRepo, tx, log)
	loanSvc := service.NewLoanService(loanRepo, tx, log)

	notifier, producer, err := newNotifier(cfg.Notify, cfg.Kafka, log)
	if err != nil {
		log.Fatal("notifier", zap.Error(err))
	}

	var scheduler *sweep.Scheduler
	if cfg.Sweep.Enabled {
		sweeper := sweep.NewSweeper(loanRepo, notifier, sweep.Config{
			OverdueDays: cfg.Sweep.OverdueDays,
			Subject:     cfg.Sweep.Subject,
			Renotify:    cfg.Sweep.Renotify,
		}, sweep.RealClock(), log)
		scheduler = sweep.NewScheduler(sweeper, sweep.SchedulerConfig{
			Interval:   cfg.Sweep.Interval,
			Jitter:     cfg.Sweep.Jitter,
			RunOnStart: cfg.Sweep.RunOnStart,
		}, sweep.RealClock(), log)
	}

	h := handler.New(bookSvc, loanSvc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gg, ctx := errgroup.WithContext(ctx)

	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	gg.Go(srv.Run)
	if scheduler != nil {
		if err := scheduler.Start(ctx); err != nil {
			log.Fatal("scheduler.Start", zap.Error(err))
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case <-ctx.Done():
		log.Error("server stopped unexpectedly")
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	cancel()
	if err := gg.Wait(); err != nil {
		log.Error("server run", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}

func newNotifier(cfg config.Notify, kafkaCfg kafka.Config, log *zap.Logger) (sweep.Notifier, sarama.SyncProducer, error) {
	switch cfg.Driver {
	case config.NotifyDriverKafka:
		producer, err := kafka.NewProducer(kafkaCfg)
		if err != nil {
			return nil, nil, err
		}
		cb := circuit_breaker.New(cfg.Breaker)
		return notify.NewKafkaNotifier(kafka.NewEnqueuer(producer), cb, log), producer, nil
	default:
		return notify.NewLogNotifier(log), nil, nil
	}
}
