package sweep

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

type Job interface {
	Sweep(ctx context.Context) (Result, error)
}

type SchedulerConfig struct {
	Interval   time.Duration
	Jitter     time.Duration
	RunOnStart bool
}

var ErrAlreadyStarted = errors.New("scheduler already started")

// Scheduler runs a Job every Interval plus a random share of Jitter.
type Scheduler struct {
	log    *zap.Logger
	job    Job
	cfg    SchedulerConfig
	clock  Clock
	jitter func(n int64) int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(job Job, cfg SchedulerConfig, clock Clock, log *zap.Logger) *Scheduler {
	return &Scheduler{
		log:    log.Named("scheduler"),
		job:    job,
		cfg:    cfg,
		clock:  clock,
		jitter: rand.Int63n,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyStarted
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
	s.log.Info("started", zap.Duration("interval", s.cfg.Interval), zap.Duration("jitter", s.cfg.Jitter))
	return nil
}

// Stop cancels the loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info("stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	if s.cfg.RunOnStart {
		s.run(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.next()):
			s.run(ctx)
		}
	}
}

func (s *Scheduler) next() time.Duration {
	d := s.cfg.Interval
	if s.cfg.Jitter > 0 {
		d += time.Duration(s.jitter(int64(s.cfg.Jitter)))
	}
	return d
}

func (s *Scheduler) run(ctx context.Context) {
	res, err := s.job.Sweep(ctx)
	if err != nil {
		s.log.Error("sweep", zap.Error(err))
		return
	}
	s.log.Debug("sweep done",
		zap.Int("overdue", res.Overdue),
		zap.Int("skipped", res.Skipped),
		zap.Int("recipients", len(res.Recipients)),
		zap.NamedError("send", res.SendErr),
	)
}
