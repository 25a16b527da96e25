package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=sweep.go -destination=mocks/mock.go

type OverdueLoans interface {
	ListOverdue(ctx context.Context, before time.Time) ([]model.Loan, error)
}

type Notifier interface {
	Send(ctx context.Context, subject string, recipients []string) error
}

type Config struct {
	OverdueDays int
	Subject     string
	// Renotify keeps notifying a loan on every run while it stays open.
	// When false a loan is notified once per process lifetime.
	Renotify bool
}

type Result struct {
	Threshold  time.Time
	Overdue    int
	Skipped    int
	Recipients []string
	SendErr    error
}

// Sweeper finds open loans older than the threshold and hands their customer
// emails to the notifier in one batch. It never writes loans.
type Sweeper struct {
	log      *zap.Logger
	loans    OverdueLoans
	notifier Notifier
	cfg      Config
	clock    Clock

	mu       sync.Mutex
	notified map[int64]struct{}
}

func NewSweeper(loans OverdueLoans, notifier Notifier, cfg Config, clock Clock, log *zap.Logger) *Sweeper {
	return &Sweeper{
		log:      log.Named("sweep"),
		loans:    loans,
		notifier: notifier,
		cfg:      cfg,
		clock:    clock,
		notified: make(map[int64]struct{}),
	}
}

// Threshold is the last loan day that counts as overdue.
func (s *Sweeper) Threshold(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -s.cfg.OverdueDays)
}

func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	res := Result{Threshold: s.Threshold(s.clock.Now())}

	loans, err := s.loans.ListOverdue(ctx, res.Threshold)
	if err != nil {
		return res, errors.Wrap(err, "ListOverdue")
	}
	res.Overdue = len(loans)

	seen := make(map[string]struct{}, len(loans))
	ids := make([]int64, 0, len(loans))
	for _, loan := range loans {
		if loan.CustomerEmail == "" {
			s.log.Warn("overdue loan without customer email", zap.Int64("loan_id", loan.ID), zap.String("customer", loan.Customer))
			res.Skipped++
			continue
		}
		if !s.cfg.Renotify && s.wasNotified(loan.ID) {
			res.Skipped++
			continue
		}
		ids = append(ids, loan.ID)
		if _, ok := seen[loan.CustomerEmail]; ok {
			continue
		}
		seen[loan.CustomerEmail] = struct{}{}
		res.Recipients = append(res.Recipients, loan.CustomerEmail)
	}

	if len(res.Recipients) == 0 {
		s.log.Debug("nothing to notify", zap.Time("threshold", res.Threshold), zap.Int("overdue", res.Overdue))
		return res, nil
	}

	if err := s.notifier.Send(ctx, s.cfg.Subject, res.Recipients); err != nil {
		// next run selects the same loans again
		s.log.Error("notifier.Send", zap.Int("recipients", len(res.Recipients)), zap.Error(err))
		res.SendErr = err
		return res, nil
	}
	s.markNotified(ids)

	s.log.Info("overdue loans notified",
		zap.Time("threshold", res.Threshold),
		zap.Int("overdue", res.Overdue),
		zap.Int("recipients", len(res.Recipients)),
	)
	return res, nil
}

func (s *Sweeper) wasNotified(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notified[id]
	return ok
}

func (s *Sweeper) markNotified(ids []int64) {
	if s.cfg.Renotify {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.notified[id] = struct{}{}
	}
}
