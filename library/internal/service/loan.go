package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/library/internal/errs"
	"github.com/Astemirdum/library-api/library/internal/model"
	"github.com/Astemirdum/library-api/library/internal/repository"
)

type LoanService struct {
	log  *zap.Logger
	repo repository.LoanRepository
	tx   repository.Transactor
	now  func() time.Time
}

func NewLoanService(repo repository.LoanRepository, tx repository.Transactor, log *zap.Logger) *LoanService {
	return &LoanService{
		log:  log.Named("loan_svc"),
		repo: repo,
		tx:   tx,
		now:  time.Now,
	}
}

// Save lends a book. It fails with errs.ErrBookAlreadyLoaned while another loan
// of the same book is open. The loan date is the current day.
func (s *LoanService) Save(ctx context.Context, loan model.Loan) (model.Loan, error) {
	loan.LoanDate = day(s.now())

	var saved model.Loan
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		loaned, err := s.repo.ExistsOpenByBook(ctx, loan.BookID)
		if err != nil {
			return err
		}
		if loaned {
			return errs.ErrBookAlreadyLoaned
		}
		saved, err = s.repo.Create(ctx, loan)
		return err
	})
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Debug("loan saved", zap.Int64("id", saved.ID), zap.Int64("book_id", saved.BookID))
	return saved, nil
}

func (s *LoanService) GetByID(ctx context.Context, id int64) (model.Loan, bool, error) {
	return found(s.repo.GetByID(ctx, id))
}

// Update persists the loan as given. Returning a loan only closes it, so the
// open loan check is not repeated here.
func (s *LoanService) Update(ctx context.Context, loan model.Loan) (model.Loan, error) {
	if loan.ID == 0 {
		return model.Loan{}, errs.ErrInvalidArgument
	}
	return s.repo.Update(ctx, loan)
}

func (s *LoanService) Find(ctx context.Context, filter model.LoanFilter, page model.PageRequest) (model.ListLoans, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *LoanService) LoansByBook(ctx context.Context, bookID int64, page model.PageRequest) (model.ListLoans, error) {
	return s.repo.ListByBook(ctx, bookID, page)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
