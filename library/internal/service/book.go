package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/library/internal/errs"
	"github.com/Astemirdum/library-api/library/internal/model"
	"github.com/Astemirdum/library-api/library/internal/repository"
)

type BookService struct {
	log  *zap.Logger
	repo repository.BookRepository
	tx   repository.Transactor
}

func NewBookService(repo repository.BookRepository, tx repository.Transactor, log *zap.Logger) *BookService {
	return &BookService{
		log:  log.Named("book_svc"),
		repo: repo,
		tx:   tx,
	}
}

// Save registers a new book. The isbn check and the insert share one transaction,
// the unique constraint on isbn catches concurrent inserts.
func (s *BookService) Save(ctx context.Context, book model.Book) (model.Book, error) {
	var saved model.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByIsbn(ctx, book.Isbn)
		if err != nil {
			return err
		}
		if exists {
			return errs.ErrDuplicateIsbn
		}
		saved, err = s.repo.Create(ctx, book)
		return err
	})
	if err != nil {
		return model.Book{}, err
	}
	s.log.Debug("book saved", zap.Int64("id", saved.ID), zap.String("isbn", saved.Isbn))
	return saved, nil
}

func (s *BookService) GetByID(ctx context.Context, id int64) (model.Book, bool, error) {
	return found(s.repo.GetByID(ctx, id))
}

func (s *BookService) GetByIsbn(ctx context.Context, isbn string) (model.Book, bool, error) {
	return found(s.repo.GetByIsbn(ctx, isbn))
}

func (s *BookService) Update(ctx context.Context, book model.Book) (model.Book, error) {
	if book.ID == 0 {
		return model.Book{}, errs.ErrInvalidArgument
	}
	return s.repo.Update(ctx, book)
}

func (s *BookService) Delete(ctx context.Context, book model.Book) error {
	if book.ID == 0 {
		return errs.ErrInvalidArgument
	}
	return s.repo.Delete(ctx, book.ID)
}

func (s *BookService) Find(ctx context.Context, filter model.BookFilter, page model.PageRequest) (model.ListBooks, error) {
	return s.repo.List(ctx, filter, page)
}

func found[T any](v T, err error) (T, bool, error) {
	var zero T
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return v, true, nil
}
