package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-api/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type BookRepository interface {
	ExistsByIsbn(ctx context.Context, isbn string) (bool, error)
	Create(ctx context.Context, book model.Book) (model.Book, error)
	Update(ctx context.Context, book model.Book) (model.Book, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (model.Book, error)
	GetByIsbn(ctx context.Context, isbn string) (model.Book, error)
	List(ctx context.Context, filter model.BookFilter, page model.PageRequest) (model.ListBooks, error)
}

type LoanRepository interface {
	ExistsOpenByBook(ctx context.Context, bookID int64) (bool, error)
	Create(ctx context.Context, loan model.Loan) (model.Loan, error)
	Update(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetByID(ctx context.Context, id int64) (model.Loan, error)
	List(ctx context.Context, filter model.LoanFilter, page model.PageRequest) (model.ListLoans, error)
	ListByBook(ctx context.Context, bookID int64, page model.PageRequest) (model.ListLoans, error)
	ListOverdue(ctx context.Context, before time.Time) ([]model.Loan, error)
}

const (
	booksTableName = `books`
	loansTableName = `loans`

	isbnUniqueConstraint     = `books_isbn_key`
	openLoanUniqueConstraint = `loans_open_book_uidx`
	loanBookFKConstraint     = `loans_book_id_fkey`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isViolation(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == code && pgErr.ConstraintName == constraint
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
