package handler

import (
	"context"

	"github.com/Astemirdum/library-api/library/internal/model"
	"github.com/Astemirdum/library-api/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	Save(ctx context.Context, book model.Book) (model.Book, error)
	GetByID(ctx context.Context, id int64) (model.Book, bool, error)
	GetByIsbn(ctx context.Context, isbn string) (model.Book, bool, error)
	Update(ctx context.Context, book model.Book) (model.Book, error)
	Delete(ctx context.Context, book model.Book) error
	Find(ctx context.Context, filter model.BookFilter, page model.PageRequest) (model.ListBooks, error)
}

type LoanService interface {
	Save(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetByID(ctx context.Context, id int64) (model.Loan, bool, error)
	Update(ctx context.Context, loan model.Loan) (model.Loan, error)
	Find(ctx context.Context, filter model.LoanFilter, page model.PageRequest) (model.ListLoans, error)
	LoansByBook(ctx context.Context, bookID int64, page model.PageRequest) (model.ListLoans, error)
}

var (
	_ BookService = (*service.BookService)(nil)
	_ LoanService = (*service.LoanService)(nil)
)
