package model

import (
	"math"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

// PageRequest is zero based.
type PageRequest struct {
	Page int
	Size int
}

// Fits reports whether the page offset is representable as a bigint.
func (p PageRequest) Fits() bool {
	return p.Page >= 0 && p.Size > 0 && int64(p.Page) <= math.MaxInt64/int64(p.Size)
}

// Offset saturates at math.MaxInt64 for pages that do not fit.
func (p PageRequest) Offset() uint64 {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if !p.Fits() {
		return math.MaxInt64
	}
	return uint64(int64(p.Page) * int64(p.Size))
}

func (p PageRequest) Paging(total int) Paging {
	return Paging{
		Page:          p.Page,
		PageSize:      p.Size,
		TotalElements: total,
	}
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListLoans struct {
	Paging `json:",inline"`
	Items  []Loan `json:"items"`
}

type Book struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
	Isbn   string `json:"isbn" db:"isbn"`
}

// BookFilter matches books whose fields contain every non-empty value, ignoring case.
type BookFilter struct {
	Title  string `query:"title"`
	Author string `query:"author"`
	Isbn   string `query:"isbn"`
}

type Loan struct {
	ID            int64     `json:"id"`
	Customer      string    `json:"customer"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	BookID        int64     `json:"bookId"`
	Book          *Book     `json:"book,omitempty"`
	LoanDate      time.Time `json:"loanDate"`
	Returned      *bool     `json:"returned"`
}

// IsOpen reports whether the book is still lent out. Unset and false are the same state.
func (l Loan) IsOpen() bool {
	return l.Returned == nil || !*l.Returned
}

// LoanFilter matches loans by book isbn or customer name. Empty fields are ignored,
// an empty filter matches every loan.
type LoanFilter struct {
	Isbn     string `query:"isbn"`
	Customer string `query:"customer"`
}

type CreateBookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	Isbn   string `json:"isbn" validate:"required"`
}

type UpdateBookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	Isbn   string `json:"isbn" validate:"required"`
}

type CreateLoanRequest struct {
	Isbn     string `json:"isbn" validate:"required"`
	Customer string `json:"customer" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type CreateLoanResponse struct {
	ID int64 `json:"id"`
}

type ReturnLoanRequest struct {
	Returned *bool `json:"returned" validate:"required"`
}
