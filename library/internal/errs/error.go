package errs

import (
	"errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument: id is required")
	ErrDuplicateIsbn     = errors.New("isbn already registered")
	ErrBookAlreadyLoaned = errors.New("book already loaned")
	ErrBookNotFound      = errors.New("book not found for passed isbn")
	ErrBookHasLoans      = errors.New("book has loans")
)

// IsBusiness reports errors the caller has to resolve itself.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrDuplicateIsbn) ||
		errors.Is(err, ErrBookAlreadyLoaned) ||
		errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrBookHasLoans) ||
		errors.Is(err, ErrInvalidArgument)
}
