package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-api/library/internal/errs"
	"github.com/Astemirdum/library-api/library/internal/model"
)

const loanSelect = "SELECT l.id, l.customer, coalesce(l.customer_email, ''), l.book_id, l.loan_date, l.returned, " +
	"b.id, b.title, b.author, b.isbn FROM loans l JOIN books b on b.id = l.book_id"

func Test_overdueQuery(t *testing.T) {
	before := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)
	query, args, err := overdueQuery(before).ToSql()
	require.NoError(t, err)
	require.Equal(t, loanSelect+" WHERE l.loan_date <= $1 AND l.returned is not true ORDER BY l.id", query)
	require.Equal(t, []interface{}{"2024-03-10"}, args)
}

func Test_listLoansQuery(t *testing.T) {
	page := model.PageRequest{Page: 2, Size: 10}
	countQ, q := listLoansQuery(loanFilterCond(model.LoanFilter{Isbn: "123", Customer: "Fulano"}), page)

	query, args, err := q.ToSql()
	require.NoError(t, err)
	require.Equal(t, loanSelect+" WHERE (b.isbn = $1 OR l.customer = $2) ORDER BY l.id LIMIT 10 OFFSET 20", query)
	require.Equal(t, []interface{}{"123", "Fulano"}, args)

	query, args, err = countQ.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT count(*) FROM loans l JOIN books b on b.id = l.book_id WHERE (b.isbn = $1 OR l.customer = $2)", query)
	require.Equal(t, []interface{}{"123", "Fulano"}, args)

	countQ, q = listLoansQuery(nil, model.PageRequest{Size: 5})
	query, args, err = q.ToSql()
	require.NoError(t, err)
	require.Equal(t, loanSelect+" ORDER BY l.id LIMIT 5 OFFSET 0", query)
	require.Empty(t, args)
	query, _, err = countQ.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT count(*) FROM loans l JOIN books b on b.id = l.book_id", query)
}

func Test_loanWriteQueries(t *testing.T) {
	query, args, err := existsOpenLoanQuery(7).ToSql()
	require.NoError(t, err)
	require.Equal(t, "select exists ( SELECT 1 FROM loans l WHERE l.book_id = $1 AND l.returned is not true )", query)
	require.Equal(t, []interface{}{int64(7)}, args)

	loan := model.Loan{
		Customer: "Fulano",
		BookID:   7,
		LoanDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	query, args, err = insertLoanQuery(loan).ToSql()
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO loans (customer,customer_email,book_id,loan_date,returned) VALUES ($1,$2,$3,$4,$5) returning id", query)
	require.Equal(t, []interface{}{"Fulano", nil, int64(7), "2024-03-14", (*bool)(nil)}, args)

	returned := true
	loan.ID = 3
	loan.CustomerEmail = "fulano@mail.com"
	loan.Returned = &returned
	query, args, err = updateLoanQuery(loan).ToSql()
	require.NoError(t, err)
	require.Equal(t, "UPDATE loans SET customer = $1, customer_email = $2, returned = $3 WHERE id = $4", query)
	require.Equal(t, []interface{}{"Fulano", "fulano@mail.com", &returned, int64(3)}, args)
}

func Test_bookQueries(t *testing.T) {
	query, args, err := existsIsbnQuery("001").ToSql()
	require.NoError(t, err)
	require.Equal(t, "select exists ( SELECT 1 FROM books WHERE isbn = $1 )", query)
	require.Equal(t, []interface{}{"001"}, args)

	countQ, q := listBooksQuery(model.BookFilter{Author: "arth"}, model.PageRequest{Page: 1, Size: 2})
	query, args, err = q.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT id, title, author, isbn FROM books WHERE (author ILIKE $1) ORDER BY id LIMIT 2 OFFSET 2", query)
	require.Equal(t, []interface{}{"%arth%"}, args)
	query, _, err = countQ.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT count(*) FROM books WHERE (author ILIKE $1)", query)

	countQ, _ = listBooksQuery(model.BookFilter{}, model.PageRequest{Size: 2})
	query, _, err = countQ.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT count(*) FROM books", query)
}

func pgError(code, constraint string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

func Test_writeErrMapping(t *testing.T) {
	tests := []struct {
		name     string
		mapper   func(error) error
		err      error
		expected error
	}{
		{"loan. second open loan", loanWriteErr, pgError(pgerrcode.UniqueViolation, openLoanUniqueConstraint), errs.ErrBookAlreadyLoaned},
		{"loan. unknown book", loanWriteErr, pgError(pgerrcode.ForeignKeyViolation, loanBookFKConstraint), errs.ErrBookNotFound},
		{"loan. other constraint", loanWriteErr, pgError(pgerrcode.UniqueViolation, isbnUniqueConstraint), nil},
		{"loan. not a pg error", loanWriteErr, errors.New("conn reset"), nil},
		{"book. isbn taken", bookWriteErr, pgError(pgerrcode.UniqueViolation, isbnUniqueConstraint), errs.ErrDuplicateIsbn},
		{"book. has loans", bookWriteErr, pgError(pgerrcode.ForeignKeyViolation, loanBookFKConstraint), errs.ErrBookHasLoans},
		{"book. check violation", bookWriteErr, pgError(pgerrcode.CheckViolation, isbnUniqueConstraint), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.mapper(tt.err))
		})
	}
}
