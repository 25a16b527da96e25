package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/library/internal/errs"
	"github.com/Astemirdum/library-api/library/internal/model"
	"github.com/Astemirdum/library-api/pkg/postgres"
)

type loanRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewLoanRepository(db *pgxpool.Pool, log *zap.Logger) *loanRepository {
	return &loanRepository{
		db:  db,
		log: log.Named("loan_repo"),
	}
}

var loanColumns = []string{
	"l.id", "l.customer", "coalesce(l.customer_email, '')", "l.book_id", "l.loan_date", "l.returned",
	"b.id", "b.title", "b.author", "b.isbn",
}

func (r *loanRepository) conn(ctx context.Context) postgres.Querier {
	return postgres.Conn(ctx, r.db)
}

// selectLoans joins the book for display only.
func selectLoans(columns ...string) sq.SelectBuilder {
	return qb.Select(columns...).
		From(loansTableName + " l").
		Join(fmt.Sprintf("%s b on b.id = l.book_id", booksTableName))
}

func scanLoan(row pgx.CollectableRow) (model.Loan, error) {
	var (
		loan model.Loan
		book model.Book
	)
	err := row.Scan(
		&loan.ID, &loan.Customer, &loan.CustomerEmail, &loan.BookID, &loan.LoanDate, &loan.Returned,
		&book.ID, &book.Title, &book.Author, &book.Isbn,
	)
	if err != nil {
		return model.Loan{}, err
	}
	loan.Book = &book
	return loan, nil
}

func existsOpenLoanQuery(bookID int64) sq.SelectBuilder {
	return qb.Select("1").
		Prefix("select exists (").
		From(loansTableName + " l").
		Where(sq.Eq{"l.book_id": bookID}).
		Where(openLoanCond()).
		Suffix(")")
}

func insertLoanQuery(loan model.Loan) sq.InsertBuilder {
	return qb.Insert(loansTableName).
		Columns("customer", "customer_email", "book_id", "loan_date", "returned").
		Values(loan.Customer, nullString(loan.CustomerEmail), loan.BookID, loan.LoanDate.Format(time.DateOnly), loan.Returned).
		Suffix("returning id")
}

// updateLoanQuery writes the mutable part of a loan. Book and loan date never change.
func updateLoanQuery(loan model.Loan) sq.UpdateBuilder {
	return qb.Update(loansTableName).
		Set("customer", loan.Customer).
		Set("customer_email", nullString(loan.CustomerEmail)).
		Set("returned", loan.Returned).
		Where(sq.Eq{"id": loan.ID})
}

// listLoansQuery returns the total count query and the page query for the same predicate.
func listLoansQuery(where sq.Sqlizer, page model.PageRequest) (countQ, q sq.SelectBuilder) {
	countQ = selectLoans("count(*)")
	q = selectLoans(loanColumns...)
	if where != nil {
		countQ = countQ.Where(where)
		q = q.Where(where)
	}
	q = q.OrderBy("l.id").
		Limit(uint64(page.Size)).
		Offset(page.Offset())
	return countQ, q
}

// overdueQuery selects open loans made on or before the given day.
func overdueQuery(before time.Time) sq.SelectBuilder {
	return selectLoans(loanColumns...).
		Where(sq.LtOrEq{"l.loan_date": before.Format(time.DateOnly)}).
		Where(openLoanCond()).
		OrderBy("l.id")
}

// loanWriteErr maps constraint violations of the loans table to business errors.
func loanWriteErr(err error) error {
	switch {
	case isViolation(err, pgerrcode.UniqueViolation, openLoanUniqueConstraint):
		return errs.ErrBookAlreadyLoaned
	case isViolation(err, pgerrcode.ForeignKeyViolation, loanBookFKConstraint):
		return errs.ErrBookNotFound
	}
	return nil
}

func (r *loanRepository) ExistsOpenByBook(ctx context.Context, bookID int64) (bool, error) {
	query, args, err := existsOpenLoanQuery(bookID).ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "ExistsOpenByBook")
	}
	return exists, nil
}

func (r *loanRepository) Create(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := insertLoanQuery(loan).ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&loan.ID); err != nil {
		if bizErr := loanWriteErr(err); bizErr != nil {
			return model.Loan{}, bizErr
		}
		r.log.Error("Create", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Loan{}, errors.Wrap(err, "Create")
	}
	return loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := updateLoanQuery(loan).ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		if bizErr := loanWriteErr(err); bizErr != nil {
			return model.Loan{}, bizErr
		}
		return model.Loan{}, errors.Wrap(err, "Update")
	}
	if tag.RowsAffected() == 0 {
		return model.Loan{}, errs.ErrNotFound
	}
	return loan, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (model.Loan, error) {
	query, args, err := selectLoans(loanColumns...).
		Where(sq.Eq{"l.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, err
	}
	defer rows.Close()

	loan, err := pgx.CollectOneRow(rows, scanLoan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *loanRepository) List(ctx context.Context, filter model.LoanFilter, page model.PageRequest) (model.ListLoans, error) {
	var where sq.Sqlizer
	if cond := loanFilterCond(filter); len(cond) > 0 {
		where = cond
	}
	return r.list(ctx, where, page)
}

func (r *loanRepository) ListByBook(ctx context.Context, bookID int64, page model.PageRequest) (model.ListLoans, error) {
	return r.list(ctx, sq.Eq{"l.book_id": bookID}, page)
}

func (r *loanRepository) list(ctx context.Context, where sq.Sqlizer, page model.PageRequest) (model.ListLoans, error) {
	countQ, q := listLoansQuery(where, page)

	total, err := count(ctx, r.conn(ctx), countQ)
	if err != nil {
		return model.ListLoans{}, err
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListLoans{}, err
	}
	r.log.Debug("List", zap.String("query", query), zap.Any("args", args))

	loans, err := r.collect(ctx, query, args)
	if err != nil {
		return model.ListLoans{}, err
	}
	return model.ListLoans{
		Paging: page.Paging(total),
		Items:  loans,
	}, nil
}

func (r *loanRepository) ListOverdue(ctx context.Context, before time.Time) ([]model.Loan, error) {
	query, args, err := overdueQuery(before).ToSql()
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, query, args)
}

func (r *loanRepository) collect(ctx context.Context, query string, args []any) ([]model.Loan, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans, err := pgx.CollectRows(rows, scanLoan)
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return loans, nil
}
