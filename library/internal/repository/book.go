package repository

import (
	"context"

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

type bookRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewBookRepository(db *pgxpool.Pool, log *zap.Logger) *bookRepository {
	return &bookRepository{
		db:  db,
		log: log.Named("book_repo"),
	}
}

var bookColumns = []string{"id", "title", "author", "isbn"}

func existsIsbnQuery(isbn string) sq.SelectBuilder {
	return qb.Select("1").
		Prefix("select exists (").
		From(booksTableName).
		Where(sq.Eq{"isbn": isbn}).
		Suffix(")")
}

// listBooksQuery returns the total count query and the page query for the same filter.
func listBooksQuery(filter model.BookFilter, page model.PageRequest) (countQ, q sq.SelectBuilder) {
	cond := bookFilterCond(filter)
	countQ = qb.Select("count(*)").From(booksTableName)
	q = qb.Select(bookColumns...).From(booksTableName)
	if len(cond) > 0 {
		countQ = countQ.Where(cond)
		q = q.Where(cond)
	}
	q = q.OrderBy("id").
		Limit(uint64(page.Size)).
		Offset(page.Offset())
	return countQ, q
}

// bookWriteErr maps constraint violations hit by book writes to business errors.
func bookWriteErr(err error) error {
	switch {
	case isViolation(err, pgerrcode.UniqueViolation, isbnUniqueConstraint):
		return errs.ErrDuplicateIsbn
	case isViolation(err, pgerrcode.ForeignKeyViolation, loanBookFKConstraint):
		return errs.ErrBookHasLoans
	}
	return nil
}

func (r *bookRepository) conn(ctx context.Context) postgres.Querier {
	return postgres.Conn(ctx, r.db)
}

func (r *bookRepository) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	query, args, err := existsIsbnQuery(isbn).ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "ExistsByIsbn")
	}
	return exists, nil
}

func (r *bookRepository) Create(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn").
		Values(book.Title, book.Author, book.Isbn).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&book.ID); err != nil {
		if bizErr := bookWriteErr(err); bizErr != nil {
			return model.Book{}, bizErr
		}
		r.log.Error("Create", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Book{}, errors.Wrap(err, "Create")
	}
	return book, nil
}

func (r *bookRepository) Update(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("title", book.Title).
		Set("author", book.Author).
		Set("isbn", book.Isbn).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		if bizErr := bookWriteErr(err); bizErr != nil {
			return model.Book{}, bizErr
		}
		return model.Book{}, errors.Wrap(err, "Update")
	}
	if tag.RowsAffected() == 0 {
		return model.Book{}, errs.ErrNotFound
	}
	return book, nil
}

// Delete is a no-op for unknown ids.
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		if bizErr := bookWriteErr(err); bizErr != nil {
			return bizErr
		}
		return errors.Wrap(err, "Delete")
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (model.Book, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *bookRepository) GetByIsbn(ctx context.Context, isbn string) (model.Book, error) {
	return r.getOne(ctx, sq.Eq{"isbn": isbn})
}

func (r *bookRepository) getOne(ctx context.Context, where sq.Sqlizer) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) List(ctx context.Context, filter model.BookFilter, page model.PageRequest) (model.ListBooks, error) {
	countQ, q := listBooksQuery(filter, page)

	total, err := count(ctx, r.conn(ctx), countQ)
	if err != nil {
		return model.ListBooks{}, err
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("List", zap.String("query", query), zap.Any("args", args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return model.ListBooks{}, err
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return model.ListBooks{}, errors.Wrap(err, "pgx.CollectRows")
	}

	return model.ListBooks{
		Paging: page.Paging(total),
		Items:  books,
	}, nil
}

func count(ctx context.Context, db postgres.Querier, q sq.SelectBuilder) (int, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return total, nil
}
