package repository

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/library-api/library/internal/model"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// bookFilterCond ANDs a case-insensitive containment check for every non-empty field.
func bookFilterCond(f model.BookFilter) sq.And {
	cond := sq.And{}
	if f.Title != "" {
		cond = append(cond, sq.ILike{"title": containsPattern(f.Title)})
	}
	if f.Author != "" {
		cond = append(cond, sq.ILike{"author": containsPattern(f.Author)})
	}
	if f.Isbn != "" {
		cond = append(cond, sq.ILike{"isbn": containsPattern(f.Isbn)})
	}
	return cond
}

// loanFilterCond ORs exact matches on book isbn and customer.
func loanFilterCond(f model.LoanFilter) sq.Or {
	cond := sq.Or{}
	if f.Isbn != "" {
		cond = append(cond, sq.Eq{"b.isbn": f.Isbn})
	}
	if f.Customer != "" {
		cond = append(cond, sq.Eq{"l.customer": f.Customer})
	}
	return cond
}

func openLoanCond() sq.Sqlizer {
	return sq.Expr("l.returned is not true")
}
