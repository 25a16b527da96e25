package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-api/library/internal/errs"
	"github.com/Astemirdum/library-api/library/internal/model"
)

// CreateLoan
// @Summary  lend a book by isbn
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    input body model.CreateLoanRequest true "loan"
// @Success  201 {object} model.CreateLoanResponse
// @Failure  400 {object} echo.HTTPError
// @Router   /loans [post]
func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	book, ok, err := h.bookSvc.GetByIsbn(ctx, req.Isbn)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, errs.ErrBookNotFound.Error())
	}

	loan, err := h.loanSvc.Save(ctx, model.Loan{
		Customer:      req.Customer,
		CustomerEmail: req.Email,
		BookID:        book.ID,
	})
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, model.CreateLoanResponse{ID: loan.ID})
}

// ReturnLoan
// @Summary  mark a loan returned
// @Tags     loans
// @Accept   json
// @Param    id    path int                     true "loan id"
// @Param    input body model.ReturnLoanRequest true "returned flag"
// @Success  200
// @Failure  404 {object} echo.HTTPError
// @Router   /loans/{id} [patch]
func (h *Handler) ReturnLoan(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req model.ReturnLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	loan, ok, err := h.loanSvc.GetByID(ctx, id)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "loan not found")
	}
	loan.Returned = req.Returned
	if _, err := h.loanSvc.Update(ctx, loan); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

// FindLoans
// @Summary  page of loans matching isbn or customer
// @Tags     loans
// @Produce  json
// @Param    isbn     query string false "book isbn"
// @Param    customer query string false "customer"
// @Param    page     query int    false "page, zero based"
// @Param    size     query int    false "page size"
// @Success  200 {object} model.ListLoans
// @Router   /loans [get]
func (h *Handler) FindLoans(c echo.Context) error {
	var filter model.LoanFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	loans, err := h.loanSvc.Find(c.Request().Context(), filter, page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}
