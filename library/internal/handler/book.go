package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-api/library/internal/model"
)

// CreateBook
// @Summary  register a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    input body model.CreateBookRequest true "book"
// @Success  201 {object} model.Book
// @Failure  400 {object} echo.HTTPError
// @Router   /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.bookSvc.Save(c.Request().Context(), model.Book{
		Title:  req.Title,
		Author: req.Author,
		Isbn:   req.Isbn,
	})
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// GetBook
// @Summary  book details
// @Tags     books
// @Produce  json
// @Param    id path int true "book id"
// @Success  200 {object} model.Book
// @Failure  404 {object} echo.HTTPError
// @Router   /books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	book, ok, err := h.bookSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	}
	return c.JSON(http.StatusOK, book)
}

// UpdateBook
// @Summary  replace title, author and isbn of a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    id    path int                     true "book id"
// @Param    input body model.UpdateBookRequest true "book"
// @Success  200 {object} model.Book
// @Failure  400 {object} echo.HTTPError
// @Failure  404 {object} echo.HTTPError
// @Router   /books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	book, ok, err := h.bookSvc.GetByID(ctx, id)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	}
	book.Title = req.Title
	book.Author = req.Author
	book.Isbn = req.Isbn

	book, err = h.bookSvc.Update(ctx, book)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook
// @Summary  delete a book
// @Tags     books
// @Param    id path int true "book id"
// @Success  204
// @Failure  400 {object} echo.HTTPError
// @Failure  404 {object} echo.HTTPError
// @Router   /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	book, ok, err := h.bookSvc.GetByID(ctx, id)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err := h.bookSvc.Delete(ctx, book); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FindBooks
// @Summary  page of books, title/author/isbn match partially
// @Tags     books
// @Produce  json
// @Param    title  query string false "title"
// @Param    author query string false "author"
// @Param    isbn   query string false "isbn"
// @Param    page   query int    false "page, zero based"
// @Param    size   query int    false "page size"
// @Success  200 {object} model.ListBooks
// @Router   /books [get]
func (h *Handler) FindBooks(c echo.Context) error {
	var filter model.BookFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	books, err := h.bookSvc.Find(c.Request().Context(), filter, page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// BookLoans
// @Summary  page of loans of a book
// @Tags     books
// @Produce  json
// @Param    id   path  int true  "book id"
// @Param    page query int false "page, zero based"
// @Param    size query int false "page size"
// @Success  200 {object} model.ListLoans
// @Failure  404 {object} echo.HTTPError
// @Router   /books/{id}/loans [get]
func (h *Handler) BookLoans(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	_, ok, err := h.bookSvc.GetByID(ctx, id)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	}
	loans, err := h.loanSvc.LoansByBook(ctx, id, page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}
