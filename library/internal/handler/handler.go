package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/library/internal/errs"
	"github.com/Astemirdum/library-api/library/internal/model"
	md "github.com/Astemirdum/library-api/pkg/middleware"
	"github.com/Astemirdum/library-api/pkg/validate"
	_ "github.com/Astemirdum/library-api/swagger"
)

type Handler struct {
	bookSvc BookService
	loanSvc LoanService
	log     *zap.Logger
}

func New(bookSvc BookService, loanSvc LoanService, log *zap.Logger) *Handler {
	return &Handler{
		bookSvc: bookSvc,
		loanSvc: loanSvc,
		log:     log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/books", h.CreateBook)
	api.GET("/books", h.FindBooks)
	api.GET("/books/:id", h.GetBook)
	api.PUT("/books/:id", h.UpdateBook)
	api.DELETE("/books/:id", h.DeleteBook)
	api.GET("/books/:id/loans", h.BookLoans)

	api.POST("/loans", h.CreateLoan)
	api.GET("/loans", h.FindLoans)
	api.PATCH("/loans/:id", h.ReturnLoan)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) httpError(err error) error {
	switch {
	case errs.IsBusiness(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	h.log.Error("internal", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

func pageRequest(c echo.Context) (model.PageRequest, error) {
	page := model.PageRequest{Page: 0, Size: model.DefaultPageSize}
	var err error
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page.Page, err = strconv.Atoi(pageParam); err != nil || page.Page < 0 {
			return model.PageRequest{}, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if page.Size, err = strconv.Atoi(sizeParam); err != nil || page.Size <= 0 {
			return model.PageRequest{}, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	if page.Size > model.MaxPageSize {
		page.Size = model.MaxPageSize
	}
	if !page.Fits() {
		return model.PageRequest{}, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
	}
	return page, nil
}
