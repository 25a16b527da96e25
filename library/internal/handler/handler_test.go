package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/library/internal/errs"
	"github.com/Astemirdum/library-api/library/internal/handler"
	"github.com/Astemirdum/library-api/library/internal/model"
	"github.com/Astemirdum/library-api/pkg/validate"

	service_mocks "github.com/Astemirdum/library-api/library/internal/handler/mocks"
)

type mocks struct {
	books *service_mocks.MockBookService
	loans *service_mocks.MockLoanService
}

type request struct {
	method, target, body string
}

type response struct {
	expectedCode int
	expectedBody string
}

type testCase struct {
	name         string
	mockBehavior func(m mocks)
	request      request
	response     response
}

func run(t *testing.T, route func(e *echo.Echo, h *handler.Handler), tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			m := mocks{
				books: service_mocks.NewMockBookService(c),
				loans: service_mocks.NewMockLoanService(c),
			}
			log := zap.NewExample().Named("test")
			h := handler.New(m.books, m.loans, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			route(e, h)

			r := httptest.NewRequest(tt.request.method, tt.request.target, strings.NewReader(tt.request.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(m)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()
	book := model.Book{Title: "As aventuras", Author: "Arthur", Isbn: "001"}
	run(t, func(e *echo.Echo, h *handler.Handler) { e.POST("/books", h.CreateBook) }, []testCase{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				saved := book
				saved.ID = 1
				m.books.EXPECT().Save(context.Background(), book).Return(saved, nil)
			},
			request: request{http.MethodPost, "/books", `{"title":"As aventuras","author":"Arthur","isbn":"001"}`},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1,"title":"As aventuras","author":"Arthur","isbn":"001"}`,
			},
		},
		{
			name: "err. duplicate isbn",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().Save(context.Background(), book).Return(model.Book{}, errs.ErrDuplicateIsbn)
			},
			request: request{http.MethodPost, "/books", `{"title":"As aventuras","author":"Arthur","isbn":"001"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"isbn already registered"}`,
			},
		},
		{
			name:         "err. isbn required",
			mockBehavior: func(m mocks) {},
			request:      request{http.MethodPost, "/books", `{"title":"As aventuras","author":"Arthur"}`},
			response:     response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "err. internal",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().Save(context.Background(), book).Return(model.Book{}, errors.New("db internal"))
			},
			request: request{http.MethodPost, "/books", `{"title":"As aventuras","author":"Arthur","isbn":"001"}`},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	})
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()
	run(t, func(e *echo.Echo, h *handler.Handler) { e.GET("/books/:id", h.GetBook) }, []testCase{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByID(context.Background(), int64(1)).
					Return(model.Book{ID: 1, Title: "As aventuras", Author: "Arthur", Isbn: "001"}, true, nil)
			},
			request: request{method: http.MethodGet, target: "/books/1"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":1,"title":"As aventuras","author":"Arthur","isbn":"001"}`,
			},
		},
		{
			name: "err. not found",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByID(context.Background(), int64(2)).Return(model.Book{}, false, nil)
			},
			request: request{method: http.MethodGet, target: "/books/2"},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"book not found"}`,
			},
		},
		{
			name:         "err. bad id",
			mockBehavior: func(m mocks) {},
			request:      request{method: http.MethodGet, target: "/books/abc"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
		},
	})
}

func TestHandler_UpdateBook(t *testing.T) {
	t.Parallel()
	stored := model.Book{ID: 1, Title: "As aventuras", Author: "Arthur", Isbn: "001"}
	changed := model.Book{ID: 1, Title: "As novas aventuras", Author: "Arthur", Isbn: "001"}
	run(t, func(e *echo.Echo, h *handler.Handler) { e.PUT("/books/:id", h.UpdateBook) }, []testCase{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByID(context.Background(), int64(1)).Return(stored, true, nil)
				m.books.EXPECT().Update(context.Background(), changed).Return(changed, nil)
			},
			request: request{http.MethodPut, "/books/1", `{"title":"As novas aventuras","author":"Arthur","isbn":"001"}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":1,"title":"As novas aventuras","author":"Arthur","isbn":"001"}`,
			},
		},
		{
			name: "err. isbn taken",
			mockBehavior: func(m mocks) {
				taken := changed
				taken.Title = stored.Title
				taken.Isbn = "002"
				m.books.EXPECT().GetByID(context.Background(), int64(1)).Return(stored, true, nil)
				m.books.EXPECT().Update(context.Background(), taken).Return(model.Book{}, errs.ErrDuplicateIsbn)
			},
			request: request{http.MethodPut, "/books/1", `{"title":"As aventuras","author":"Arthur","isbn":"002"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"isbn already registered"}`,
			},
		},
		{
			name: "err. not found",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByID(context.Background(), int64(9)).Return(model.Book{}, false, nil)
			},
			request:  request{http.MethodPut, "/books/9", `{"title":"x","author":"y","isbn":"z"}`},
			response: response{expectedCode: http.StatusNotFound},
		},
	})
}

func TestHandler_DeleteBook(t *testing.T) {
	t.Parallel()
	stored := model.Book{ID: 1, Title: "As aventuras", Author: "Arthur", Isbn: "001"}
	run(t, func(e *echo.Echo, h *handler.Handler) { e.DELETE("/books/:id", h.DeleteBook) }, []testCase{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByID(context.Background(), int64(1)).Return(stored, true, nil)
				m.books.EXPECT().Delete(context.Background(), stored).Return(nil)
			},
			request:  request{method: http.MethodDelete, target: "/books/1"},
			response: response{expectedCode: http.StatusNoContent},
		},
		{
			name: "err. book has loans",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByID(context.Background(), int64(1)).Return(stored, true, nil)
				m.books.EXPECT().Delete(context.Background(), stored).Return(errs.ErrBookHasLoans)
			},
			request: request{method: http.MethodDelete, target: "/books/1"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"book has loans"}`,
			},
		},
	})
}

func TestHandler_FindBooks(t *testing.T) {
	t.Parallel()
	run(t, func(e *echo.Echo, h *handler.Handler) { e.GET("/books", h.FindBooks) }, []testCase{
		{
			name: "ok. default page",
			mockBehavior: func(m mocks) {
				page := model.PageRequest{Page: 0, Size: model.DefaultPageSize}
				m.books.EXPECT().Find(context.Background(), model.BookFilter{Author: "arth"}, page).
					Return(model.ListBooks{
						Paging: page.Paging(1),
						Items:  []model.Book{{ID: 1, Title: "As aventuras", Author: "Arthur", Isbn: "001"}},
					}, nil)
			},
			request: request{method: http.MethodGet, target: "/books?author=arth"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":20,"totalElements":1,"items":[{"id":1,"title":"As aventuras","author":"Arthur","isbn":"001"}]}`,
			},
		},
		{
			name: "ok. size capped",
			mockBehavior: func(m mocks) {
				page := model.PageRequest{Page: 2, Size: model.MaxPageSize}
				m.books.EXPECT().Find(context.Background(), model.BookFilter{}, page).
					Return(model.ListBooks{Paging: page.Paging(0), Items: []model.Book{}}, nil)
			},
			request: request{method: http.MethodGet, target: "/books?page=2&size=500"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":2,"pageSize":100,"totalElements":0,"items":[]}`,
			},
		},
		{
			name:         "err. negative page",
			mockBehavior: func(m mocks) {},
			request:      request{method: http.MethodGet, target: "/books?page=-1"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"page is invalid"}`,
			},
		},
		{
			name:         "err. page offset overflows",
			mockBehavior: func(m mocks) {},
			request:      request{method: http.MethodGet, target: "/books?page=4611686018427387904&size=3"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"page is invalid"}`,
			},
		},
		{
			name: "ok. last page that fits",
			mockBehavior: func(m mocks) {
				page := model.PageRequest{Page: 92233720368547758, Size: model.MaxPageSize}
				m.books.EXPECT().Find(context.Background(), model.BookFilter{}, page).
					Return(model.ListBooks{Paging: page.Paging(0), Items: []model.Book{}}, nil)
			},
			request: request{method: http.MethodGet, target: "/books?page=92233720368547758&size=100"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":92233720368547758,"pageSize":100,"totalElements":0,"items":[]}`,
			},
		},
	})
}

func TestHandler_BookLoans(t *testing.T) {
	t.Parallel()
	run(t, func(e *echo.Echo, h *handler.Handler) { e.GET("/books/:id/loans", h.BookLoans) }, []testCase{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				page := model.PageRequest{Page: 0, Size: 1}
				m.books.EXPECT().GetByID(context.Background(), int64(1)).Return(model.Book{ID: 1}, true, nil)
				m.loans.EXPECT().LoansByBook(context.Background(), int64(1), page).
					Return(model.ListLoans{Paging: page.Paging(0), Items: []model.Loan{}}, nil)
			},
			request: request{method: http.MethodGet, target: "/books/1/loans?size=1"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":1,"totalElements":0,"items":[]}`,
			},
		},
		{
			name: "err. unknown book",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByID(context.Background(), int64(5)).Return(model.Book{}, false, nil)
			},
			request:  request{method: http.MethodGet, target: "/books/5/loans"},
			response: response{expectedCode: http.StatusNotFound},
		},
	})
}

func TestHandler_CreateLoan(t *testing.T) {
	t.Parallel()
	book := model.Book{ID: 3, Title: "As aventuras", Author: "Arthur", Isbn: "001"}
	run(t, func(e *echo.Echo, h *handler.Handler) { e.POST("/loans", h.CreateLoan) }, []testCase{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByIsbn(context.Background(), "001").Return(book, true, nil)
				m.loans.EXPECT().
					Save(context.Background(), model.Loan{Customer: "Fulano", CustomerEmail: "fulano@mail.com", BookID: 3}).
					Return(model.Loan{ID: 1, Customer: "Fulano", BookID: 3}, nil)
			},
			request: request{http.MethodPost, "/loans", `{"isbn":"001","customer":"Fulano","email":"fulano@mail.com"}`},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1}`,
			},
		},
		{
			name: "err. book already loaned",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByIsbn(context.Background(), "001").Return(book, true, nil)
				m.loans.EXPECT().
					Save(context.Background(), model.Loan{Customer: "Ciclano", BookID: 3}).
					Return(model.Loan{}, errs.ErrBookAlreadyLoaned)
			},
			request: request{http.MethodPost, "/loans", `{"isbn":"001","customer":"Ciclano"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"book already loaned"}`,
			},
		},
		{
			name: "err. unknown isbn",
			mockBehavior: func(m mocks) {
				m.books.EXPECT().GetByIsbn(context.Background(), "404").Return(model.Book{}, false, nil)
			},
			request: request{http.MethodPost, "/loans", `{"isbn":"404","customer":"Fulano"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"book not found for passed isbn"}`,
			},
		},
		{
			name:         "err. bad email",
			mockBehavior: func(m mocks) {},
			request:      request{http.MethodPost, "/loans", `{"isbn":"001","customer":"Fulano","email":"nope"}`},
			response:     response{expectedCode: http.StatusBadRequest},
		},
	})
}

func TestHandler_ReturnLoan(t *testing.T) {
	t.Parallel()
	loanDate := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	open := model.Loan{ID: 1, Customer: "Fulano", BookID: 3, LoanDate: loanDate}
	run(t, func(e *echo.Echo, h *handler.Handler) { e.PATCH("/loans/:id", h.ReturnLoan) }, []testCase{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().GetByID(context.Background(), int64(1)).Return(open, true, nil)
				m.loans.EXPECT().Update(context.Background(), gomock.Any()).
					DoAndReturn(func(_ context.Context, l model.Loan) (model.Loan, error) {
						if l.Returned == nil || !*l.Returned {
							return model.Loan{}, errors.New("loan not marked returned")
						}
						return l, nil
					})
			},
			request:  request{http.MethodPatch, "/loans/1", `{"returned":true}`},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "err. not found",
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().GetByID(context.Background(), int64(2)).Return(model.Loan{}, false, nil)
			},
			request: request{http.MethodPatch, "/loans/2", `{"returned":true}`},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"loan not found"}`,
			},
		},
		{
			name:         "err. returned required",
			mockBehavior: func(m mocks) {},
			request:      request{http.MethodPatch, "/loans/1", `{}`},
			response:     response{expectedCode: http.StatusBadRequest},
		},
	})
}

func TestHandler_FindLoans(t *testing.T) {
	t.Parallel()
	loanDate := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	run(t, func(e *echo.Echo, h *handler.Handler) { e.GET("/loans", h.FindLoans) }, []testCase{
		{
			name: "ok. isbn or customer",
			mockBehavior: func(m mocks) {
				page := model.PageRequest{Page: 0, Size: 10}
				m.loans.EXPECT().
					Find(context.Background(), model.LoanFilter{Isbn: "001", Customer: "Ciclano"}, page).
					Return(model.ListLoans{
						Paging: page.Paging(1),
						Items:  []model.Loan{{ID: 1, Customer: "Fulano", BookID: 3, LoanDate: loanDate}},
					}, nil)
			},
			request: request{method: http.MethodGet, target: "/loans?isbn=001&customer=Ciclano&size=10"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":10,"totalElements":1,"items":[{"id":1,"customer":"Fulano","bookId":3,"loanDate":"2024-03-10T00:00:00Z","returned":null}]}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().
					Find(context.Background(), model.LoanFilter{}, model.PageRequest{Size: model.DefaultPageSize}).
					Return(model.ListLoans{}, errors.New("db internal"))
			},
			request: request{method: http.MethodGet, target: "/loans"},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	})
}
