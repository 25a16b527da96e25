package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/library/internal/errs"
	"github.com/Astemirdum/library-api/library/internal/model"
	"github.com/Astemirdum/library-api/library/internal/service"

	repo_mocks "github.com/Astemirdum/library-api/library/internal/repository/mocks"
)

func passThroughTx(c *gomock.Controller) *repo_mocks.MockTransactor {
	tx := repo_mocks.NewMockTransactor(c)
	tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
	return tx
}

func TestBookService_Save(t *testing.T) {
	t.Parallel()
	book := model.Book{Title: "As aventuras", Author: "Arthur", Isbn: "001"}

	type mockBehavior func(r *repo_mocks.MockBookRepository)

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		want         model.Book
		wantErr      error
	}{
		{
			name: "ok",
			mockBehavior: func(r *repo_mocks.MockBookRepository) {
				r.EXPECT().ExistsByIsbn(gomock.Any(), "001").Return(false, nil)
				saved := book
				saved.ID = 1
				r.EXPECT().Create(gomock.Any(), book).Return(saved, nil)
			},
			want: model.Book{ID: 1, Title: "As aventuras", Author: "Arthur", Isbn: "001"},
		},
		{
			name: "err. duplicate isbn",
			mockBehavior: func(r *repo_mocks.MockBookRepository) {
				r.EXPECT().ExistsByIsbn(gomock.Any(), "001").Return(true, nil)
			},
			wantErr: errs.ErrDuplicateIsbn,
		},
		{
			name: "err. concurrent insert hits the constraint",
			mockBehavior: func(r *repo_mocks.MockBookRepository) {
				r.EXPECT().ExistsByIsbn(gomock.Any(), "001").Return(false, nil)
				r.EXPECT().Create(gomock.Any(), book).Return(model.Book{}, errs.ErrDuplicateIsbn)
			},
			wantErr: errs.ErrDuplicateIsbn,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			repo := repo_mocks.NewMockBookRepository(c)
			tt.mockBehavior(repo)

			svc := service.NewBookService(repo, passThroughTx(c), zap.NewNop())
			got, err := svc.Save(context.Background(), book)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, model.Book{}, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBookService_SaveSameIsbnTwice(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockBookRepository(c)
	gomock.InOrder(
		repo.EXPECT().ExistsByIsbn(gomock.Any(), "001").Return(false, nil),
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Book) (model.Book, error) {
				b.ID = 1
				return b, nil
			}),
		repo.EXPECT().ExistsByIsbn(gomock.Any(), "001").Return(true, nil),
	)
	svc := service.NewBookService(repo, passThroughTx(c), zap.NewNop())

	first, err := svc.Save(context.Background(), model.Book{Title: "As aventuras", Author: "Arthur", Isbn: "001"})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	_, err = svc.Save(context.Background(), model.Book{Title: "Outro titulo", Author: "Arthur", Isbn: "001"})
	require.ErrorIs(t, err, errs.ErrDuplicateIsbn)
}

func TestBookService_Get(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockBookRepository(c)
	svc := service.NewBookService(repo, passThroughTx(c), zap.NewNop())
	book := model.Book{ID: 7, Title: "As aventuras", Author: "Arthur", Isbn: "001"}

	repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(book, nil)
	got, ok, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, book, got)

	repo.EXPECT().GetByIsbn(gomock.Any(), "404").Return(model.Book{}, errs.ErrNotFound)
	_, ok, err = svc.GetByIsbn(context.Background(), "404")
	require.NoError(t, err)
	require.False(t, ok)

	repo.EXPECT().GetByID(gomock.Any(), int64(8)).Return(model.Book{}, errors.New("conn reset"))
	_, ok, err = svc.GetByID(context.Background(), 8)
	require.EqualError(t, err, "conn reset")
	require.False(t, ok)
}

func TestBookService_UpdateDeleteWithoutID(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	// no expectations: the store must not be touched
	repo := repo_mocks.NewMockBookRepository(c)
	svc := service.NewBookService(repo, repo_mocks.NewMockTransactor(c), zap.NewNop())

	_, err := svc.Update(context.Background(), model.Book{Title: "t", Isbn: "001"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	err = svc.Delete(context.Background(), model.Book{Isbn: "001"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestBookService_UpdateDelete(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockBookRepository(c)
	svc := service.NewBookService(repo, passThroughTx(c), zap.NewNop())
	book := model.Book{ID: 3, Title: "Novo", Author: "Arthur", Isbn: "003"}

	repo.EXPECT().Update(gomock.Any(), book).Return(book, nil)
	got, err := svc.Update(context.Background(), book)
	require.NoError(t, err)
	require.Equal(t, book, got)

	repo.EXPECT().Delete(gomock.Any(), int64(3)).Return(errs.ErrBookHasLoans)
	require.ErrorIs(t, svc.Delete(context.Background(), book), errs.ErrBookHasLoans)
}

func TestBookService_Find(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockBookRepository(c)
	svc := service.NewBookService(repo, passThroughTx(c), zap.NewNop())

	filter := model.BookFilter{Author: "Arth"}
	page := model.PageRequest{Page: 1, Size: 2}
	want := model.ListBooks{
		Paging: model.Paging{Page: 1, PageSize: 2, TotalElements: 3},
		Items:  []model.Book{{ID: 3, Title: "C", Author: "Arthur", Isbn: "003"}},
	}
	repo.EXPECT().List(gomock.Any(), filter, page).Return(want, nil)

	got, err := svc.Find(context.Background(), filter, page)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
