package sizes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrent/billboard-admin/internal/settings/shared"
)

type memoryRepo struct {
	rows       []Size
	billboards []string
}

func (r *memoryRepo) List(context.Context) ([]Size, error) {
	return append([]Size(nil), r.rows...), nil
}

func (r *memoryRepo) Create(_ context.Context, s Size) (Size, error) {
	s.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, s)
	return s, nil
}

func (r *memoryRepo) CreateMany(ctx context.Context, ss []Size) ([]Size, error) {
	var out []Size
	for _, s := range ss {
		created, _ := r.Create(ctx, s)
		out = append(out, created)
	}
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, id int64, s Size) (Size, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			s.ID = id
			r.rows[i] = s
			return s, nil
		}
	}
	return Size{}, shared.ErrNotFound
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryRepo) BillboardSizes(context.Context) ([]string, error) {
	return r.billboards, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateRequiresNameAndLevel(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil, quietLogger())

	_, err := svc.Create(context.Background(), Size{Name: "3x4"})
	require.ErrorIs(t, err, shared.ErrRequiredField)

	s, err := svc.Create(context.Background(), Size{Name: " 3x4 ", Level: " B "})
	require.NoError(t, err)
	assert.Equal(t, Size{ID: 1, Name: "3x4", Level: "B"}, s)
}

func TestSyncUsesDefaultLevel(t *testing.T) {
	repo := &memoryRepo{rows: []Size{{ID: 1, Name: "3x4", Level: "B"}}, billboards: []string{"3x4", "4x12", " 4x12", "2x1"}}
	svc := NewService(repo, nil, quietLogger())

	res, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Added, 2)
	for _, s := range res.Added {
		assert.Equal(t, DefaultLevel, s.Level)
	}
	assert.Equal(t, "4x12", res.Added[0].Name)
	assert.Equal(t, "2x1", res.Added[1].Name)
}

func TestSizeRoutes(t *testing.T) {
	repo := &memoryRepo{}
	r := chi.NewRouter()
	NewHandler(quietLogger(), NewService(repo, nil, quietLogger())).MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"3x4","level":""}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"3x4","level":"A"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/7", strings.NewReader(`{"name":"3x4","level":"A"}`)))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	repo.billboards = []string{"5x5"}
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"5x5"`)
}
