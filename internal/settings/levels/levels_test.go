package levels

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settingsShared "github.com/adrent/billboard-admin/internal/settings/shared"
	"github.com/adrent/billboard-admin/internal/shared"
)

// memoryRepo keeps levels, sizes and pricing rows so cascades can be observed.
type memoryRepo struct {
	levels     []Level
	sizes      map[string]string
	pricing    []string
	categories []string
	writeErr   error
}

func newMemoryRepo(names ...string) *memoryRepo {
	r := &memoryRepo{sizes: map[string]string{}}
	for i, n := range names {
		r.levels = append(r.levels, Level{ID: int64(i + 1), Name: n})
	}
	return r
}

func (r *memoryRepo) List(context.Context) ([]Level, error) {
	return append([]Level(nil), r.levels...), nil
}

func (r *memoryRepo) Create(_ context.Context, name string) (Level, error) {
	if r.writeErr != nil {
		return Level{}, r.writeErr
	}
	l := Level{ID: int64(len(r.levels) + 1), Name: name}
	r.levels = append(r.levels, l)
	return l, nil
}

func (r *memoryRepo) Rename(_ context.Context, level Level, name string) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	for i := range r.levels {
		if r.levels[i].ID == level.ID {
			r.levels[i].Name = name
		}
	}
	for size, lvl := range r.sizes {
		if lvl == level.Name {
			r.sizes[size] = name
		}
	}
	for i, p := range r.pricing {
		if p == level.Name {
			r.pricing[i] = name
		}
	}
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, level Level) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	keep := r.pricing[:0]
	for _, p := range r.pricing {
		if p != level.Name {
			keep = append(keep, p)
		}
	}
	r.pricing = keep
	for size, lvl := range r.sizes {
		if lvl == level.Name {
			delete(r.sizes, size)
		}
	}
	cats := r.categories[:0]
	for _, c := range r.categories {
		if c != level.Name {
			cats = append(cats, c)
		}
	}
	r.categories = cats
	for i := range r.levels {
		if r.levels[i].ID == level.ID {
			r.levels = append(r.levels[:i], r.levels[i+1:]...)
			return nil
		}
	}
	return settingsShared.ErrNotFound
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("  b ")
	require.NoError(t, err)
	assert.Equal(t, "B", name)

	_, err = NormalizeName("   ")
	require.ErrorIs(t, err, settingsShared.ErrRequiredField)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	svc := newTestService(newMemoryRepo("A"))

	_, err := svc.Create(context.Background(), " a ")
	require.ErrorIs(t, err, settingsShared.ErrDuplicate)

	l, err := svc.Create(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, "C", l.Name)
}

func TestRenameCascades(t *testing.T) {
	repo := newMemoryRepo("A", "B")
	repo.sizes["3x4"] = "A"
	repo.sizes["4x12"] = "B"
	repo.pricing = []string{"A", "B", "A"}
	svc := newTestService(repo)

	_, err := svc.Rename(context.Background(), Level{ID: 1, Name: "A"}, "b")
	require.ErrorIs(t, err, settingsShared.ErrDuplicate)

	renamed, err := svc.Rename(context.Background(), Level{ID: 1, Name: "A"}, "a")
	require.NoError(t, err, "renaming to its own name is allowed")
	assert.Equal(t, "A", renamed.Name)

	renamed, err = svc.Rename(context.Background(), Level{ID: 1, Name: "A"}, "s")
	require.NoError(t, err)
	assert.Equal(t, "S", renamed.Name)
	assert.Equal(t, "S", repo.sizes["3x4"])
	assert.Equal(t, "B", repo.sizes["4x12"])
	assert.Equal(t, []string{"S", "B", "S"}, repo.pricing)
}

func TestDeleteCascades(t *testing.T) {
	repo := newMemoryRepo("A", "B")
	repo.sizes["3x4"] = "A"
	repo.sizes["4x12"] = "B"
	repo.pricing = []string{"A", "B"}
	repo.categories = []string{"A"}
	svc := newTestService(repo)

	require.NoError(t, svc.Delete(context.Background(), Level{ID: 1, Name: "A"}))
	assert.Equal(t, []Level{{ID: 2, Name: "B"}}, repo.levels)
	assert.Equal(t, map[string]string{"4x12": "B"}, repo.sizes)
	assert.Equal(t, []string{"B"}, repo.pricing)
	assert.Empty(t, repo.categories)
}

func TestControllerDialogLifecycle(t *testing.T) {
	repo := newMemoryRepo("A")
	screen := shared.NewScreen(context.Background())
	defer screen.Teardown()
	ctrl := NewController(screen, newTestService(repo))

	_, err := ctrl.SubmitAdd("B")
	require.ErrorIs(t, err, ErrDialogNotOpen)

	ctrl.OpenAdd()
	out, err := ctrl.SubmitAdd("  ")
	require.ErrorIs(t, err, settingsShared.ErrRequiredField)
	assert.Equal(t, "adding_level", out.Dialog)
	assert.Len(t, repo.levels, 1)

	repo.writeErr = errors.New("boom")
	_, err = ctrl.SubmitAdd("B")
	require.Error(t, err)
	assert.IsType(t, AddingLevel{}, ctrl.Dialog())

	repo.writeErr = nil
	out, err = ctrl.SubmitAdd("b")
	require.NoError(t, err)
	assert.Equal(t, "closed", out.Dialog)
	assert.Len(t, out.Levels, 2)

	level, ok := ctrl.Find(2)
	require.True(t, ok)
	ctrl.OpenEdit(level)
	ctrl.OpenDelete(level)
	assert.IsType(t, DeletingLevel{}, ctrl.Dialog(), "opening a dialog replaces the current one")

	out, err = ctrl.ConfirmDelete()
	require.NoError(t, err)
	assert.Equal(t, []Level{{ID: 1, Name: "A"}}, out.Levels)
}

func TestLevelRoutes(t *testing.T) {
	repo := newMemoryRepo("A")
	r := chi.NewRouter()
	NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), newTestService(repo)).MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`)))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/1", strings.NewReader(`{"name":"z"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Z"`)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/5", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, repo.levels)
}
