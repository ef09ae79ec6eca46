package programs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/validation"
)

func TestAdminUpdateValidatesPhases(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, time.UTC)
	item, err := svc.Create(context.Background(), CreateRequest{
		Name:   "Barrier Reset",
		Phases: []Phase{{Name: "Repair", DurationWeeks: 4}},
	})
	require.NoError(t, err)

	h := NewHandler(svc, validation.New(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Patch("/admin/programs/{id}", h.AdminUpdate)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"blank phase name", `{"phases":[{"name":"","durationWeeks":2}]}`, http.StatusBadRequest},
		{"negative duration", `{"phases":[{"name":"Calm","durationWeeks":-4}]}`, http.StatusBadRequest},
		{"phases cleared", `{"phases":[]}`, http.StatusOK},
		{"valid phases", `{"phases":[{"name":"Calm","durationWeeks":2},{"name":"Hold","durationWeeks":6}]}`, http.StatusOK},
		{"phases absent", `{"name":"Barrier Reset Plus"}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/admin/programs/"+item.ID, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}

	stored, err := repo.Get(context.Background(), item.ID)
	require.NoError(t, err)
	require.Len(t, stored.Phases, 2)
	assert.Equal(t, "Calm", stored.Phases[0].Name)
	assert.Equal(t, "Barrier Reset Plus", stored.Name)
}
