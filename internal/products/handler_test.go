package products

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/validation"
)

func newTestRouter() http.Handler {
	svc, _, _ := newTestService()
	h := NewHandler(svc, validation.New(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Get)
	r.Post("/products/{id}/view", h.RecordView)
	r.Post("/admin/products", h.AdminCreate)
	r.Patch("/admin/products/{id}", h.AdminUpdate)
	r.Post("/admin/products/{id}/toggle", h.AdminToggle)
	r.Delete("/admin/products/{id}", h.AdminDelete)
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCRUD(t *testing.T) {
	router := newTestRouter()

	rec := send(router, http.MethodPost, "/admin/products", `{"name":"Peptide Cream","store":"Lumiere","category":"creams","price":420}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = send(router, http.MethodPatch, "/admin/products/"+created.ID, `{"price":null,"usage":"Apply nightly"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, 420.0, updated.Price)
	assert.Equal(t, "Apply nightly", updated.Usage)

	rec = send(router, http.MethodPost, "/admin/products/"+created.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"hidden"`)

	rec = send(router, http.MethodGet, "/products?status=hidden", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID)

	rec = send(router, http.MethodDelete, "/admin/products/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = send(router, http.MethodGet, "/products/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestHandlerRejectsNegativePriceAndCounterFields(t *testing.T) {
	router := newTestRouter()

	rec := send(router, http.MethodPost, "/admin/products", `{"name":"X","store":"S","category":"c","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(router, http.MethodPost, "/admin/products", `{"name":"X","store":"S","category":"c","price":1,"views":99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerMutationsOnMissingIDAre404(t *testing.T) {
	router := newTestRouter()

	assert.Equal(t, http.StatusNotFound, send(router, http.MethodPatch, "/admin/products/nope", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodPost, "/admin/products/nope/toggle", "").Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodDelete, "/admin/products/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodPost, "/products/nope/view", "").Code)
}
