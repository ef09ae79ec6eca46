package products

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/httpx"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/middleware"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/transport"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	q := r.URL.Query()
	filter := ListFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Store:    q.Get("store"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, filter)
	if err != nil {
		transport.WriteServiceError(w, log, "products list", err)
		return
	}

	log.Info("products list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, found, err := h.service.Get(ctx, id)
	if err != nil {
		transport.WriteServiceError(w, log, "products get", err)
		return
	}
	if !found {
		log.Info("products get: absent", slog.String("product_id", id))
		transport.WriteJSON(w, http.StatusOK, nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	h.bump(w, r, "products view", h.service.RecordView)
}

func (h *Handler) RecordAddToCart(w http.ResponseWriter, r *http.Request) {
	h.bump(w, r, "products add to cart", h.service.RecordAddToCart)
}

func (h *Handler) bump(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, string) (Product, error)) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := fn(ctx, id)
	if err != nil {
		transport.WriteServiceError(w, log, op, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"views":          item.Views,
		"addToCartCount": item.AddToCartCount,
		"conversionRate": item.ConversionRate,
	})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin products create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin products create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		transport.WriteServiceError(w, log, "admin products create", err)
		return
	}

	log.Info("admin products create: ok", slog.String("product_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin products update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin products update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		transport.WriteServiceError(w, log, "admin products update", err)
		return
	}

	log.Info("admin products update: ok", slog.String("product_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminToggle(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.ToggleStatus(ctx, id)
	if err != nil {
		transport.WriteServiceError(w, log, "admin products toggle", err)
		return
	}

	log.Info("admin products toggle: ok", slog.String("product_id", id), slog.String("status", string(item.Status)))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		transport.WriteServiceError(w, log, "admin products delete", err)
		return
	}

	log.Info("admin products delete: ok", slog.String("product_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
