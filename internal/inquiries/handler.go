package inquiries

import (
	"context"
	"log/slog"
	"net/http"
	"time"

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("contact create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		transport.WriteServiceError(w, log, "contact create", err)
		return
	}

	go func(created Inquiry) {
		ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer cancel()
		if err := h.service.Notify(ctx, created); err != nil {
			log.Warn("contact email: send failed", slog.String("inquiry_id", created.ID), slog.String("error", err.Error()))
		}
	}(item)

	log.Info("contact create: ok", slog.String("inquiry_id", item.ID), slog.String("purpose", item.Purpose))
	transport.WriteJSON(w, http.StatusCreated, map[string]string{"id": item.ID, "status": "received"})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		transport.WriteServiceError(w, log, "admin inquiries list", err)
		return
	}

	log.Info("admin inquiries list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}
