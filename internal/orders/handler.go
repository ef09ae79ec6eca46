package orders

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("orders create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("orders create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.service.Create(ctx, middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		transport.WriteServiceError(w, log, "orders create", err)
		return
	}

	go h.notify(log, order)

	log.Info("orders create: ok",
		slog.String("order_id", order.ID),
		slog.Int("items", len(order.Items)),
		slog.Float64("total", order.Total),
	)
	transport.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) notify(log *slog.Logger, order Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	if err := h.service.NotifyNewOrder(ctx, order); err != nil {
		log.Warn("orders email: staff notification failed", slog.String("order_id", order.ID), slog.String("error", err.Error()))
	}
	if err := h.service.NotifyOrderConfirmation(ctx, order); err != nil {
		log.Warn("orders email: confirmation failed", slog.String("order_id", order.ID), slog.String("error", err.Error()))
	}
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ListByUser(ctx, userID)
	if err != nil {
		transport.WriteServiceError(w, log, "orders mine", err)
		return
	}

	log.Info("orders mine: ok", slog.String("user_id", userID), slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, r.URL.Query().Get("status"))
	if err != nil {
		transport.WriteServiceError(w, log, "admin orders list", err)
		return
	}

	log.Info("admin orders list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) AdminListWithUsers(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ListWithUsers(ctx)
	if err != nil {
		transport.WriteServiceError(w, log, "admin orders with users", err)
		return
	}

	log.Info("admin orders with users: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, found, err := h.service.Get(ctx, id)
	if err != nil {
		transport.WriteServiceError(w, log, "admin orders get", err)
		return
	}
	if !found {
		transport.WriteJSON(w, http.StatusOK, nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req StatusRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin orders status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin orders status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		transport.WriteServiceError(w, log, "admin orders status", err)
		return
	}

	log.Info("admin orders status: ok", slog.String("order_id", id), slog.String("status", string(order.Status)))
	transport.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) AdminPayment(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req PaymentRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin orders payment: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin orders payment: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.service.UpdatePayment(ctx, id, req)
	if err != nil {
		transport.WriteServiceError(w, log, "admin orders payment", err)
		return
	}

	log.Info("admin orders payment: ok", slog.String("order_id", id), slog.String("payment_status", string(order.PaymentStatus)))
	transport.WriteJSON(w, http.StatusOK, order)
}
