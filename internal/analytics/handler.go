package analytics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/middleware"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/transport"
)

const queryTimeout = 15 * time.Second

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stats, err := h.service.Dashboard(ctx)
	if err != nil {
		transport.WriteServiceError(w, log, "analytics dashboard", err)
		return
	}

	log.Info("analytics dashboard: ok", slog.Int("orders", stats.TotalOrders))
	transport.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	metrics, err := h.service.Revenue(ctx)
	if err != nil {
		transport.WriteServiceError(w, log, "analytics revenue", err)
		return
	}

	log.Info("analytics revenue: ok", slog.Int("orders", metrics.OrderCount))
	transport.WriteJSON(w, http.StatusOK, metrics)
}

func (h *Handler) Operations(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	metrics, err := h.service.Operations(ctx)
	if err != nil {
		transport.WriteServiceError(w, log, "analytics operations", err)
		return
	}

	log.Info("analytics operations: ok", slog.Int("orders", metrics.TotalOrders))
	transport.WriteJSON(w, http.StatusOK, metrics.Rounded())
}

func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stats, err := h.service.Customers(ctx)
	if err != nil {
		transport.WriteServiceError(w, log, "analytics customers", err)
		return
	}

	log.Info("analytics customers: ok", slog.Int("customers", stats.Summary.TotalCustomers))
	transport.WriteJSON(w, http.StatusOK, stats)
}
