package consultations

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

// decode reads and validates the body into dst, writing the 400 itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, dst interface{}) bool {
	if err := httpx.DecodeJSON(r.Body, dst); err != nil {
		log.Warn(op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return false
	}
	if err := h.val.Struct(dst); err != nil {
		log.Warn(op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return false
	}
	return true
}

func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	var req CreateRequest
	if !h.decode(w, r, log, "consultations book", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Book(ctx, req)
	if err != nil {
		transport.WriteServiceError(w, log, "consultations book", err)
		return
	}

	log.Info("consultations book: ok", slog.String("consultation_id", item.ID), slog.String("date", item.Date))
	transport.WriteJSON(w, http.StatusCreated, map[string]string{"id": item.ID, "status": string(item.Status)})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, r.URL.Query().Get("status"))
	if err != nil {
		transport.WriteServiceError(w, log, "admin consultations list", err)
		return
	}

	log.Info("admin consultations list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, found, err := h.service.Get(ctx, id)
	if err != nil {
		transport.WriteServiceError(w, log, "admin consultations get", err)
		return
	}
	if !found {
		transport.WriteJSON(w, http.StatusOK, nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if !h.decode(w, r, log, "admin consultations update", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	h.respond(w, log, "admin consultations update", item, err)
}

func (h *Handler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req StatusRequest
	if !h.decode(w, r, log, "admin consultations status", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.UpdateStatus(ctx, id, req.Status)
	h.respond(w, log, "admin consultations status", item, err)
}

func (h *Handler) AdminPreNotes(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req PreNotesRequest
	if !h.decode(w, r, log, "admin consultations notes", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.UpdateNotes(ctx, id, req.PreNotes)
	h.respond(w, log, "admin consultations notes", item, err)
}

func (h *Handler) AdminAddNote(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req AddNoteRequest
	if !h.decode(w, r, log, "admin consultations add note", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.AddNote(ctx, id, req)
	h.respond(w, log, "admin consultations add note", item, err)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		transport.WriteServiceError(w, log, "admin consultations delete", err)
		return
	}

	log.Info("admin consultations delete: ok", slog.String("consultation_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) respond(w http.ResponseWriter, log *slog.Logger, op string, item Consultation, err error) {
	if err != nil {
		transport.WriteServiceError(w, log, op, err)
		return
	}
	log.Info(op+": ok", slog.String("consultation_id", item.ID), slog.String("status", string(item.Status)))
	transport.WriteJSON(w, http.StatusOK, item)
}
