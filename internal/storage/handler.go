package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/middleware"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/transport"
)

const maxUploadBytes = 10 << 20

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

func (h *Handler) AdminUploadURL(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	url, err := h.service.GenerateUploadURL(ctx)
	if err != nil {
		transport.WriteServiceError(w, log, "admin storage upload url", err)
		return
	}

	log.Info("admin storage upload url: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	token := strings.TrimSpace(chi.URLParam(r, "token"))

	filename := r.URL.Query().Get("name")
	if filename == "" {
		filename = r.Header.Get("X-Filename")
	}

	if r.ContentLength > maxUploadBytes {
		log.Warn("storage upload: too large", slog.Int64("content_length", r.ContentLength))
		transport.WriteError(w, http.StatusRequestEntityTooLarge, "file exceeds upload limit", nil)
		return
	}

	// The body is read in full before the ticket is spent.
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("storage upload: too large")
			transport.WriteError(w, http.StatusRequestEntityTooLarge, "file exceeds upload limit", nil)
			return
		}
		log.Warn("storage upload: read body", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "could not read upload body", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	id, err := h.service.Upload(ctx, token, filename, r.Header.Get("Content-Type"), bytes.NewReader(raw))
	if err != nil {
		transport.WriteServiceError(w, log, "storage upload", err)
		return
	}

	log.Info("storage upload: ok", slog.String("storage_id", id))
	transport.WriteJSON(w, http.StatusCreated, map[string]string{"storageId": id})
}

func (h *Handler) ImageURL(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	url, found, err := h.service.GetImageURL(ctx, id)
	if err != nil {
		transport.WriteServiceError(w, log, "storage image url", err)
		return
	}
	if !found {
		transport.WriteJSON(w, http.StatusOK, nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	log := middleware.LogWithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	rc, file, err := h.service.Open(ctx, id)
	if err != nil {
		transport.WriteServiceError(w, log, "storage file", err)
		return
	}
	defer rc.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Length, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		log.Warn("storage file: stream interrupted", slog.String("storage_id", id), slog.String("error", err.Error()))
	}
}
