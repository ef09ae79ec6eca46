package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
)

const (
	internalOrigin = "http://127.0.0.1:3210"
	publicOrigin   = "https://media.serumsculpt.co.za"
)

func TestRewriteReplacesOnlyTheOrigin(t *testing.T) {
	rw := NewRewriter(internalOrigin+"/", publicOrigin)

	cases := map[string]string{
		internalOrigin + "/api/storage/files/abc?w=400&fit=crop": publicOrigin + "/api/storage/files/abc?w=400&fit=crop",
		internalOrigin:                         publicOrigin,
		"https://cdn.example.com/a.png":        "https://cdn.example.com/a.png",
		"":                                     "",
		"/relative/path.png":                   "/relative/path.png",
		"https://evil.test/" + internalOrigin:  "https://evil.test/" + internalOrigin,
	}
	for in, want := range cases {
		assert.Equal(t, want, rw.Rewrite(in), in)
	}

	assert.Equal(t, internalOrigin+"/x", NewRewriter("", publicOrigin).Rewrite(internalOrigin+"/x"))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "hero-banner.jpg", SafeFilename("Hero Banner.JPG"))
	assert.Equal(t, "passwd", SafeFilename("../../etc/passwd"))
	assert.Equal(t, "skin-and-body.png", SafeFilename(`C:\Users\me\Skin & Body.png`))
	assert.Equal(t, "upload", SafeFilename(""))
	assert.Equal(t, "upload.webp", SafeFilename("!!!.webp"))
}

type memoryTickets struct {
	mu      sync.Mutex
	tickets map[string]Ticket
}

func (m *memoryTickets) Insert(_ context.Context, ticket Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[ticket.Token] = ticket
	return nil
}

func (m *memoryTickets) Consume(_ context.Context, token string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.tickets[token]
	if !ok || !ticket.ExpiresAt.After(now) {
		return false, nil
	}
	delete(m.tickets, token)
	return true, nil
}

type memoryBlobs struct {
	mu    sync.Mutex
	files map[string]File
	data  map[string][]byte
}

func (m *memoryBlobs) Put(_ context.Context, filename, contentType string, body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("%024x", len(m.files)+1)
	m.files[id] = File{ID: id, Filename: filename, ContentType: contentType, Length: int64(len(raw))}
	m.data[id] = raw
	return id, nil
}

func (m *memoryBlobs) Stat(_ context.Context, id string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return File{}, errNoFile
	}
	return f, nil
}

func (m *memoryBlobs) Open(ctx context.Context, id string) (io.ReadCloser, File, error) {
	f, err := m.Stat(ctx, id)
	if err != nil {
		return nil, File{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return io.NopCloser(bytes.NewReader(m.data[id])), f, nil
}

func newTestService() (*Service, *memoryBlobs) {
	blobs := &memoryBlobs{files: map[string]File{}, data: map[string][]byte{}}
	svc := NewService(&memoryTickets{tickets: map[string]Ticket{}}, blobs, NewRewriter(internalOrigin, publicOrigin), internalOrigin, 15*time.Minute)
	return svc, blobs
}

func tokenOf(t *testing.T, url string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(url, publicOrigin+uploadPath), url)
	return strings.TrimPrefix(url, publicOrigin+uploadPath)
}

func TestUploadURLIsSingleUse(t *testing.T) {
	svc, blobs := newTestService()
	ctx := context.Background()

	url, err := svc.GenerateUploadURL(ctx)
	require.NoError(t, err)
	token := tokenOf(t, url)

	id, err := svc.Upload(ctx, token, "Before After.PNG", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "before-after.png", blobs.files[id].Filename)

	_, err = svc.Upload(ctx, token, "again.png", "image/png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestExpiredTicketIsRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	url, err := svc.GenerateUploadURL(ctx)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.Upload(ctx, tokenOf(t, url), "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidTicket)
}

func TestGetImageURL(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, found, err := svc.GetImageURL(ctx, "000000000000000000000099")
	require.NoError(t, err)
	assert.False(t, found)

	url, err := svc.GenerateUploadURL(ctx)
	require.NoError(t, err)
	id, err := svc.Upload(ctx, tokenOf(t, url), "a.png", "image/png", strings.NewReader("x"))
	require.NoError(t, err)

	got, found, err := svc.GetImageURL(ctx, id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, publicOrigin+filesPath+id, got)
}

func TestFileHandlerStreamsBlob(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	url, err := svc.GenerateUploadURL(ctx)
	require.NoError(t, err)
	id, err := svc.Upload(ctx, tokenOf(t, url), "a.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)

	h := NewHandler(svc, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/files/{id}", h.File)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOversizedUploadKeepsTicket(t *testing.T) {
	svc, blobs := newTestService()
	ctx := context.Background()
	url, err := svc.GenerateUploadURL(ctx)
	require.NoError(t, err)
	token := tokenOf(t, url)

	h := NewHandler(svc, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Post("/upload/{token}", h.Upload)

	oversized := bytes.Repeat([]byte("x"), maxUploadBytes+1)

	tests := []struct {
		name          string
		contentLength int64
	}{
		{name: "declared length", contentLength: int64(len(oversized))},
		{name: "unknown length", contentLength: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/upload/"+token+"?name=big.png", bytes.NewReader(oversized))
			req.ContentLength = tt.contentLength
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		})
	}
	assert.Empty(t, blobs.files)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload/"+token+"?name=small.png", strings.NewReader("ok")))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, blobs.files, 1)
}
