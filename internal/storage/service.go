package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
)

var (
	ErrInvalidTicket = apperr.New(apperr.ErrNotFound, "upload url is invalid or expired")
	ErrFileNotFound  = apperr.New(apperr.ErrNotFound, "file not found")
)

const (
	uploadPath = "/api/storage/upload/"
	filesPath  = "/api/storage/files/"
)

type Service struct {
	tickets   TicketStore
	blobs     BlobStore
	urls      Rewriter
	origin    string
	ticketTTL time.Duration
	now       func() time.Time
}

// NewService issues URLs under internalOrigin and hands them out rewritten
// through urls.
func NewService(tickets TicketStore, blobs BlobStore, urls Rewriter, internalOrigin string, ticketTTL time.Duration) *Service {
	return &Service{
		tickets:   tickets,
		blobs:     blobs,
		urls:      urls,
		origin:    strings.TrimRight(internalOrigin, "/"),
		ticketTTL: ticketTTL,
		now:       time.Now,
	}
}

func (s *Service) Rewriter() Rewriter {
	return s.urls
}

// GenerateUploadURL issues a one-time upload target.
func (s *Service) GenerateUploadURL(ctx context.Context) (string, error) {
	now := s.now()
	ticket := Ticket{
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.ticketTTL),
		CreatedAt: now,
	}
	if err := s.tickets.Insert(ctx, ticket); err != nil {
		return "", err
	}
	return s.urls.Rewrite(s.origin + uploadPath + ticket.Token), nil
}

// Upload spends token and stores body, returning the new storage id.
func (s *Service) Upload(ctx context.Context, token, filename, contentType string, body io.Reader) (string, error) {
	ok, err := s.tickets.Consume(ctx, strings.TrimSpace(token), s.now())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidTicket
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.blobs.Put(ctx, SafeFilename(filename), contentType, body)
}

// GetImageURL resolves a storage id to a public URL; found is false when no
// such blob exists.
func (s *Service) GetImageURL(ctx context.Context, storageID string) (string, bool, error) {
	storageID = strings.TrimSpace(storageID)
	if _, err := s.blobs.Stat(ctx, storageID); err != nil {
		if errors.Is(err, errNoFile) {
			return "", false, nil
		}
		return "", false, err
	}
	return s.urls.Rewrite(s.origin + filesPath + storageID), true, nil
}

func (s *Service) Open(ctx context.Context, storageID string) (io.ReadCloser, File, error) {
	rc, file, err := s.blobs.Open(ctx, strings.TrimSpace(storageID))
	if err != nil {
		if errors.Is(err, errNoFile) {
			return nil, File{}, ErrFileNotFound
		}
		return nil, File{}, err
	}
	return rc, file, nil
}
