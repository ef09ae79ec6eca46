package inquiries

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notifier interface {
	SendInquiryNotification(ctx context.Context, item Inquiry) (string, error)
}

type Service struct {
	repo     Repository
	notifier Notifier
	location *time.Location
}

func NewService(repo Repository, notifier Notifier, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Inquiry, error) {
	item := Inquiry{
		ID:        primitive.NewObjectID().Hex(),
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Purpose:   strings.TrimSpace(req.Purpose),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return Inquiry{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]Inquiry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Notify(ctx context.Context, item Inquiry) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendInquiryNotification(ctx, item)
	return err
}
