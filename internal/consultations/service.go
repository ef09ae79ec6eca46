package consultations

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

var ErrNotFound = apperr.New(apperr.ErrNotFound, "consultation not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) List(ctx context.Context, status string) ([]Consultation, error) {
	return s.repo.List(ctx, strings.TrimSpace(status))
}

func (s *Service) Get(ctx context.Context, id string) (Consultation, bool, error) {
	item, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Consultation{}, false, nil
		}
		return Consultation{}, false, err
	}
	return item, true, nil
}

// Book records a new request from the storefront. It starts pending until
// staff confirm it.
func (s *Service) Book(ctx context.Context, req CreateRequest) (Consultation, error) {
	item := Consultation{
		ID:          primitive.NewObjectID().Hex(),
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientEmail: strings.ToLower(strings.TrimSpace(req.ClientEmail)),
		ClientPhone: strings.TrimSpace(req.ClientPhone),
		Date:        req.Date,
		Time:        req.Time,
		Type:        strings.TrimSpace(req.Type),
		Status:      StatusPending,
		PreNotes:    strings.TrimSpace(req.PreNotes),
		Notes:       []Note{},
		CreatedAt:   time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return Consultation{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Consultation, error) {
	set := bson.M{}
	patch.PutWith(set, "clientName", req.ClientName, strings.TrimSpace)
	patch.PutWith(set, "clientEmail", req.ClientEmail, func(v string) string { return strings.ToLower(strings.TrimSpace(v)) })
	patch.PutWith(set, "clientPhone", req.ClientPhone, strings.TrimSpace)
	patch.Put(set, "date", req.Date)
	patch.Put(set, "time", req.Time)
	patch.PutWith(set, "type", req.Type, strings.TrimSpace)
	patch.PutWith(set, "preNotes", req.PreNotes, strings.TrimSpace)
	if status, ok := req.Status.Get(); ok {
		set["status"] = Status(status)
	}
	return s.apply(ctx, id, set)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Consultation, error) {
	return s.apply(ctx, id, bson.M{"status": status})
}

func (s *Service) UpdateNotes(ctx context.Context, id, preNotes string) (Consultation, error) {
	return s.apply(ctx, id, bson.M{"preNotes": strings.TrimSpace(preNotes)})
}

// AddNote appends to the clinical notes; existing notes are never rewritten.
func (s *Service) AddNote(ctx context.Context, id string, req AddNoteRequest) (Consultation, error) {
	note := Note{
		Text:      strings.TrimSpace(req.Text),
		Author:    strings.TrimSpace(req.Author),
		CreatedAt: time.Now().In(s.location),
	}
	item, err := s.repo.PushNote(ctx, strings.TrimSpace(id), note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Consultation{}, ErrNotFound
		}
		return Consultation{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) apply(ctx context.Context, id string, set bson.M) (Consultation, error) {
	id = strings.TrimSpace(id)
	var (
		item Consultation
		err  error
	)
	if len(set) == 0 {
		item, err = s.repo.Get(ctx, id)
	} else {
		item, err = s.repo.Update(ctx, id, set)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Consultation{}, ErrNotFound
		}
		return Consultation{}, err
	}
	return item, nil
}
