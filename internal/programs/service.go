package programs

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

var ErrNotFound = apperr.New(apperr.ErrNotFound, "program not found")

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

func (s *Service) List(ctx context.Context, status string) ([]Program, error) {
	return s.repo.List(ctx, strings.TrimSpace(status))
}

func (s *Service) Get(ctx context.Context, id string) (Program, bool, error) {
	item, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Program{}, false, nil
		}
		return Program{}, false, err
	}
	return item, true, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Program, error) {
	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	item := Program{
		ID:          primitive.NewObjectID().Hex(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      status,
		Phases:      phasesOrEmpty(req.Phases),
		Outcomes:    outcomesOrEmpty(req.Outcomes),
		CreatedAt:   time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return Program{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Program, error) {
	set := bson.M{}
	patch.PutWith(set, "name", req.Name, strings.TrimSpace)
	patch.Put(set, "description", req.Description)
	patch.Put(set, "enrolledCount", req.EnrolledCount)
	patch.PutWith(set, "phases", req.Phases, phasesOrEmpty)
	patch.PutWith(set, "outcomes", req.Outcomes, outcomesOrEmpty)
	if status, ok := req.Status.Get(); ok {
		set["status"] = Status(status)
	}
	return s.apply(ctx, id, set)
}

func (s *Service) ToggleStatus(ctx context.Context, id string) (Program, error) {
	id = strings.TrimSpace(id)
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Program{}, ErrNotFound
		}
		return Program{}, err
	}
	return s.apply(ctx, id, bson.M{"status": current.Status.Next()})
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

func (s *Service) apply(ctx context.Context, id string, set bson.M) (Program, error) {
	id = strings.TrimSpace(id)
	var (
		item Program
		err  error
	)
	if len(set) == 0 {
		item, err = s.repo.Get(ctx, id)
	} else {
		item, err = s.repo.Update(ctx, id, set)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Program{}, ErrNotFound
		}
		return Program{}, err
	}
	return item, nil
}

func phasesOrEmpty(p []Phase) []Phase {
	if p == nil {
		return []Phase{}
	}
	return p
}

func outcomesOrEmpty(o []string) []string {
	if o == nil {
		return []string{}
	}
	return o
}
