package products

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/cache"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

var ErrNotFound = apperr.New(apperr.ErrNotFound, "product not found")

const cachePrefix = "products:"

const (
	counterViews     = "views"
	counterAddToCart = "addToCartCount"
)

type URLRewriter interface {
	Rewrite(url string) string
}

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	urls     URLRewriter
	location *time.Location
}

func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, urls URLRewriter, location *time.Location) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		urls:     urls,
		location: location,
	}
}

// ConversionRate is add-to-cart events per view as a percentage.
func ConversionRate(views, addToCart int) float64 {
	if views <= 0 {
		return 0
	}
	return float64(addToCart) / float64(views) * 100
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Store = strings.TrimSpace(filter.Store)
	key := cachePrefix + "list:" + filter.Status + "|" + filter.Category + "|" + filter.Store
	return cache.Remember(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) ([]Product, error) {
		return s.repo.List(ctx, filter)
	})
}

// Get returns found == false when id names no product.
func (s *Service) Get(ctx context.Context, id string) (Product, bool, error) {
	item, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, false, nil
		}
		return Product{}, false, err
	}
	return item, true, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Product, error) {
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	item := Product{
		ID:               primitive.NewObjectID().Hex(),
		Name:             strings.TrimSpace(req.Name),
		Store:            strings.TrimSpace(req.Store),
		Category:         strings.TrimSpace(req.Category),
		Price:            req.Price,
		Description:      req.Description,
		Images:           s.rewriteAll(req.Images),
		ClinicalGuidance: req.ClinicalGuidance,
		Usage:            req.Usage,
		Ingredients:      nonNil(req.Ingredients),
		Status:           status,
		CreatedAt:        time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return Product{}, err
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Product, error) {
	set := bson.M{}
	patch.PutWith(set, "name", req.Name, strings.TrimSpace)
	patch.PutWith(set, "store", req.Store, strings.TrimSpace)
	patch.PutWith(set, "category", req.Category, strings.TrimSpace)
	patch.Put(set, "price", req.Price)
	patch.Put(set, "description", req.Description)
	patch.PutWith(set, "images", req.Images, s.rewriteAll)
	patch.Put(set, "clinicalGuidance", req.ClinicalGuidance)
	patch.Put(set, "usage", req.Usage)
	patch.PutWith(set, "ingredients", req.Ingredients, nonNil)
	if status, ok := req.Status.Get(); ok {
		set["status"] = Status(status)
	}
	return s.apply(ctx, id, set)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) ToggleStatus(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return s.apply(ctx, id, bson.M{"status": current.Status.Next()})
}

func (s *Service) RecordView(ctx context.Context, id string) (Product, error) {
	return s.bump(ctx, id, counterViews)
}

func (s *Service) RecordAddToCart(ctx context.Context, id string) (Product, error) {
	return s.bump(ctx, id, counterAddToCart)
}

func (s *Service) bump(ctx context.Context, id, counter string) (Product, error) {
	item, err := s.repo.Bump(ctx, strings.TrimSpace(id), counter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return item, nil
}

// apply writes set, or only checks that id exists when set is empty.
func (s *Service) apply(ctx context.Context, id string, set bson.M) (Product, error) {
	id = strings.TrimSpace(id)
	var (
		item Product
		err  error
	)
	if len(set) == 0 {
		item, err = s.repo.Get(ctx, id)
	} else {
		item, err = s.repo.Update(ctx, id, set)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	if len(set) > 0 {
		s.invalidate(ctx)
	}
	return item, nil
}

func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.DeletePrefix(ctx, cachePrefix)
}

func (s *Service) rewriteAll(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if s.urls != nil {
			u = s.urls.Rewrite(u)
		}
		out = append(out, u)
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
