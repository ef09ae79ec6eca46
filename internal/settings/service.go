package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/cache"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

const cacheKey = "settings:store"

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

// Get returns the store settings, or nil when none were saved yet.
func (s *Service) Get(ctx context.Context) (*StoreSettings, error) {
	return cache.Remember(ctx, s.cache, cacheKey, s.cacheTTL, func(ctx context.Context) (*StoreSettings, error) {
		item, err := s.repo.Get(ctx)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil
			}
			return nil, err
		}
		return &item, nil
	})
}

// Update upserts the set fields, creating the document on first save.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (StoreSettings, error) {
	set := bson.M{"updatedAt": time.Now().In(s.location)}
	patch.PutWith(set, "heroImage", req.HeroImage, s.rewrite)
	patch.PutWith(set, "tagline", req.Tagline, strings.TrimSpace)
	patch.Put(set, "description", req.Description)
	patch.PutWith(set, "announcementBanner", req.AnnouncementBanner, strings.TrimSpace)
	patch.PutWith(set, "partnerBrands", req.PartnerBrands, func(v []string) []string {
		if v == nil {
			return []string{}
		}
		return v
	})

	item, err := s.repo.Upsert(ctx, set)
	if err != nil {
		return StoreSettings{}, err
	}
	_ = s.cache.Delete(ctx, cacheKey)
	return item, nil
}

func (s *Service) rewrite(url string) string {
	url = strings.TrimSpace(url)
	if s.urls == nil {
		return url
	}
	return s.urls.Rewrite(url)
}
