package blog

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

var ErrNotFound = apperr.New(apperr.ErrNotFound, "blog post not found")

const wordsPerMinute = 200

type URLRewriter interface {
	Rewrite(url string) string
}

type Service struct {
	repo     Repository
	urls     URLRewriter
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, urls URLRewriter, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		urls:     urls,
		location: location,
		now:      time.Now,
	}
}

// ReadTime estimates minutes to read content, never less than one.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	return int(math.Max(1, math.Ceil(float64(words)/wordsPerMinute)))
}

// NormalizeTags trims tags and drops empties and repeats, keeping first
// occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (s *Service) today() string {
	return s.now().In(s.location).Format("2006-01-02")
}

func (s *Service) rewrite(url string) string {
	if s.urls == nil {
		return url
	}
	return s.urls.Rewrite(strings.TrimSpace(url))
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Post, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Category = strings.TrimSpace(filter.Category)
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (Post, bool, error) {
	post, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, false, nil
		}
		return Post{}, false, err
	}
	return post, true, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Post, error) {
	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	published := strings.TrimSpace(req.PublishedDate)
	switch {
	case status == StatusDraft:
		published = ""
	case published == "":
		published = s.today()
	}

	post := Post{
		ID:            primitive.NewObjectID().Hex(),
		Title:         strings.TrimSpace(req.Title),
		Category:      strings.TrimSpace(req.Category),
		Excerpt:       strings.TrimSpace(req.Excerpt),
		Content:       req.Content,
		FeaturedImage: s.rewrite(req.FeaturedImage),
		Tags:          NormalizeTags(req.Tags),
		Status:        status,
		PublishedDate: published,
		ReadTimeMin:   ReadTime(req.Content),
		CreatedAt:     s.now().In(s.location),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return Post{}, err
	}
	return post, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Post, error) {
	id = strings.TrimSpace(id)
	set := bson.M{}
	patch.PutWith(set, "title", req.Title, strings.TrimSpace)
	patch.PutWith(set, "category", req.Category, strings.TrimSpace)
	patch.PutWith(set, "excerpt", req.Excerpt, strings.TrimSpace)
	patch.PutWith(set, "featuredImage", req.FeaturedImage, s.rewrite)
	patch.PutWith(set, "tags", req.Tags, NormalizeTags)
	patch.Put(set, "engagement", req.Engagement)
	if content, ok := req.Content.Get(); ok {
		set["content"] = content
		set["readTimeMin"] = ReadTime(content)
	}

	_, dateSet := req.PublishedDate.Get()
	if statusValue, statusSet := req.Status.Get(); statusSet || dateSet {
		if err := s.putPublication(ctx, id, set, Status(statusValue), statusSet, req.PublishedDate); err != nil {
			return Post{}, err
		}
	}

	var (
		post Post
		err  error
	)
	if len(set) == 0 {
		post, err = s.repo.Get(ctx, id)
	} else {
		post, err = s.repo.Update(ctx, id, set)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return post, nil
}

// putPublication writes status and publishedDate so that drafts never carry
// a date and published posts always do. The stored post fills in whichever
// side the request leaves out.
func (s *Service) putPublication(ctx context.Context, id string, set bson.M, status Status, statusSet bool, date patch.Field[string]) error {
	published, dateSet := date.Get()
	published = strings.TrimSpace(published)

	var current Post
	if !statusSet || published == "" {
		var err error
		current, err = s.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return err
		}
	}
	if !statusSet {
		status = current.Status
	} else {
		set["status"] = status
	}

	switch {
	case status == StatusDraft:
		if statusSet || dateSet {
			set["publishedDate"] = ""
		}
	case published != "":
		set["publishedDate"] = published
	case current.PublishedDate != "":
		set["publishedDate"] = current.PublishedDate
	default:
		set["publishedDate"] = s.today()
	}
	return nil
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

func (s *Service) RecordView(ctx context.Context, id string) (Post, error) {
	post, err := s.repo.IncrementViews(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return post, nil
}
