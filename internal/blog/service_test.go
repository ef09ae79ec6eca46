package blog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type memoryRepo struct {
	mu    sync.Mutex
	posts map[string]Post
}

func (m *memoryRepo) Create(_ context.Context, post Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = post
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return Post{}, mongo.ErrNoDocuments
	}
	return p, nil
}

func (m *memoryRepo) List(_ context.Context, filter ListFilter) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Post{}
	for _, p := range m.posts {
		if filter.Status != "" && string(p.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, id string, set bson.M) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return Post{}, mongo.ErrNoDocuments
	}
	raw, _ := bson.Marshal(p)
	var doc bson.M
	_ = bson.Unmarshal(raw, &doc)
	for k, v := range set {
		doc[k] = v
	}
	raw, _ = bson.Marshal(doc)
	var updated Post
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return Post{}, err
	}
	m.posts[id] = updated
	return updated, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[id]
	delete(m.posts, id)
	return ok, nil
}

func (m *memoryRepo) IncrementViews(_ context.Context, id string) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return Post{}, mongo.ErrNoDocuments
	}
	p.Views++
	m.posts[id] = p
	return p, nil
}

func newTestService() *Service {
	svc := NewService(&memoryRepo{posts: map[string]Post{}}, nil, time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime("one two three"))
	assert.Equal(t, 1, ReadTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadTime(strings.Repeat("word ", 201)))
}

func TestNormalizeTagsKeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []string{"acne", "retinol", "spf"}, NormalizeTags([]string{" acne", "retinol", "acne", "", "spf", "retinol"}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
}

func TestCreateStartsCountersAtZeroAndDatesPublished(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateRequest{Title: "Draft", Category: "skin", PublishedDate: "2026-01-01"})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, draft.Status)
	assert.Empty(t, draft.PublishedDate)
	assert.Zero(t, draft.Views)
	assert.Zero(t, draft.Engagement)

	live, err := svc.Create(ctx, CreateRequest{Title: "Live", Category: "skin", Status: StatusPublished, Tags: []string{"a", "a"}})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", live.PublishedDate)
	assert.Equal(t, []string{"a"}, live.Tags)
}

func TestUpdateStatusTransitionsAdjustPublishedDate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	post, err := svc.Create(ctx, CreateRequest{Title: "T", Category: "c", Content: "short"})
	require.NoError(t, err)

	post, err = svc.Update(ctx, post.ID, UpdateRequest{Status: patch.Some("published")})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", post.PublishedDate)
	assert.Equal(t, "short", post.Content)

	post, err = svc.Update(ctx, post.ID, UpdateRequest{Content: patch.Some(strings.Repeat("w ", 450))})
	require.NoError(t, err)
	assert.Equal(t, 3, post.ReadTimeMin)
	assert.Equal(t, StatusPublished, post.Status)

	post, err = svc.Update(ctx, post.ID, UpdateRequest{Status: patch.Some("draft")})
	require.NoError(t, err)
	assert.Empty(t, post.PublishedDate)

	_, err = svc.Update(ctx, "missing", UpdateRequest{Status: patch.Some("published")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdatePublishedDateFollowsStoredStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateRequest{Title: "Draft", Category: "skin"})
	require.NoError(t, err)
	draft, err = svc.Update(ctx, draft.ID, UpdateRequest{PublishedDate: patch.Some("2026-01-01")})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, draft.Status)
	assert.Empty(t, draft.PublishedDate)

	live, err := svc.Create(ctx, CreateRequest{Title: "Live", Category: "skin", Status: StatusPublished, PublishedDate: "2026-02-01"})
	require.NoError(t, err)

	live, err = svc.Update(ctx, live.ID, UpdateRequest{PublishedDate: patch.Some("")})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", live.PublishedDate)

	live, err = svc.Update(ctx, live.ID, UpdateRequest{PublishedDate: patch.Some("2026-02-20")})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-20", live.PublishedDate)
	assert.Equal(t, StatusPublished, live.Status)

	live, err = svc.Update(ctx, live.ID, UpdateRequest{Status: patch.Some("draft"), PublishedDate: patch.Some("2026-02-21")})
	require.NoError(t, err)
	assert.Empty(t, live.PublishedDate)

	_, err = svc.Update(ctx, "missing", UpdateRequest{PublishedDate: patch.Some("2026-01-01")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRecordViewAndDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	post, err := svc.Create(ctx, CreateRequest{Title: "T", Category: "c"})
	require.NoError(t, err)

	post, err = svc.RecordView(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, post.Views)

	require.NoError(t, svc.Delete(ctx, post.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, post.ID), apperr.ErrNotFound))
	_, err = svc.RecordView(ctx, post.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
