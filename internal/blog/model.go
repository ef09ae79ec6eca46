package blog

import (
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
)

type Post struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Category      string    `bson:"category" json:"category"`
	Excerpt       string    `bson:"excerpt" json:"excerpt"`
	Content       string    `bson:"content" json:"content"`
	FeaturedImage string    `bson:"featuredImage" json:"featuredImage"`
	Tags          []string  `bson:"tags" json:"tags"`
	Status        Status    `bson:"status" json:"status"`
	PublishedDate string    `bson:"publishedDate" json:"publishedDate"`
	Views         int       `bson:"views" json:"views"`
	ReadTimeMin   int       `bson:"readTimeMin" json:"readTimeMin"`
	Engagement    float64   `bson:"engagement" json:"engagement"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

type ListFilter struct {
	Status   string
	Category string
}

type CreateRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Category      string   `json:"category" validate:"required,max=120"`
	Excerpt       string   `json:"excerpt" validate:"max=500"`
	Content       string   `json:"content"`
	FeaturedImage string   `json:"featuredImage"`
	Tags          []string `json:"tags" validate:"dive,max=60"`
	Status        Status   `json:"status" validate:"omitempty,oneof=published draft"`
	PublishedDate string   `json:"publishedDate" validate:"omitempty,date"`
}

type UpdateRequest struct {
	Title         patch.Field[string]   `json:"title" validate:"omitempty,max=200"`
	Category      patch.Field[string]   `json:"category" validate:"omitempty,max=120"`
	Excerpt       patch.Field[string]   `json:"excerpt" validate:"omitempty,max=500"`
	Content       patch.Field[string]   `json:"content"`
	FeaturedImage patch.Field[string]   `json:"featuredImage"`
	Tags          patch.Field[[]string] `json:"tags"`
	Status        patch.Field[string]   `json:"status" validate:"omitempty,oneof=published draft"`
	PublishedDate patch.Field[string]   `json:"publishedDate" validate:"omitempty,date"`
	Engagement    patch.Field[float64]  `json:"engagement" validate:"omitempty,gte=0"`
}
