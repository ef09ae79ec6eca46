package products

import (
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusHidden     Status = "hidden"
	StatusOutOfStock Status = "out_of_stock"
)

// Next returns the status after s in the admin toggle cycle
// active -> hidden -> out_of_stock -> active. Anything else restarts at active.
func (s Status) Next() Status {
	switch s {
	case StatusActive:
		return StatusHidden
	case StatusHidden:
		return StatusOutOfStock
	default:
		return StatusActive
	}
}

type Product struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Store            string    `bson:"store" json:"store"`
	Category         string    `bson:"category" json:"category"`
	Price            float64   `bson:"price" json:"price"`
	Description      string    `bson:"description" json:"description"`
	Images           []string  `bson:"images" json:"images"`
	ClinicalGuidance string    `bson:"clinicalGuidance" json:"clinicalGuidance"`
	Usage            string    `bson:"usage" json:"usage"`
	Ingredients      []string  `bson:"ingredients" json:"ingredients"`
	Status           Status    `bson:"status" json:"status"`
	Views            int       `bson:"views" json:"views"`
	AddToCartCount   int       `bson:"addToCartCount" json:"addToCartCount"`
	ConversionRate   float64   `bson:"conversionRate" json:"conversionRate"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

type ListFilter struct {
	Status   string
	Category string
	Store    string
}

type CreateRequest struct {
	Name             string   `json:"name" validate:"required,max=200"`
	Store            string   `json:"store" validate:"required,max=120"`
	Category         string   `json:"category" validate:"required,max=120"`
	Price            float64  `json:"price" validate:"gte=0"`
	Description      string   `json:"description"`
	Images           []string `json:"images" validate:"dive,required"`
	ClinicalGuidance string   `json:"clinicalGuidance"`
	Usage            string   `json:"usage"`
	Ingredients      []string `json:"ingredients"`
	Status           Status   `json:"status" validate:"omitempty,oneof=active hidden out_of_stock"`
}

type UpdateRequest struct {
	Name             patch.Field[string]   `json:"name" validate:"omitempty,max=200"`
	Store            patch.Field[string]   `json:"store" validate:"omitempty,max=120"`
	Category         patch.Field[string]   `json:"category" validate:"omitempty,max=120"`
	Price            patch.Field[float64]  `json:"price" validate:"omitempty,gte=0"`
	Description      patch.Field[string]   `json:"description"`
	Images           patch.Field[[]string] `json:"images"`
	ClinicalGuidance patch.Field[string]   `json:"clinicalGuidance"`
	Usage            patch.Field[string]   `json:"usage"`
	Ingredients      patch.Field[[]string] `json:"ingredients"`
	Status           patch.Field[string]   `json:"status" validate:"omitempty,oneof=active hidden out_of_stock"`
}
