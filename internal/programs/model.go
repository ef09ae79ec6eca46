package programs

import (
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

// Next follows active -> archived -> draft -> active; unknown values
// restart at active.
func (s Status) Next() Status {
	switch s {
	case StatusActive:
		return StatusArchived
	case StatusArchived:
		return StatusDraft
	default:
		return StatusActive
	}
}

type Phase struct {
	Name          string `bson:"name" json:"name" validate:"required,max=120"`
	DurationWeeks int    `bson:"durationWeeks" json:"durationWeeks" validate:"gte=0"`
	Description   string `bson:"description" json:"description"`
}

type Program struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description"`
	Status        Status    `bson:"status" json:"status"`
	EnrolledCount int       `bson:"enrolledCount" json:"enrolledCount"`
	Phases        []Phase   `bson:"phases" json:"phases"`
	Outcomes      []string  `bson:"outcomes" json:"outcomes"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

type CreateRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description"`
	Status      Status   `json:"status" validate:"omitempty,oneof=active draft archived"`
	Phases      []Phase  `json:"phases" validate:"dive"`
	Outcomes    []string `json:"outcomes"`
}

type UpdateRequest struct {
	Name          patch.Field[string]   `json:"name" validate:"omitempty,max=200"`
	Description   patch.Field[string]   `json:"description"`
	Status        patch.Field[string]   `json:"status" validate:"omitempty,oneof=active draft archived"`
	EnrolledCount patch.Field[int]      `json:"enrolledCount" validate:"omitempty,gte=0"`
	Phases        patch.Field[[]Phase]  `json:"phases" validate:"omitempty,dive"`
	Outcomes      patch.Field[[]string] `json:"outcomes"`
}
