package consultations

import (
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsActive reports whether the consultation still needs attention.
func (s Status) IsActive() bool {
	return s == StatusConfirmed || s == StatusPending
}

type Note struct {
	Text      string    `bson:"text" json:"text"`
	Author    string    `bson:"author" json:"author"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Consultation struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ClientName  string    `bson:"clientName" json:"clientName"`
	ClientEmail string    `bson:"clientEmail" json:"clientEmail"`
	ClientPhone string    `bson:"clientPhone" json:"clientPhone"`
	Date        string    `bson:"date" json:"date"`
	Time        string    `bson:"time" json:"time"`
	Type        string    `bson:"type" json:"type"`
	Status      Status    `bson:"status" json:"status"`
	PreNotes    string    `bson:"preNotes" json:"preNotes"`
	Notes       []Note    `bson:"notes" json:"notes"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

type CreateRequest struct {
	ClientName  string `json:"clientName" validate:"required,max=120"`
	ClientEmail string `json:"clientEmail" validate:"required,email"`
	ClientPhone string `json:"clientPhone" validate:"omitempty,phone"`
	Date        string `json:"date" validate:"required,date"`
	Time        string `json:"time" validate:"required,clock"`
	Type        string `json:"type" validate:"required,max=120"`
	PreNotes    string `json:"preNotes" validate:"max=4000"`
}

type UpdateRequest struct {
	ClientName  patch.Field[string] `json:"clientName" validate:"omitempty,max=120"`
	ClientEmail patch.Field[string] `json:"clientEmail" validate:"omitempty,email"`
	ClientPhone patch.Field[string] `json:"clientPhone" validate:"omitempty,phone"`
	Date        patch.Field[string] `json:"date" validate:"omitempty,date"`
	Time        patch.Field[string] `json:"time" validate:"omitempty,clock"`
	Type        patch.Field[string] `json:"type" validate:"omitempty,max=120"`
	Status      patch.Field[string] `json:"status" validate:"omitempty,oneof=confirmed pending completed cancelled"`
	PreNotes    patch.Field[string] `json:"preNotes" validate:"omitempty,max=4000"`
}

type StatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=confirmed pending completed cancelled"`
}

type PreNotesRequest struct {
	PreNotes string `json:"preNotes" validate:"max=4000"`
}

type AddNoteRequest struct {
	Text   string `json:"text" validate:"required,max=4000"`
	Author string `json:"author" validate:"required,max=120"`
}
