package storage

import "time"

// Ticket authorizes exactly one upload until it expires.
type Ticket struct {
	Token     string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt"`
}

// File describes a stored blob.
type File struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Length      int64     `json:"length"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
