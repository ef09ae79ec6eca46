package inquiries

import "time"

type Inquiry struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Email     string    `bson:"email" json:"email"`
	Purpose   string    `bson:"purpose" json:"purpose"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type CreateRequest struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Purpose  string `json:"purpose" validate:"required,max=120"`
	Message  string `json:"message" validate:"required,max=4000"`
}
