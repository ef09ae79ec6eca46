package users

import (
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

type CustomerType string

const (
	CustomerGuest      CustomerType = "guest"
	CustomerRegistered CustomerType = "registered"
	CustomerWholesale  CustomerType = "wholesale"
	CustomerVIP        CustomerType = "vip"
)

type User struct {
	ID              string       `bson:"_id,omitempty" json:"id"`
	Name            string       `bson:"name" json:"name"`
	Email           string       `bson:"email" json:"email"`
	PasswordHash    string       `bson:"passwordHash" json:"-"`
	Avatar          string       `bson:"avatar" json:"avatar"`
	Role            Role         `bson:"role" json:"role"`
	Phone           string       `bson:"phone,omitempty" json:"phone,omitempty"`
	BillingAddress  string       `bson:"billingAddress,omitempty" json:"billingAddress,omitempty"`
	ShippingAddress string       `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	Country         string       `bson:"country,omitempty" json:"country,omitempty"`
	CustomerType    CustomerType `bson:"customerType,omitempty" json:"customerType,omitempty"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
}

// PublicUser is the projection handed to callers; it never carries the
// credential.
type PublicUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   Role   `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Role:   u.Role,
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateCustomerRequest struct {
	Name            patch.Field[string] `json:"name" validate:"omitempty,max=120"`
	Phone           patch.Field[string] `json:"phone" validate:"omitempty,phone"`
	BillingAddress  patch.Field[string] `json:"billingAddress"`
	ShippingAddress patch.Field[string] `json:"shippingAddress"`
	Country         patch.Field[string] `json:"country"`
	CustomerType    patch.Field[string] `json:"customerType" validate:"omitempty,oneof=guest registered wholesale vip"`
}
