package orders

import (
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// Statuses lists every order status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusRefunded,
}

// CountsAsRevenue is false for orders whose money was never kept.
func (s Status) CountsAsRevenue() bool {
	return s != StatusCancelled && s != StatusRefunded
}

type PaymentStatus string

const (
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

const DefaultCurrency = "ZAR"

type Item struct {
	ProductID   string  `bson:"productId" json:"productId" validate:"required"`
	ProductName string  `bson:"productName" json:"productName" validate:"required,max=200"`
	Price       float64 `bson:"price" json:"price" validate:"gte=0"`
	Quantity    int     `bson:"quantity" json:"quantity" validate:"gte=1"`
	Discount    float64 `bson:"discount,omitempty" json:"discount,omitempty" validate:"gte=0"`
}

// LineTotal is price times quantity less the line discount.
func (i Item) LineTotal() float64 {
	return i.Price*float64(i.Quantity) - i.Discount
}

type Shipping struct {
	Name     string `bson:"name" json:"name" validate:"required,max=120"`
	Email    string `bson:"email" json:"email" validate:"required,email"`
	Address  string `bson:"address" json:"address" validate:"required,max=300"`
	City     string `bson:"city" json:"city" validate:"required,max=120"`
	Province string `bson:"province" json:"province" validate:"max=120"`
	Zip      string `bson:"zip" json:"zip" validate:"max=20"`
}

type Order struct {
	ID             string        `bson:"_id,omitempty" json:"id"`
	UserID         string        `bson:"userId,omitempty" json:"userId,omitempty"`
	Items          []Item        `bson:"items" json:"items"`
	Shipping       Shipping      `bson:"shipping" json:"shipping"`
	Total          float64       `bson:"total" json:"total"`
	Status         Status        `bson:"status" json:"status"`
	PaymentMethod  string        `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaymentStatus  PaymentStatus `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	DiscountCode   string        `bson:"discountCode,omitempty" json:"discountCode,omitempty"`
	DiscountAmount float64       `bson:"discountAmount,omitempty" json:"discountAmount,omitempty"`
	ShippingCost   float64       `bson:"shippingCost,omitempty" json:"shippingCost,omitempty"`
	Tax            float64       `bson:"tax,omitempty" json:"tax,omitempty"`
	Currency       string        `bson:"currency,omitempty" json:"currency,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
}

// WithUser is an order joined with the account that placed it, when any.
type WithUser struct {
	Order
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

type CreateRequest struct {
	Items          []Item   `json:"items" validate:"required,min=1,dive"`
	Shipping       Shipping `json:"shipping"`
	PaymentMethod  string   `json:"paymentMethod" validate:"max=60"`
	DiscountCode   string   `json:"discountCode" validate:"max=60"`
	DiscountAmount float64  `json:"discountAmount" validate:"gte=0"`
	ShippingCost   float64  `json:"shippingCost" validate:"gte=0"`
	Tax            float64  `json:"tax" validate:"gte=0"`
	Currency       string   `json:"currency" validate:"omitempty,len=3"`
}

type StatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled refunded"`
}

type PaymentRequest struct {
	PaymentStatus patch.Field[string] `json:"paymentStatus" validate:"omitempty,oneof=paid failed refunded partially_refunded"`
	PaymentMethod patch.Field[string] `json:"paymentMethod" validate:"omitempty,max=60"`
}
