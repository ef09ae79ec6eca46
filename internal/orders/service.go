package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/products"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/users"
)

var ErrNotFound = apperr.New(apperr.ErrNotFound, "order not found")

// Catalog resolves the products a checkout refers to.
type Catalog interface {
	Get(ctx context.Context, id string) (products.Product, bool, error)
}

type Notifier interface {
	SendOrderNotification(ctx context.Context, order Order) (string, error)
	SendOrderConfirmation(ctx context.Context, order Order) (string, error)
}

// UserDirectory is the read side of the user store needed to join orders
// with their accounts.
type UserDirectory interface {
	List(ctx context.Context) ([]users.User, error)
}

type Service struct {
	repo     Repository
	catalog  Catalog
	users    UserDirectory
	notifier Notifier
	location *time.Location
}

func NewService(repo Repository, catalog Catalog, directory UserDirectory, notifier Notifier, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		users:    directory,
		notifier: notifier,
		location: location,
	}
}

// Totals returns the item subtotal and the amount due, which never goes
// below zero.
func Totals(items []Item, discountAmount, shippingCost, tax float64) (subtotal, total float64) {
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	total = subtotal - discountAmount + shippingCost + tax
	if total < 0 {
		total = 0
	}
	return subtotal, total
}

// Create records a checkout. userID is empty for guest checkouts. Item names
// and prices are taken from the catalog, not from the request.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Order, error) {
	items := make([]Item, 0, len(req.Items))
	for _, item := range req.Items {
		priced, err := s.priceItem(ctx, item)
		if err != nil {
			return Order{}, err
		}
		items = append(items, priced)
	}
	_, total := Totals(items, req.DiscountAmount, req.ShippingCost, req.Tax)

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	shipping := req.Shipping
	shipping.Name = strings.TrimSpace(shipping.Name)
	shipping.Email = strings.ToLower(strings.TrimSpace(shipping.Email))

	order := Order{
		ID:             primitive.NewObjectID().Hex(),
		UserID:         strings.TrimSpace(userID),
		Items:          items,
		Shipping:       shipping,
		Total:          total,
		Status:         StatusPending,
		PaymentMethod:  strings.TrimSpace(req.PaymentMethod),
		DiscountCode:   strings.TrimSpace(req.DiscountCode),
		DiscountAmount: req.DiscountAmount,
		ShippingCost:   req.ShippingCost,
		Tax:            req.Tax,
		Currency:       currency,
		CreatedAt:      time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// priceItem snapshots the stored name and price of the item's product. Only
// active products can be ordered.
func (s *Service) priceItem(ctx context.Context, item Item) (Item, error) {
	item.ProductID = strings.TrimSpace(item.ProductID)
	product, found, err := s.catalog.Get(ctx, item.ProductID)
	if err != nil {
		return Item{}, err
	}
	if !found {
		return Item{}, apperr.New(apperr.ErrValidation, fmt.Sprintf("product %q does not exist", item.ProductID))
	}
	if product.Status != products.StatusActive {
		return Item{}, apperr.New(apperr.ErrValidation, fmt.Sprintf("%s is not available", product.Name))
	}
	item.ProductName = product.Name
	item.Price = product.Price
	return item, nil
}

func (s *Service) List(ctx context.Context, status string) ([]Order, error) {
	return s.repo.List(ctx, strings.TrimSpace(status))
}

func (s *Service) Get(ctx context.Context, id string) (Order, bool, error) {
	order, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Order{}, false, nil
		}
		return Order{}, false, err
	}
	return order, true, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, strings.TrimSpace(userID))
}

// ListWithUsers joins every order with its account. Guest orders and orders
// whose account is gone come back without user fields.
func (s *Service) ListWithUsers(ctx context.Context) ([]WithUser, error) {
	all, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	byID := map[string]users.User{}
	if s.users != nil {
		accounts, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range accounts {
			byID[u.ID] = u
		}
	}

	out := make([]WithUser, 0, len(all))
	for _, order := range all {
		joined := WithUser{Order: order}
		if u, ok := byID[order.UserID]; ok && order.UserID != "" {
			joined.UserName = u.Name
			joined.UserEmail = u.Email
		}
		out = append(out, joined)
	}
	return out, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	return s.apply(ctx, id, bson.M{"status": status})
}

func (s *Service) UpdatePayment(ctx context.Context, id string, req PaymentRequest) (Order, error) {
	set := bson.M{}
	patch.PutWith(set, "paymentMethod", req.PaymentMethod, strings.TrimSpace)
	if ps, ok := req.PaymentStatus.Get(); ok {
		set["paymentStatus"] = PaymentStatus(ps)
	}
	return s.apply(ctx, id, set)
}

func (s *Service) apply(ctx context.Context, id string, set bson.M) (Order, error) {
	id = strings.TrimSpace(id)
	var (
		order Order
		err   error
	)
	if len(set) == 0 {
		order, err = s.repo.Get(ctx, id)
	} else {
		order, err = s.repo.Update(ctx, id, set)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return order, nil
}

func (s *Service) NotifyNewOrder(ctx context.Context, order Order) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendOrderNotification(ctx, order)
	return err
}

func (s *Service) NotifyOrderConfirmation(ctx context.Context, order Order) error {
	if s.notifier == nil || strings.TrimSpace(order.Shipping.Email) == "" {
		return nil
	}
	_, err := s.notifier.SendOrderConfirmation(ctx, order)
	return err
}
