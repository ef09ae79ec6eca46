package session

import (
	"context"
	"strings"
	"sync"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/orders"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/products"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/validation"
)

var ErrEmptyCart = apperr.New(apperr.ErrValidation, "cart is empty")

type CheckoutState string

const (
	CheckoutClosed  CheckoutState = "closed"
	CheckoutOpen    CheckoutState = "open"
	CheckoutSuccess CheckoutState = "success"
)

// OrderPlacer submits a checkout. userID is empty for guests.
type OrderPlacer interface {
	Create(ctx context.Context, userID string, req orders.CreateRequest) (orders.Order, error)
}

// URLRewriter maps storage URLs to the origin the browser can reach.
type URLRewriter interface {
	Rewrite(url string) string
}

type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the lines of one client session plus the drawer and checkout
// UI state. Total and Count are always recomputed from the lines.
type Cart struct {
	mu       sync.Mutex
	lines    []Line
	open     bool
	checkout CheckoutState
	urls     URLRewriter
	val      *validation.Validator
}

func NewCart(urls URLRewriter, val *validation.Validator) *Cart {
	return &Cart{
		checkout: CheckoutClosed,
		urls:     urls,
		val:      val,
	}
}

// AddItem merges into the line for the same product or appends a new one.
// The drawer is opened either way.
func (c *Cart) AddItem(p products.Product, qty int) {
	if qty <= 0 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = true
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += qty
			return
		}
	}

	var image string
	if len(p.Images) > 0 {
		image = p.Images[0]
		if c.urls != nil {
			image = c.urls.Rewrite(image)
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     image,
		Quantity:  qty,
	})
}

// UpdateQuantity sets the quantity of a line. Zero or less drops the line.
func (c *Cart) UpdateQuantity(productID string, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, l := range c.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var count int
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *Cart) SetOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
}

func (c *Cart) CheckoutState() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkout
}

// OpenCheckout closes the drawer and opens checkout under one lock, so no
// reader sees both open.
func (c *Cart) OpenCheckout() {
	c.mu.Lock()
	c.open = false
	c.checkout = CheckoutOpen
	c.mu.Unlock()
}

func (c *Cart) CloseCheckout() {
	c.mu.Lock()
	c.checkout = CheckoutClosed
	c.mu.Unlock()
}

// Checkout places an order for the current lines. On success the ordered
// quantities leave the cart and checkout moves to success; lines changed
// while the order was being placed keep the difference. On failure nothing
// changes.
func (c *Cart) Checkout(ctx context.Context, placer OrderPlacer, userID string, shipping orders.Shipping, paymentMethod string) (orders.Order, error) {
	c.mu.Lock()
	if len(c.lines) == 0 {
		c.mu.Unlock()
		return orders.Order{}, ErrEmptyCart
	}
	req := orders.CreateRequest{
		Items:         make([]orders.Item, 0, len(c.lines)),
		Shipping:      shipping,
		PaymentMethod: strings.TrimSpace(paymentMethod),
	}
	for _, l := range c.lines {
		req.Items = append(req.Items, orders.Item{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
	}
	c.mu.Unlock()

	if c.val != nil {
		if err := c.val.Struct(req); err != nil {
			return orders.Order{}, apperr.New(apperr.ErrValidation, "invalid checkout details")
		}
	}

	order, err := placer.Create(ctx, userID, req)
	if err != nil {
		return orders.Order{}, err
	}

	ordered := make(map[string]int, len(req.Items))
	for _, item := range req.Items {
		ordered[item.ProductID] += item.Quantity
	}

	c.mu.Lock()
	remaining := c.lines[:0]
	for _, l := range c.lines {
		l.Quantity -= ordered[l.ProductID]
		delete(ordered, l.ProductID)
		if l.Quantity > 0 {
			remaining = append(remaining, l)
		}
	}
	c.lines = remaining
	if len(c.lines) == 0 {
		c.lines = nil
	}
	c.open = false
	c.checkout = CheckoutSuccess
	c.mu.Unlock()
	return order, nil
}
