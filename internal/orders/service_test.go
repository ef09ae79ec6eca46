package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/products"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/users"
)

type memoryRepo struct {
	mu     sync.Mutex
	orders []Order
}

func (m *memoryRepo) Create(_ context.Context, order Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, mongo.ErrNoDocuments
}

func (m *memoryRepo) List(_ context.Context, status string) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Order{}
	for _, o := range m.orders {
		if status == "" || string(o.Status) == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, id string, set bson.M) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.orders {
		if o.ID != id {
			continue
		}
		if v, ok := set["status"]; ok {
			o.Status = v.(Status)
		}
		if v, ok := set["paymentStatus"]; ok {
			o.PaymentStatus = v.(PaymentStatus)
		}
		if v, ok := set["paymentMethod"]; ok {
			o.PaymentMethod = v.(string)
		}
		m.orders[i] = o
		return o, nil
	}
	return Order{}, mongo.ErrNoDocuments
}

type staticCatalog map[string]products.Product

func (c staticCatalog) Get(_ context.Context, id string) (products.Product, bool, error) {
	p, ok := c[id]
	return p, ok, nil
}

var testCatalog = staticCatalog{
	"p":  {ID: "p", Name: "A", Price: 1, Status: products.StatusActive},
	"p1": {ID: "p1", Name: "Vitamin C Serum", Price: 450, Status: products.StatusActive},
	"p2": {ID: "p2", Name: "Serum", Price: 100, Status: products.StatusActive},
	"p3": {ID: "p3", Name: "Retired Toner", Price: 90, Status: products.StatusHidden},
}

type staticDirectory []users.User

func (d staticDirectory) List(context.Context) ([]users.User, error) {
	return d, nil
}

type recordingNotifier struct {
	staff, customer []string
}

func (n *recordingNotifier) SendOrderNotification(_ context.Context, order Order) (string, error) {
	n.staff = append(n.staff, order.ID)
	return "msg-1", nil
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, order Order) (string, error) {
	n.customer = append(n.customer, order.Shipping.Email)
	return "msg-2", nil
}

func checkout(items ...Item) CreateRequest {
	return CreateRequest{
		Items: items,
		Shipping: Shipping{
			Name:    "Zanele Khumalo",
			Email:   "Zanele@Example.com",
			Address: "12 Long Street",
			City:    "Cape Town",
		},
	}
}

func TestTotals(t *testing.T) {
	items := []Item{
		{ProductID: "p1", Price: 100, Quantity: 2, Discount: 10},
		{ProductID: "p2", Price: 50, Quantity: 1},
	}
	subtotal, total := Totals(items, 20, 60, 15)
	assert.InDelta(t, 240.0, subtotal, 1e-9)
	assert.InDelta(t, 295.0, total, 1e-9)

	_, total = Totals(items, 1000, 0, 0)
	assert.Zero(t, total)
}

func TestCreateComputesTotalAndDefaults(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, testCatalog, nil, nil, time.UTC)

	order, err := svc.Create(context.Background(), "", checkout(
		Item{ProductID: "p2", ProductName: "Serum", Price: 100, Quantity: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, DefaultCurrency, order.Currency)
	assert.Equal(t, 300.0, order.Total)
	assert.Empty(t, order.UserID)
	assert.Equal(t, "zanele@example.com", order.Shipping.Email)

	req := checkout(Item{ProductID: "p2", ProductName: "Serum", Price: 100, Quantity: 1})
	req.Currency = "usd"
	order, err = svc.Create(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "u1", order.UserID)

	mine, err := svc.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCreatePricesItemsFromCatalog(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, testCatalog, nil, nil, time.UTC)
	ctx := context.Background()

	order, err := svc.Create(ctx, "", checkout(
		Item{ProductID: " p1 ", ProductName: "Free Serum", Price: 0.01, Quantity: 2},
	))
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "p1", order.Items[0].ProductID)
	assert.Equal(t, "Vitamin C Serum", order.Items[0].ProductName)
	assert.Equal(t, 450.0, order.Items[0].Price)
	assert.Equal(t, 900.0, order.Total)

	tests := []struct {
		name      string
		productID string
	}{
		{name: "unknown product", productID: "nope"},
		{name: "hidden product", productID: "p3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "", checkout(Item{ProductID: tt.productID, ProductName: "X", Price: 1, Quantity: 1}))
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
	assert.Len(t, repo.orders, 1)
}

func TestListWithUsersJoinsAccounts(t *testing.T) {
	repo := &memoryRepo{}
	directory := staticDirectory{{ID: "u1", Name: "Ayanda", Email: "ayanda@x.co"}}
	svc := NewService(repo, testCatalog, directory, nil, time.UTC)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", checkout(Item{ProductID: "p", ProductName: "A", Price: 1, Quantity: 1}))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "", checkout(Item{ProductID: "p", ProductName: "A", Price: 1, Quantity: 1}))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "gone", checkout(Item{ProductID: "p", ProductName: "A", Price: 1, Quantity: 1}))
	require.NoError(t, err)

	joined, err := svc.ListWithUsers(ctx)
	require.NoError(t, err)
	require.Len(t, joined, 3)
	assert.Equal(t, "Ayanda", joined[0].UserName)
	assert.Equal(t, "ayanda@x.co", joined[0].UserEmail)
	assert.Empty(t, joined[1].UserName)
	assert.Empty(t, joined[2].UserName)
}

func TestStatusAndPaymentUpdates(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, testCatalog, nil, nil, time.UTC)
	ctx := context.Background()
	order, err := svc.Create(ctx, "", checkout(Item{ProductID: "p", ProductName: "A", Price: 1, Quantity: 1}))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, updated.Status)

	updated, err = svc.UpdatePayment(ctx, order.ID, PaymentRequest{PaymentStatus: patch.Some("failed")})
	require.NoError(t, err)
	assert.Equal(t, PaymentFailed, updated.PaymentStatus)
	assert.Equal(t, StatusShipped, updated.Status)

	_, err = svc.UpdateStatus(ctx, "missing", StatusConfirmed)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = svc.UpdatePayment(ctx, "missing", PaymentRequest{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestNotifications(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(&memoryRepo{}, testCatalog, nil, notifier, time.UTC)
	order, err := svc.Create(context.Background(), "", checkout(Item{ProductID: "p", ProductName: "A", Price: 1, Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, svc.NotifyNewOrder(context.Background(), order))
	require.NoError(t, svc.NotifyOrderConfirmation(context.Background(), order))
	assert.Equal(t, []string{order.ID}, notifier.staff)
	assert.Equal(t, []string{"zanele@example.com"}, notifier.customer)

	assert.NoError(t, NewService(&memoryRepo{}, testCatalog, nil, nil, time.UTC).NotifyNewOrder(context.Background(), order))
}

func TestRevenueStatuses(t *testing.T) {
	for _, s := range Statuses {
		want := s != StatusCancelled && s != StatusRefunded
		assert.Equal(t, want, s.CountsAsRevenue(), s)
	}
}
