package users

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type memoryRepo struct {
	mu    sync.Mutex
	byID  map[string]User
	order []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]User{}}
}

func (m *memoryRepo) Create(_ context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return errDuplicateEmail
		}
	}
	m.byID[user.ID] = user
	m.order = append(m.order, user.ID)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, mongo.ErrNoDocuments
}

func (m *memoryRepo) List(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]User, 0, len(m.byID))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, id string, set bson.M) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	for k, v := range set {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "billingAddress":
			u.BillingAddress = v.(string)
		case "shippingAddress":
			u.ShippingAddress = v.(string)
		case "country":
			u.Country = v.(string)
		case "customerType":
			u.CustomerType = v.(CustomerType)
		case "role":
			u.Role = v.(Role)
		}
	}
	m.byID[id] = u
	return u, nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
