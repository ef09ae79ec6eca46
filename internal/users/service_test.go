package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, time.UTC), repo
}

func TestRegisterNormalizesAndProjects(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Thandi Mokoena",
		Email:    "  Thandi@Example.COM ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "thandi@example.com", user.Email)
	assert.Equal(t, RoleClient, user.Role)
	assert.Equal(t, "https://api.dicebear.com/7.x/initials/svg?seed=Thandi+Mokoena", user.Avatar)
	assert.NotEmpty(t, user.ID)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, CustomerRegistered, stored.CustomerType)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@x.co", Password: "pw1234"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "B", Email: "A@X.co", Password: "other1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, 1, repo.count())
}

type racingRepo struct {
	*memoryRepo
}

// GetByEmail never sees the competing insert, as when two registrations
// interleave.
func (r racingRepo) GetByEmail(context.Context, string) (User, error) {
	return User{}, mongo.ErrNoDocuments
}

func TestRegisterRaceMapsDuplicateKeyToConflict(t *testing.T) {
	repo := racingRepo{newMemoryRepo()}
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@x.co", Password: "pw1234"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@x.co", Password: "pw1234"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, 1, repo.count())
}

func TestLoginRequiresExactPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@x.co", Password: "Passw0rd"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, LoginRequest{Email: "A@x.co", Password: "Passw0rd"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.co", user.Email)

	for _, pw := range []string{"passw0rd", "Passw0rd ", "Passw0r"} {
		_, err = svc.Login(ctx, LoginRequest{Email: "a@x.co", Password: pw})
		assert.True(t, errors.Is(err, apperr.ErrUnauthorized), pw)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@x.co", Password: "Passw0rd"})
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestGetUserAbsence(t *testing.T) {
	svc, _ := newTestService()
	_, found, err := svc.GetUser(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateCustomerOnlyWritesSetFields(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	created, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@x.co", Password: "pw1234"})
	require.NoError(t, err)
	_, err = repo.Update(ctx, created.ID, bson.M{"phone": "+27 82 000 0000", "country": "ZA"})
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(ctx, created.ID, UpdateCustomerRequest{
		Country:      patch.Some(""),
		CustomerType: patch.Some("vip"),
	})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Country)
	assert.Equal(t, CustomerVIP, updated.CustomerType)
	assert.Equal(t, "+27 82 000 0000", updated.Phone)
	assert.Equal(t, "A", updated.Name)

	unchanged, err := svc.UpdateCustomer(ctx, created.ID, UpdateCustomerRequest{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	_, err = svc.UpdateCustomer(ctx, "missing", UpdateCustomerRequest{Name: patch.Some("x")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRoleOfAndEnsureAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	client, err := svc.Register(ctx, RegisterRequest{Name: "Ops", Email: "ops@x.co", Password: "pw1234"})
	require.NoError(t, err)
	role, err := svc.RoleOf(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "client", role)

	promoted, err := svc.EnsureAdmin(ctx, "Ops", "OPS@x.co", "ignored")
	require.NoError(t, err)
	assert.Equal(t, client.ID, promoted.ID)
	assert.Equal(t, RoleAdmin, promoted.Role)

	fresh, err := svc.EnsureAdmin(ctx, "Root", "root@x.co", "rootpw")
	require.NoError(t, err)
	role, err = svc.RoleOf(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	_, err = svc.RoleOf(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
