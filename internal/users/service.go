package users

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/auth"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

var (
	ErrNotFound           = apperr.New(apperr.ErrNotFound, "user not found")
	ErrEmailTaken         = apperr.New(apperr.ErrConflict, "an account with this email already exists")
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "invalid email or password")
	ErrPasswordTooLong    = apperr.New(apperr.ErrValidation, "password must be at most 72 bytes")
)

const avatarBaseURL = "https://api.dicebear.com/7.x/initials/svg?seed="

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func avatarFor(name string) string {
	return avatarBaseURL + url.QueryEscape(name)
}

// Register creates a client account. The lookup gives a clean error for the
// common case; the unique index on email settles concurrent registrations.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (PublicUser, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return PublicUser{}, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return PublicUser{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return PublicUser{}, ErrPasswordTooLong
		}
		return PublicUser{}, apperr.New(apperr.ErrValidation, "password is required")
	}

	user := User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       avatarFor(name),
		Role:         RoleClient,
		CustomerType: CustomerRegistered,
		CreatedAt:    time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, errDuplicateEmail) {
			return PublicUser{}, ErrEmailTaken
		}
		return PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (PublicUser, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return PublicUser{}, ErrInvalidCredentials
		}
		return PublicUser{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return PublicUser{}, ErrInvalidCredentials
	}
	return user.Public(), nil
}

// GetUser returns the public projection, or found == false when there is no
// such user.
func (s *Service) GetUser(ctx context.Context, id string) (PublicUser, bool, error) {
	user, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return PublicUser{}, false, nil
		}
		return PublicUser{}, false, err
	}
	return user.Public(), true, nil
}

func (s *Service) RoleOf(ctx context.Context, id string) (string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(user.Role), nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (User, error) {
	id = strings.TrimSpace(id)
	set := bson.M{}
	patch.PutWith(set, "name", req.Name, strings.TrimSpace)
	patch.PutWith(set, "phone", req.Phone, strings.TrimSpace)
	patch.PutWith(set, "billingAddress", req.BillingAddress, strings.TrimSpace)
	patch.PutWith(set, "shippingAddress", req.ShippingAddress, strings.TrimSpace)
	patch.PutWith(set, "country", req.Country, strings.TrimSpace)
	if ct, ok := req.CustomerType.Get(); ok {
		set["customerType"] = CustomerType(ct)
	}

	var (
		user User
		err  error
	)
	if len(set) == 0 {
		user, err = s.repo.GetByID(ctx, id)
	} else {
		user, err = s.repo.Update(ctx, id, set)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// EnsureAdmin creates the admin account when no user holds email yet, and
// promotes it otherwise. Runs at startup and from the seeder.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (PublicUser, error) {
	email = normalizeEmail(email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == RoleAdmin {
			return existing.Public(), nil
		}
		updated, err := s.repo.Update(ctx, existing.ID, bson.M{"role": RoleAdmin})
		if err != nil {
			return PublicUser{}, err
		}
		return updated.Public(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return PublicUser{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return PublicUser{}, err
	}
	user := User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       avatarFor(name),
		Role:         RoleAdmin,
		CreatedAt:    time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}
