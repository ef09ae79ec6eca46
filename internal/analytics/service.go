package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/blog"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/consultations"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/orders"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/products"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/programs"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/users"
)

type ProductLister interface {
	List(ctx context.Context, filter products.ListFilter) ([]products.Product, error)
}

type PostLister interface {
	List(ctx context.Context, filter blog.ListFilter) ([]blog.Post, error)
}

type ConsultationLister interface {
	List(ctx context.Context, status string) ([]consultations.Consultation, error)
}

type OrderLister interface {
	List(ctx context.Context, status string) ([]orders.Order, error)
}

type ProgramLister interface {
	List(ctx context.Context, status string) ([]programs.Program, error)
}

type UserLister interface {
	List(ctx context.Context) ([]users.User, error)
}

// Sources are the stores the metrics are computed from.
type Sources struct {
	Products      ProductLister
	Posts         PostLister
	Consultations ConsultationLister
	Orders        OrderLister
	Programs      ProgramLister
	Users         UserLister
}

type Service struct {
	src      Sources
	location *time.Location
	now      func() time.Time
}

func NewService(src Sources, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		src:      src,
		location: location,
		now:      time.Now,
	}
}

func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	var (
		productList []products.Product
		posts       []blog.Post
		bookings    []consultations.Consultation
		orderList   []orders.Order
		programList []programs.Program
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		productList, err = s.src.Products.List(ctx, products.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		posts, err = s.src.Posts.List(ctx, blog.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		bookings, err = s.src.Consultations.List(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		orderList, err = s.src.Orders.List(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		programList, err = s.src.Programs.List(ctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}

	return Dashboard(productList, posts, bookings, orderList, programList, s.location), nil
}

func (s *Service) Revenue(ctx context.Context) (RevenueMetrics, error) {
	orderList, err := s.src.Orders.List(ctx, "")
	if err != nil {
		return RevenueMetrics{}, err
	}
	return Revenue(orderList, s.now(), s.location), nil
}

func (s *Service) Operations(ctx context.Context) (OperationalMetrics, error) {
	orderList, err := s.src.Orders.List(ctx, "")
	if err != nil {
		return OperationalMetrics{}, err
	}
	return Operations(orderList), nil
}

func (s *Service) Customers(ctx context.Context) (CustomerStats, error) {
	var (
		orderList []orders.Order
		accounts  []users.User
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orderList, err = s.src.Orders.List(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		accounts, err = s.src.Users.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return CustomerStats{}, err
	}

	return Customers(orderList, accounts), nil
}
