// Package session holds the state of one storefront client: cart, signed-in
// user and toast queue. Build one App per client instance.
package session

import (
	"context"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/orders"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/validation"
)

type App struct {
	Cart   *Cart
	Auth   *Auth
	Toasts *Toasts

	placer OrderPlacer
}

func NewApp(placer OrderPlacer, urls URLRewriter, val *validation.Validator) *App {
	return &App{
		Cart:   NewCart(urls, val),
		Auth:   &Auth{},
		Toasts: &Toasts{},
		placer: placer,
	}
}

// Checkout places the cart as the signed-in user (or as a guest) and
// reports the outcome as a toast.
func (a *App) Checkout(ctx context.Context, shipping orders.Shipping, paymentMethod string) (orders.Order, error) {
	order, err := a.Cart.Checkout(ctx, a.placer, a.Auth.UserID(), shipping, paymentMethod)
	if err != nil {
		a.Toasts.Push(ToastError, apperr.Message(err))
		return orders.Order{}, err
	}
	a.Toasts.Push(ToastSuccess, "Order placed")
	return order, nil
}
