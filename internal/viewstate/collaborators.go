package viewstate

import (
	"context"

	"storefront/internal/api"
	"storefront/internal/models"
)

// Alert icons.
const (
	IconSuccess = "success"
	IconError   = "error"
)

// Alert is one user-facing notification.
type Alert struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Alerter shows alerts to the user.
type Alerter interface {
	Fire(a Alert)
}

// Modal is the product detail dialog.
type Modal interface {
	Show()
	Hide()
}

// FormResetter clears the validation state of the checkout form.
type FormResetter interface {
	ResetForm()
}

// Catalog is what the controller needs from the catalogue service.
type Catalog interface {
	ListProducts(ctx context.Context, page int) ([]models.Product, models.Pagination, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

// Cart is what the controller needs from the cart service.
type Cart interface {
	FetchCart(ctx context.Context) (models.CartSnapshot, error)
	AddCart(ctx context.Context, productID string, qty int) (string, error)
	UpdateQty(ctx context.Context, productID string, qty int) (string, error)
	RemoveItem(ctx context.Context, cartItemID string) (string, error)
	ClearCart(ctx context.Context) (string, error)
}

// Orders is what the controller needs from the order service.
type Orders interface {
	SubmitOrder(ctx context.Context, form models.OrderForm) (models.OrderResult, error)
}

// AlertInterceptor turns failed API calls into error alerts. Install it on
// the API client the controller's services use.
func AlertInterceptor(a Alerter) api.ErrorInterceptor {
	return func(_ context.Context, err *api.APIError) {
		a.Fire(Alert{Icon: IconError, Text: err.UserMessage()})
	}
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(Alert)

func (f AlertFunc) Fire(a Alert) { f(a) }

type nopModal struct{}

func (nopModal) Show() {}
func (nopModal) Hide() {}

type nopForm struct{}

func (nopForm) ResetForm() {}
