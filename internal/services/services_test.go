package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"storefront/internal/api"
	"storefront/internal/fakeapi"
	"storefront/internal/models"
)

const testStore = "test-store"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFake(t *testing.T, products int) (*api.Client, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.NewServer(testStore)
	fake.Store.Seed(products)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/v2", testStore, api.WithLogger(discardLogger())), fake
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "", want: PhoneRequiredMessage},
		{name: "only spaces", value: "   ", want: PhoneRequiredMessage},
		{name: "valid", value: "0912345678"},
		{name: "valid with surrounding spaces", value: " 0912345678 "},
		{name: "wrong prefix", value: "12345678", want: PhoneInvalidMessage},
		{name: "too short", value: "091234567", want: PhoneInvalidMessage},
		{name: "too long", value: "09123456789", want: PhoneInvalidMessage},
		{name: "letters", value: "09abcdefgh", want: PhoneInvalidMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhone(tt.value)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestCatalogService_ListProducts(t *testing.T) {
	client, _ := newFake(t, 25)
	cs := NewCatalogService(client, discardLogger())

	products, page, err := cs.ListProducts(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, products, 5)
	assert.Equal(t, "p-021", products[0].ID)
	assert.Equal(t, 3, page.CurrentPage)
	assert.True(t, page.HasPre)
	assert.False(t, page.HasNext)

	_, _, err = cs.ListProducts(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestCatalogService_GetProduct(t *testing.T) {
	client, _ := newFake(t, 3)
	cs := NewCatalogService(client, discardLogger())

	p, err := cs.GetProduct(context.Background(), "p-002")
	require.NoError(t, err)
	assert.Equal(t, "Product 2", p.Title)
	assert.True(t, p.OnSale())

	_, err = cs.GetProduct(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "找不到產品", api.MessageOf(err))

	_, err = cs.GetProduct(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingProductID)
}

func TestCartService_RoundTrip(t *testing.T) {
	client, fake := newFake(t, 5)
	cs := NewCartService(client, discardLogger())
	ctx := context.Background()

	msg, err := cs.AddCart(ctx, "p-001", 2)
	require.NoError(t, err)
	assert.Equal(t, "已加入購物車", msg)

	cart, err := cs.FetchCart(ctx)
	require.NoError(t, err)
	line, ok := cart.Find("p-001")
	require.True(t, ok)
	assert.Equal(t, 2, line.Qty)
	assert.Equal(t, "220", cart.FinalTotal.String())

	_, err = cs.UpdateQty(ctx, "p-001", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Count(http.MethodPut, "/cart/p-001"))

	cart, err = cs.FetchCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Carts[0].Qty)

	_, err = cs.RemoveItem(ctx, cart.Carts[0].ID)
	require.NoError(t, err)
	cart, err = cs.FetchCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Carts)
}

func TestCartService_ClearCart(t *testing.T) {
	client, fake := newFake(t, 5)
	cs := NewCartService(client, discardLogger())
	ctx := context.Background()

	for _, id := range []string{"p-001", "p-002", "p-003"} {
		_, err := cs.AddCart(ctx, id, 1)
		require.NoError(t, err)
	}

	_, err := cs.ClearCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Count(http.MethodDelete, "/carts"))

	cart, err := cs.FetchCart(ctx)
	require.NoError(t, err)
	assert.Len(t, cart.Carts, 0)
	assert.True(t, cart.Total.IsZero())
}

func TestCartService_InputChecks(t *testing.T) {
	client, fake := newFake(t, 1)
	cs := NewCartService(client, discardLogger())
	ctx := context.Background()

	_, err := cs.AddCart(ctx, "p-001", 0)
	require.NoError(t, err, "qty below one is sent as one")
	cart, err := cs.FetchCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Carts[0].Qty)

	_, err = cs.UpdateQty(ctx, "p-001", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = cs.RemoveItem(ctx, "")
	assert.ErrorIs(t, err, ErrMissingItemID)
	_, err = cs.AddCart(ctx, "", 1)
	assert.ErrorIs(t, err, ErrMissingProductID)

	assert.Zero(t, fake.Count(http.MethodPut, "/cart/p-001"))
}

type recordingMailer struct {
	sent []*gomail.Message
	err  error
}

func (m *recordingMailer) DialAndSend(msgs ...*gomail.Message) error {
	m.sent = append(m.sent, msgs...)
	return m.err
}

func TestOrderService_SubmitOrder(t *testing.T) {
	client, fake := newFake(t, 2)
	mailer := &recordingMailer{}
	svc := NewOrderService(client, NewEmailServiceWithMailer(mailer, "shop@example.com", discardLogger()), discardLogger())
	ctx := context.Background()

	_, err := NewCartService(client, discardLogger()).AddCart(ctx, "p-002", 3)
	require.NoError(t, err)

	form := models.OrderForm{
		User: models.Customer{
			Name:    "王小明",
			Email:   "ming@example.com",
			Tel:     "0912345678",
			Address: "台北市",
		},
		Message: "請下午送達",
	}
	res, err := svc.SubmitOrder(ctx, form)
	require.NoError(t, err)

	assert.NotEmpty(t, res.OrderID)
	assert.Equal(t, "360", res.Total.String())
	require.Len(t, fake.Store.Orders(), 1)
	assert.Equal(t, "請下午送達", fake.Store.Orders()[0].Message)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"ming@example.com"}, mailer.sent[0].GetHeader("To"))
}

func TestOrderService_MailFailureDoesNotFailOrder(t *testing.T) {
	client, _ := newFake(t, 1)
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := NewOrderService(client, NewEmailServiceWithMailer(mailer, "shop@example.com", discardLogger()), discardLogger())
	ctx := context.Background()

	_, err := NewCartService(client, discardLogger()).AddCart(ctx, "p-001", 1)
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, models.OrderForm{User: models.Customer{
		Name: "a", Email: "a@example.com", Tel: "0912345678", Address: "b",
	}})
	assert.NoError(t, err)
}

func TestOrderService_Rejected(t *testing.T) {
	client, fake := newFake(t, 1)
	svc := NewOrderService(client, nil, discardLogger())
	fake.FailNext(http.MethodPost, "/order", http.StatusInternalServerError, "訂單建立失敗")

	_, err := svc.SubmitOrder(context.Background(), models.OrderForm{})
	require.Error(t, err)
	assert.Equal(t, "訂單建立失敗", api.MessageOf(err))
}
