package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/fakeapi"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.NewServer("test-store")
	fake.Store.Seed(12)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/v2", "test-store", opts...), fake
}

func TestNewPaths(t *testing.T) {
	p := NewPaths("/gingene-test/")

	assert.Equal(t, "api/gingene-test/products", p.Products)
	assert.Equal(t, "api/gingene-test/product", p.Product)
	assert.Equal(t, "api/gingene-test/carts", p.Carts)
	assert.Equal(t, "api/gingene-test/cart", p.Cart)
	assert.Equal(t, "api/gingene-test/order", p.Order)
}

func TestClient_GetDecodesReply(t *testing.T) {
	client, _ := newTestClient(t)

	var out struct {
		Products []struct {
			ID string `json:"id"`
		} `json:"products"`
	}
	err := client.Get(context.Background(), client.Paths().Products+"?page=2", &out)
	require.NoError(t, err)
	require.Len(t, out.Products, 2)
	assert.Equal(t, "p-011", out.Products[0].ID)
}

func TestClient_InterceptorSeesFailureAndErrorPropagates(t *testing.T) {
	var seen []*APIError
	client, fake := newTestClient(t, WithInterceptor(func(_ context.Context, err *APIError) {
		seen = append(seen, err)
	}))
	fake.FailNext(http.MethodGet, "/cart", http.StatusInternalServerError, "伺服器忙碌中")

	err := client.Get(context.Background(), client.Paths().Cart, nil)

	require.Error(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "伺服器忙碌中", seen[0].UserMessage())
	assert.Equal(t, http.StatusInternalServerError, seen[0].Status)
	assert.ErrorIs(t, err, ErrRejected)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Same(t, seen[0], apiErr)
}

func TestClient_FallbackMessage(t *testing.T) {
	client, fake := newTestClient(t)
	fake.FailNext(http.MethodDelete, "/carts", http.StatusBadGateway, "")

	err := client.Delete(context.Background(), client.Paths().Carts, nil)

	require.Error(t, err)
	assert.Equal(t, DefaultErrorMessage, MessageOf(err))
}

func TestClient_MessageList(t *testing.T) {
	client, _ := newTestClient(t)

	body := map[string]any{"data": map[string]any{"user": map[string]string{}}}
	err := client.Post(context.Background(), client.Paths().Order, body, nil)

	require.Error(t, err)
	assert.Contains(t, MessageOf(err), "user.name 欄位為必填")
	assert.Contains(t, MessageOf(err), "、")
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	calls := 0
	client := NewClient(srv.URL, "s", WithInterceptor(func(context.Context, *APIError) { calls++ }))
	err := client.Get(context.Background(), "api/s/cart", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1, calls)
	assert.Equal(t, DefaultErrorMessage, MessageOf(err))
}

func TestClient_SuccessFalseOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"驗證錯誤"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "s")
	err := client.Get(context.Background(), "api/s/cart", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, "驗證錯誤", MessageOf(err))
}

func TestClient_WithInterceptorCopies(t *testing.T) {
	base, fake := newTestClient(t)
	calls := 0
	scoped := base.WithInterceptor(func(context.Context, *APIError) { calls++ })

	fake.FailNext(http.MethodGet, "/cart", http.StatusInternalServerError, "x")
	fake.FailNext(http.MethodGet, "/cart", http.StatusInternalServerError, "x")
	_ = base.Get(context.Background(), base.Paths().Cart, nil)
	_ = scoped.Get(context.Background(), scoped.Paths().Cart, nil)

	assert.Equal(t, 1, calls)
}

func TestClient_TimeoutSurvivesOptionOrder(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(srv.URL, "s",
		WithTimeout(50*time.Millisecond),
		WithHTTPClient(&http.Client{}),
	)
	err := client.Get(context.Background(), "api/s/cart", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_NilHTTPClientKeepsDefault(t *testing.T) {
	client, _ := newTestClient(t, WithHTTPClient(nil), WithTimeout(time.Second))

	var out struct{}
	assert.NoError(t, client.Get(context.Background(), client.Paths().Cart, &out))
}
