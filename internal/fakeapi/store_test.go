package fakeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Page(t *testing.T) {
	s := NewStore()
	s.Seed(25)

	tests := []struct {
		page    int
		want    int
		first   string
		hasNext bool
	}{
		{page: 1, want: 10, first: "p-001", hasNext: true},
		{page: 3, want: 5, first: "p-021", hasNext: false},
		{page: 4, want: 0},
	}
	for _, tt := range tests {
		items, p := s.Page(tt.page)
		require.Len(t, items, tt.want, "page %d", tt.page)
		if tt.want > 0 {
			assert.Equal(t, tt.first, items[0].ID)
		}
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, tt.hasNext, p.HasNext)
	}
}

func TestStore_CartLifecycle(t *testing.T) {
	s := NewStore()
	s.Seed(3)

	line, err := s.AddToCart("p-001", 2)
	require.NoError(t, err)
	_, err = s.AddToCart("p-001", 1)
	require.NoError(t, err)

	cart := s.Cart()
	require.Len(t, cart.Carts, 1)
	assert.Equal(t, 3, cart.Carts[0].Qty)
	assert.Equal(t, 110*3, cart.Total)

	_, err = s.UpdateLine("p-001", "p-001", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Cart().Carts[0].Qty)

	assert.ErrorIs(t, s.RemoveLine("p-001"), errLineNotFound, "removal goes by line id")
	require.NoError(t, s.RemoveLine(line.ID))
	assert.Empty(t, s.Cart().Carts)

	_, err = s.AddToCart("nope", 1)
	assert.ErrorIs(t, err, errProductNotFound)
	_, err = s.AddToCart("p-002", 0)
	assert.ErrorIs(t, err, errBadQty)
}

func TestStore_PlaceOrder(t *testing.T) {
	s := NewStore()
	s.Seed(2)

	_, err := s.PlaceOrder(customer{Name: "a"}, "")
	assert.ErrorIs(t, err, errEmptyCart)

	_, err = s.AddToCart("p-002", 1)
	require.NoError(t, err)
	order, err := s.PlaceOrder(customer{Name: "a"}, "hi")
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 120, order.Total)
	assert.Empty(t, s.Cart().Carts)
	assert.Len(t, s.Orders(), 1)
}
