package fakeapi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PageSize is how many products one catalogue page holds.
const PageSize = 10

var (
	errProductNotFound = errors.New("找不到產品")
	errLineNotFound    = errors.New("找不到購物車項目")
	errBadQty          = errors.New("數量需大於 0")
	errEmptyCart       = errors.New("購物車內無資料")
)

// Product is the wire shape of a catalogue entry.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	OriginPrice int    `json:"origin_price"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Content     string `json:"content"`
	IsEnabled   int    `json:"is_enabled"`
	ImageURL    string `json:"imageUrl"`
}

type pagination struct {
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	HasPre      bool   `json:"has_pre"`
	HasNext     bool   `json:"has_next"`
	Category    string `json:"category"`
}

type cartLine struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	Qty        int     `json:"qty"`
	Total      int     `json:"total"`
	FinalTotal int     `json:"final_total"`
	Product    Product `json:"product"`
}

type cartData struct {
	Carts      []cartLine `json:"carts"`
	Total      int        `json:"total"`
	FinalTotal int        `json:"final_total"`
}

type customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Tel     string `json:"tel"`
	Address string `json:"address"`
}

// Order is what the fake keeps for each submitted order.
type Order struct {
	ID       string     `json:"id"`
	User     customer   `json:"user"`
	Message  string     `json:"message"`
	Lines    []cartLine `json:"products"`
	Total    int        `json:"total"`
	CreateAt int64      `json:"create_at"`
}

// Store holds the in-memory catalogue, cart and orders of one store.
type Store struct {
	mu       sync.RWMutex
	products []Product
	cart     []cartLine
	orders   []Order
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Seed adds n generated products.
func (s *Store) Seed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := []string{"蔬菜", "水果", "飲品"}
	for i := 1; i <= n; i++ {
		price := 100 + i*10
		s.products = append(s.products, Product{
			ID:          fmt.Sprintf("p-%03d", i),
			Title:       fmt.Sprintf("Product %d", i),
			Category:    categories[i%len(categories)],
			Unit:        "個",
			OriginPrice: price + 20,
			Price:       price,
			Description: fmt.Sprintf("Description of product %d", i),
			IsEnabled:   1,
		})
	}
}

// AddProduct appends p to the catalogue.
func (s *Store) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

// Page returns one page of products; pages start at 1. Out-of-range pages
// return an empty list.
func (s *Store) Page(page int) ([]Product, pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	totalPages := (len(s.products) + PageSize - 1) / PageSize
	start := (page - 1) * PageSize
	items := []Product{}
	if start < len(s.products) {
		end := min(start+PageSize, len(s.products))
		items = append(items, s.products[start:end]...)
	}
	return items, pagination{
		TotalPages:  totalPages,
		CurrentPage: page,
		HasPre:      page > 1,
		HasNext:     page < totalPages,
	}
}

// Product looks a product up by id.
func (s *Store) Product(id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productLocked(id)
}

func (s *Store) productLocked(id string) (Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, errProductNotFound
}

// Cart returns the current cart with totals.
func (s *Store) Cart() cartData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartLocked()
}

func (s *Store) cartLocked() cartData {
	data := cartData{Carts: make([]cartLine, 0, len(s.cart))}
	for _, line := range s.cart {
		line.Total = line.Product.Price * line.Qty
		line.FinalTotal = line.Total
		data.Carts = append(data.Carts, line)
		data.Total += line.Total
	}
	data.FinalTotal = data.Total
	return data
}

// AddToCart adds qty of a product, merging with an existing line.
func (s *Store) AddToCart(productID string, qty int) (cartLine, error) {
	if qty < 1 {
		return cartLine{}, errBadQty
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.productLocked(productID)
	if err != nil {
		return cartLine{}, err
	}
	for i := range s.cart {
		if s.cart[i].ProductID == productID {
			s.cart[i].Qty += qty
			return s.cart[i], nil
		}
	}
	line := cartLine{ID: uuid.NewString(), ProductID: productID, Qty: qty, Product: p}
	s.cart = append(s.cart, line)
	return line, nil
}

// UpdateLine sets the quantity of the line addressed by id, which may be the
// line id or the product id.
func (s *Store) UpdateLine(id, productID string, qty int) (cartLine, error) {
	if qty < 1 {
		return cartLine{}, errBadQty
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		line := s.cart[i]
		if line.ID == id || line.ProductID == id || (productID != "" && line.ProductID == productID) {
			s.cart[i].Qty = qty
			return s.cart[i], nil
		}
	}
	return cartLine{}, errLineNotFound
}

// RemoveLine deletes the line with the given line id.
func (s *Store) RemoveLine(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.cart {
		if line.ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return nil
		}
	}
	return errLineNotFound
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// PlaceOrder turns the cart into an order and empties the cart.
func (s *Store) PlaceOrder(user customer, message string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return Order{}, errEmptyCart
	}
	data := s.cartLocked()
	order := Order{
		ID:       uuid.NewString(),
		User:     user,
		Message:  message,
		Lines:    data.Carts,
		Total:    data.FinalTotal,
		CreateAt: time.Now().Unix(),
	}
	s.orders = append(s.orders, order)
	s.cart = nil
	return order, nil
}

// Orders returns a copy of all placed orders.
func (s *Store) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Order(nil), s.orders...)
}
