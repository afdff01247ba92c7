// Package viewstate holds the storefront's view state and sequences the
// catalogue, cart and order calls that change it. Renderers subscribe to
// change events; they never mutate state directly.
package viewstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"storefront/internal/models"
)

// Success alert texts.
const (
	TextAdded   = "已加入購物車"
	TextUpdated = "已更改數量"
	TextRemoved = "已刪除購物車內該品項"
	TextCleared = "已清空購物車"
	TextOrdered = "訂單送出成功，我們會盡快與您聯繫"
)

// EventKind names the part of the state that changed.
type EventKind string

const (
	EventProducts   EventKind = "products"
	EventProduct    EventKind = "product"
	EventCart       EventKind = "cart"
	EventForm       EventKind = "form"
	EventLoading    EventKind = "loading"
	EventBuyLoading EventKind = "buy_loading"
	EventModal      EventKind = "modal"
)

// Event is published after every state change.
type Event struct {
	Kind  EventKind
	State State
}

// Observer receives events. It runs on the goroutine that made the change
// and must not call back into mutating controller methods.
type Observer func(Event)

// State is a snapshot of everything the view shows. Slices are replaced,
// never modified in place, so a snapshot stays valid after later changes.
type State struct {
	Products    []models.Product    `json:"products"`
	Pagination  models.Pagination   `json:"pagination"`
	ProductInfo models.Product      `json:"productInfo"`
	Cart        models.CartSnapshot `json:"cart"`
	Form        models.OrderForm    `json:"form"`
	IsLoading   bool                `json:"isLoading"`
	BuyLoading  bool                `json:"buyLoading"`
	ModalOpen   bool                `json:"modalOpen"`
}

// Controller owns one storefront view. Operations run one at a time, so
// replies are applied in the order the operations were started.
type Controller struct {
	catalog Catalog
	cart    Cart
	orders  Orders
	modal   Modal
	alerts  Alerter
	form    FormResetter
	logger  *slog.Logger

	seq sync.Mutex

	mu    sync.RWMutex
	state State

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// Deps are the collaborators of a Controller. Modal and Form may be nil.
type Deps struct {
	Catalog Catalog
	Cart    Cart
	Orders  Orders
	Modal   Modal
	Alerts  Alerter
	Form    FormResetter
	Logger  *slog.Logger
}

// NewController creates a controller with an empty cart and blank form.
func NewController(d Deps) *Controller {
	c := &Controller{
		catalog:   d.Catalog,
		cart:      d.Cart,
		orders:    d.Orders,
		modal:     d.Modal,
		alerts:    d.Alerts,
		form:      d.Form,
		logger:    d.Logger,
		observers: make(map[int]Observer),
	}
	if c.modal == nil {
		c.modal = nopModal{}
	}
	if c.form == nil {
		c.form = nopForm{}
	}
	if c.alerts == nil {
		c.alerts = AlertFunc(func(Alert) {})
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.state.Products = []models.Product{}
	c.state.Cart = models.EmptyCart()
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe registers o for change events. The returned func removes it.
func (c *Controller) Subscribe(o Observer) (cancel func()) {
	c.obsMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = o
	c.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.obsMu.Lock()
			delete(c.observers, id)
			c.obsMu.Unlock()
		})
	}
}

func (c *Controller) update(kind EventKind, fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state
	c.mu.Unlock()

	c.obsMu.Lock()
	observers := make([]Observer, 0, len(c.observers))
	for _, o := range c.observers {
		observers = append(observers, o)
	}
	c.obsMu.Unlock()

	for _, o := range observers {
		o(Event{Kind: kind, State: snapshot})
	}
}

// ToggleLoading flips the catalogue loading flag.
func (c *Controller) ToggleLoading() {
	c.update(EventLoading, func(s *State) { s.IsLoading = !s.IsLoading })
}

// ToggleBuyLoading flips the cart/order loading flag.
func (c *Controller) ToggleBuyLoading() {
	c.update(EventBuyLoading, func(s *State) { s.BuyLoading = !s.BuyLoading })
}

// Mount performs the initial load: one product page, then the cart.
func (c *Controller) Mount(ctx context.Context, page int) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	return errors.Join(c.loadProducts(ctx, page), c.fetchCart(ctx))
}

// LoadProducts replaces the product list with the given page.
func (c *Controller) LoadProducts(ctx context.Context, page int) error {
	c.seq.Lock()
	defer c.seq.Unlock()
	return c.loadProducts(ctx, page)
}

func (c *Controller) loadProducts(ctx context.Context, page int) error {
	c.ToggleLoading()
	defer c.ToggleLoading()

	products, pagination, err := c.catalog.ListProducts(ctx, page)
	if err != nil {
		c.logger.Error("Controller.LoadProducts - failed", "page", page, "error", err)
		return err
	}
	c.update(EventProducts, func(s *State) {
		s.Products = products
		s.Pagination = pagination
	})
	return nil
}

// LoadProduct replaces the selected product.
func (c *Controller) LoadProduct(ctx context.Context, id string) error {
	c.seq.Lock()
	defer c.seq.Unlock()
	return c.loadProduct(ctx, id)
}

func (c *Controller) loadProduct(ctx context.Context, id string) error {
	c.ToggleLoading()
	defer c.ToggleLoading()

	p, err := c.catalog.GetProduct(ctx, id)
	if err != nil {
		c.logger.Error("Controller.LoadProduct - failed", "product_id", id, "error", err)
		return err
	}
	c.update(EventProduct, func(s *State) { s.ProductInfo = p })
	return nil
}

// OpenProduct loads a product and shows the modal once the load succeeded.
func (c *Controller) OpenProduct(ctx context.Context, id string) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	if err := c.loadProduct(ctx, id); err != nil {
		return err
	}
	c.modal.Show()
	c.update(EventModal, func(s *State) { s.ModalOpen = true })
	return nil
}

// CloseModal hides the product modal. No request is made, but a close
// waits for earlier operations so an in-flight open cannot reopen it.
func (c *Controller) CloseModal() {
	c.seq.Lock()
	defer c.seq.Unlock()
	c.closeModal()
}

func (c *Controller) closeModal() {
	c.modal.Hide()
	c.update(EventModal, func(s *State) { s.ModalOpen = false })
}

// FetchCart replaces the cart snapshot with the server's.
func (c *Controller) FetchCart(ctx context.Context) error {
	c.seq.Lock()
	defer c.seq.Unlock()
	return c.fetchCart(ctx)
}

func (c *Controller) fetchCart(ctx context.Context) error {
	c.ToggleLoading()
	defer c.ToggleLoading()

	cart, err := c.cart.FetchCart(ctx)
	if err != nil {
		c.logger.Error("Controller.FetchCart - failed", "error", err)
		return err
	}
	c.update(EventCart, func(s *State) { s.Cart = cart })
	return nil
}

// mutate runs one cart mutation: alert on success only, then refresh the
// cart whatever the outcome. The buy flag is held for the whole sequence.
func (c *Controller) mutate(ctx context.Context, op, successText string, call func(context.Context) (string, error)) error {
	c.ToggleBuyLoading()
	defer c.ToggleBuyLoading()

	_, err := call(ctx)
	if err != nil {
		c.logger.Error("Controller."+op+" - failed", "error", err)
	} else {
		c.alerts.Fire(Alert{Icon: IconSuccess, Text: successText})
	}
	return errors.Join(err, c.fetchCart(ctx))
}

// AddCart adds qty units of a product; qty below 1 means 1.
func (c *Controller) AddCart(ctx context.Context, productID string, qty int) error {
	c.seq.Lock()
	defer c.seq.Unlock()
	return c.addCart(ctx, productID, qty)
}

func (c *Controller) addCart(ctx context.Context, productID string, qty int) error {
	return c.mutate(ctx, "AddCart", TextAdded, func(ctx context.Context) (string, error) {
		return c.cart.AddCart(ctx, productID, qty)
	})
}

// ModalAddCart adds from the product modal and then closes it, whether or
// not the add succeeded.
func (c *Controller) ModalAddCart(ctx context.Context, productID string, qty int) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	err := c.addCart(ctx, productID, qty)
	c.closeModal()
	return err
}

// UpdateQty sets the quantity of the line holding productID.
func (c *Controller) UpdateQty(ctx context.Context, productID string, qty int) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	return c.mutate(ctx, "UpdateQty", TextUpdated, func(ctx context.Context) (string, error) {
		return c.cart.UpdateQty(ctx, productID, qty)
	})
}

// RemoveItem deletes one line by its cart item id.
func (c *Controller) RemoveItem(ctx context.Context, cartItemID string) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	return c.mutate(ctx, "RemoveItem", TextRemoved, func(ctx context.Context) (string, error) {
		return c.cart.RemoveItem(ctx, cartItemID)
	})
}

// ClearCart empties the cart.
func (c *Controller) ClearCart(ctx context.Context) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	return c.mutate(ctx, "ClearCart", TextCleared, c.cart.ClearCart)
}

// SetMessage updates the order message field.
func (c *Controller) SetMessage(msg string) {
	c.update(EventForm, func(s *State) { s.Form.Message = msg })
}

// SubmitOrder maps the labelled form values onto the stored customer,
// submits the order and alerts on success. Whatever the outcome, the message
// is cleared, the form validation is reset and the cart is refreshed. The
// stored customer is blanked only after a successful order.
func (c *Controller) SubmitOrder(ctx context.Context, values map[string]string) (models.OrderResult, error) {
	c.seq.Lock()
	defer c.seq.Unlock()

	c.ToggleBuyLoading()
	defer c.ToggleBuyLoading()

	var form models.OrderForm
	c.update(EventForm, func(s *State) {
		s.Form.User = s.Form.User.Merge(models.CustomerFromLabels(values))
		form = s.Form
	})

	res, err := c.orders.SubmitOrder(ctx, form)
	if err != nil {
		c.logger.Error("Controller.SubmitOrder - failed", "error", err)
	} else {
		c.alerts.Fire(Alert{Icon: IconSuccess, Text: TextOrdered})
	}

	c.form.ResetForm()
	c.update(EventForm, func(s *State) {
		s.Form.Message = ""
		if err == nil {
			s.Form.User = models.Customer{}
		}
	})
	return res, errors.Join(err, c.fetchCart(ctx))
}
