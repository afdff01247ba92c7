package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/services"
)

// SessionCookie, oturum id'sini taşıyan çerezin adıdır.
const SessionCookie = "user_session"

const sessionCookieMaxAge = 3600 * 24 * 30

// ErrSessionNotFound, mevcut oturum gereken isteklerde döner.
var ErrSessionNotFound = errors.New("session not found")

// Handler, mağaza sayfasını ve kullanıcı işlemlerini sunar.
type Handler struct {
	sessions     *Sessions
	defaultPage  int
	secureCookie bool
	logger       *slog.Logger
}

// NewHandler, yeni bir Handler oluşturur. İlk ziyarette defaultPage yüklenir.
// secureCookie, oturum çerezini sadece HTTPS ile gönderir.
func NewHandler(sessions *Sessions, defaultPage int, secureCookie bool, logger *slog.Logger) *Handler {
	if defaultPage < 1 {
		defaultPage = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sessions: sessions, defaultPage: defaultPage, secureCookie: secureCookie, logger: logger}
}

// Register, tüm route'ları r üzerine kaydeder.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.HomePage)
	r.GET("/healthz", h.Health)
	r.GET("/alerts", h.Alerts)

	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.OpenProduct)

	r.POST("/modal/close", h.CloseModal)
	r.POST("/modal/cart", h.ModalAddCart)

	r.GET("/cart", h.GetCart)
	r.POST("/cart", h.AddToCart)
	r.PUT("/cart/:productId", h.UpdateCartItem)
	r.DELETE("/cart/:id", h.RemoveFromCart)
	r.DELETE("/cart", h.ClearCart)

	r.POST("/order", h.Checkout)
}

// session, çerez yoksa veya eskiyse yeni bir oturum başlatır.
func (h *Handler) session(c *gin.Context) *Session {
	if id, _ := c.Cookie(SessionCookie); id != "" {
		if s, ok := h.sessions.Get(id); ok {
			return s
		}
	}
	s := h.sessions.Create()
	c.SetCookie(SessionCookie, s.ID, sessionCookieMaxAge, "/", "", h.secureCookie, true)
	h.logger.Info("Handler.session - created", "session", s.ID)
	return s
}

func (h *Handler) existingSession(c *gin.Context) (*Session, error) {
	id, _ := c.Cookie(SessionCookie)
	if id == "" {
		return nil, ErrSessionNotFound
	}
	s, ok := h.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// respond, oturum durumunu bekleyen uyarılarla birlikte yazar.
func (h *Handler) respond(c *gin.Context, s *Session, err error, extra gin.H) {
	alerts, reset := s.Drain()
	body := gin.H{
		"success":   err == nil,
		"state":     s.Controller.State(),
		"alerts":    alerts,
		"formReset": reset,
	}
	for k, v := range extra {
		body[k] = v
	}
	if err != nil {
		body["error"] = errorMessage(err)
	}
	c.JSON(statusOf(err), body)
}

func statusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, services.ErrInvalidPage),
		errors.Is(err, services.ErrMissingProductID),
		errors.Is(err, services.ErrMissingItemID),
		errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// errorMessage, sayfada err için gösterilecek metindir. Girdi hataları istek
// atılmadan yakalandığı için uyarıları yoktur; sayfa bunu gösterir.
func errorMessage(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.UserMessage()
	case errors.Is(err, services.ErrInvalidQuantity):
		return "數量需大於 0"
	case errors.Is(err, services.ErrInvalidPage):
		return "頁碼錯誤"
	case errors.Is(err, services.ErrMissingProductID), errors.Is(err, services.ErrMissingItemID):
		return "資料格式錯誤"
	case errors.Is(err, ErrSessionNotFound):
		return "找不到工作階段"
	default:
		return api.DefaultErrorMessage
	}
}

// HomePage, ana sayfayı render eder. İlk yükleme tam başarılı olana kadar
// veya ?page= verildiğinde ürünler ve sepet yüklenir. Sonraki ziyaretlerde
// sadece sepet yenilenir.
func (h *Handler) HomePage(c *gin.Context) {
	s := h.session(c)
	ctx := c.Request.Context()

	page, explicit := h.defaultPage, false
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page, explicit = p, true
	}

	if !s.isMounted() || explicit {
		if err := s.Controller.Mount(ctx, page); err != nil {
			h.logger.Error("Handler.HomePage - mount failed", "session", s.ID, "page", page, "error", err)
		} else {
			s.setMounted()
		}
	} else if err := s.Controller.FetchCart(ctx); err != nil {
		h.logger.Error("Handler.HomePage - cart refresh failed", "session", s.ID, "error", err)
	}

	alerts, reset := s.Drain()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":     "商品列表",
		"State":     s.Controller.State(),
		"Alerts":    alerts,
		"FormReset": reset,
	})
}

// Health, servis ayakta mı bildirir.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Len()})
}

// Alerts, oturumun bekleyen uyarılarını döner ve temizler.
func (h *Handler) Alerts(c *gin.Context) {
	s, err := h.existingSession(c)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"success": false, "error": "找不到工作階段"})
		return
	}
	alerts, reset := s.Drain()
	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": alerts, "formReset": reset})
}

func (h *Handler) ListProducts(c *gin.Context) {
	s := h.session(c)
	page := h.defaultPage
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			h.respond(c, s, services.ErrInvalidPage, nil)
			return
		}
		page = p
	}
	err := s.Controller.LoadProducts(c.Request.Context(), page)
	h.respond(c, s, err, nil)
}

func (h *Handler) OpenProduct(c *gin.Context) {
	s := h.session(c)
	err := s.Controller.OpenProduct(c.Request.Context(), c.Param("id"))
	h.respond(c, s, err, nil)
}

func (h *Handler) CloseModal(c *gin.Context) {
	s := h.session(c)
	s.Controller.CloseModal()
	h.respond(c, s, nil, nil)
}

type cartRequest struct {
	ProductID string `json:"product_id" form:"product_id"`
	Qty       int    `json:"qty" form:"qty"`
}

func (h *Handler) ModalAddCart(c *gin.Context) {
	s := h.session(c)
	var req cartRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Handler.ModalAddCart - bind error", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "資料格式錯誤"})
		return
	}
	err := s.Controller.ModalAddCart(c.Request.Context(), req.ProductID, req.Qty)
	h.respond(c, s, err, nil)
}

func (h *Handler) GetCart(c *gin.Context) {
	s := h.session(c)
	err := s.Controller.FetchCart(c.Request.Context())
	h.respond(c, s, err, nil)
}

func (h *Handler) AddToCart(c *gin.Context) {
	s := h.session(c)
	var req cartRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Handler.AddToCart - bind error", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "資料格式錯誤"})
		return
	}
	err := s.Controller.AddCart(c.Request.Context(), req.ProductID, req.Qty)
	h.respond(c, s, err, nil)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	s := h.session(c)
	var req cartRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Handler.UpdateCartItem - bind error", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "資料格式錯誤"})
		return
	}
	err := s.Controller.UpdateQty(c.Request.Context(), c.Param("productId"), req.Qty)
	h.respond(c, s, err, nil)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	s := h.session(c)
	err := s.Controller.RemoveItem(c.Request.Context(), c.Param("id"))
	h.respond(c, s, err, nil)
}

func (h *Handler) ClearCart(c *gin.Context) {
	s := h.session(c)
	err := s.Controller.ClearCart(c.Request.Context())
	h.respond(c, s, err, nil)
}

// Checkout, sipariş formunu doğrular ve siparişi gönderir. Geçersiz formlar
// alan bazlı mesajlarla döner, API'ye hiç gitmez.
func (h *Handler) Checkout(c *gin.Context) {
	s := h.session(c)
	var form models.CheckoutForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  ValidationMessages(err),
		})
		return
	}

	s.Controller.SetMessage(form.Message)
	res, err := s.Controller.SubmitOrder(c.Request.Context(), form.Labels())
	extra := gin.H{}
	if res.OrderID != "" {
		extra["order"] = res
	}
	h.respond(c, s, err, extra)
}
