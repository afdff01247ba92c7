// Package fakeapi is an in-memory stand-in for the store API. Tests run it
// behind httptest; cmd/fakeapi serves it for local development.
package fakeapi

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// Server serves one store under /v2/api/{store}.
type Server struct {
	Store *Store
	store string

	mu       sync.Mutex
	faults   []fault
	requests []string
}

type fault struct {
	method  string
	suffix  string
	status  int
	message string
}

// NewServer returns a server for the named store backed by an empty Store.
func NewServer(store string) *Server {
	return &Server{Store: NewStore(), store: strings.Trim(store, "/")}
}

// FailNext makes the next request whose method matches and whose path ends
// in suffix fail with status and message. Faults are consumed in order.
func (s *Server) FailNext(method, suffix string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{method: method, suffix: suffix, status: status, message: message})
}

// Requests returns "METHOD path" for every request seen, in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Count returns how many requests matched method and path suffix.
func (s *Server) Count(method, suffix string) int {
	n := 0
	for _, r := range s.Requests() {
		m, p, _ := strings.Cut(r, " ")
		if m == method && strings.HasSuffix(p, suffix) {
			n++
		}
	}
	return n
}

// Handler builds the gin engine.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.inject)

	g := r.Group("/v2/api/" + s.store)
	g.GET("/products", s.listProducts)
	g.GET("/product/:id", s.getProduct)
	g.GET("/cart", s.getCart)
	g.POST("/cart", s.addCart)
	g.PUT("/cart/:id", s.updateCart)
	g.DELETE("/cart/:id", s.deleteLine)
	g.DELETE("/carts", s.clearCart)
	g.POST("/order", s.createOrder)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "找不到路徑")
	})
	return r
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, c.Request.Method+" "+c.Request.URL.Path)
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	for i, f := range s.faults {
		if f.method == c.Request.Method && strings.HasSuffix(c.Request.URL.Path, f.suffix) {
			s.faults = append(s.faults[:i], s.faults[i+1:]...)
			s.mu.Unlock()
			fail(c, f.status, f.message)
			return
		}
	}
	s.mu.Unlock()
	c.Next()
}

func fail(c *gin.Context, status int, message string) {
	body := gin.H{"success": false}
	if message != "" {
		body["message"] = message
	}
	c.AbortWithStatusJSON(status, body)
}

func (s *Server) listProducts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		fail(c, http.StatusBadRequest, "頁碼格式錯誤")
		return
	}
	products, p := s.Store.Page(page)
	p.Category = c.Query("category")
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"products":   products,
		"pagination": p,
		"messages":   []string{},
	})
}

func (s *Server) getProduct(c *gin.Context) {
	p, err := s.Store.Product(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     s.Store.Cart(),
		"messages": []string{},
	})
}

type lineRequest struct {
	Data struct {
		ProductID string `json:"product_id"`
		Qty       int    `json:"qty"`
	} `json:"data"`
}

func (s *Server) addCart(c *gin.Context) {
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "資料格式錯誤")
		return
	}
	line, err := s.Store.AddToCart(req.Data.ProductID, req.Data.Qty)
	if err != nil {
		storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "已加入購物車", "data": line})
}

func (s *Server) updateCart(c *gin.Context) {
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "資料格式錯誤")
		return
	}
	line, err := s.Store.UpdateLine(c.Param("id"), req.Data.ProductID, req.Data.Qty)
	if err != nil {
		storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "已更新購物車", "data": line})
}

func (s *Server) deleteLine(c *gin.Context) {
	if err := s.Store.RemoveLine(c.Param("id")); err != nil {
		storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "已刪除"})
}

func (s *Server) clearCart(c *gin.Context) {
	s.Store.ClearCart()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "已全部刪除"})
}

type orderRequest struct {
	Data struct {
		User    customer `json:"user"`
		Message string   `json:"message"`
	} `json:"data"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "資料格式錯誤")
		return
	}

	var missing []string
	u := req.Data.User
	if u.Name == "" {
		missing = append(missing, "user.name 欄位為必填")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		missing = append(missing, "user.email Email 格式不正確")
	}
	if u.Tel == "" {
		missing = append(missing, "user.tel 欄位為必填")
	}
	if u.Address == "" {
		missing = append(missing, "user.address 欄位為必填")
	}
	if len(missing) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": missing})
		return
	}

	order, err := s.Store.PlaceOrder(u, req.Data.Message)
	if err != nil {
		storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "已建立訂單",
		"total":     order.Total,
		"create_at": order.CreateAt,
		"orderId":   order.ID,
	})
}

func storeFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errProductNotFound), errors.Is(err, errLineNotFound):
		fail(c, http.StatusNotFound, err.Error())
	default:
		fail(c, http.StatusBadRequest, err.Error())
	}
}
