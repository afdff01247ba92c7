package handlers

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/api"
	"storefront/internal/services"
	"storefront/internal/viewstate"
)

// Session, bir tarayıcının mağazasıdır: controller'ı ve sayfanın alacağı
// bekleyen uyarılar ile form sıfırlamaları.
type Session struct {
	ID         string
	Controller *viewstate.Controller

	mu        sync.Mutex
	alerts    []viewstate.Alert
	formReset bool
	mounted   bool
	lastSeen  time.Time
}

// Fire, sayfa için bir uyarı kuyruğa ekler.
func (s *Session) Fire(a viewstate.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
}

// ResetForm, sipariş formunu bir sonraki render'da temizlenecek olarak işaretler.
func (s *Session) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formReset = true
}

// Drain, bekleyen uyarıları ve form sıfırlama işaretini döner ve temizler.
func (s *Session) Drain() ([]viewstate.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.alerts
	reset := s.formReset
	s.alerts = nil
	s.formReset = false
	if alerts == nil {
		alerts = []viewstate.Alert{}
	}
	return alerts, reset
}

func (s *Session) isMounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

func (s *Session) setMounted() {
	s.mu.Lock()
	s.mounted = true
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// ControllerFactory, yeni oturumun controller'ını kurar. Oturum uyarı ve
// form sıfırlayıcı olarak verilir.
type ControllerFactory func(s *Session) *viewstate.Controller

// NewControllerFactory, ortak API istemcisi üzerinde oturum başına controller
// kurar. API hataları doğru tarayıcıya uyarı olarak düşer.
func NewControllerFactory(base *api.Client, notifier services.OrderNotifier, logger *slog.Logger) ControllerFactory {
	return func(s *Session) *viewstate.Controller {
		client := base.WithInterceptor(viewstate.AlertInterceptor(s))
		sessLogger := logger.With("session", s.ID)
		return viewstate.NewController(viewstate.Deps{
			Catalog: services.NewCatalogService(client, sessLogger),
			Cart:    services.NewCartService(client, sessLogger),
			Orders:  services.NewOrderService(client, notifier, sessLogger),
			Alerts:  s,
			Form:    s,
			Logger:  sessLogger,
		})
	}
}

// Sessions, oturum id'lerini oturumlara eşler.
type Sessions struct {
	mu      sync.Mutex
	items   map[string]*Session
	factory ControllerFactory
	now     func() time.Time
}

// NewSessions, boş bir kayıt oluşturur.
func NewSessions(factory ControllerFactory) *Sessions {
	return &Sessions{
		items:   make(map[string]*Session),
		factory: factory,
		now:     time.Now,
	}
}

// Get, oturumu döner ve boşta kalma süresini yeniler.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.items[id]
	r.mu.Unlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Create, yeni id ile oturum başlatır.
func (r *Sessions) Create() *Session {
	s := &Session{ID: uuid.NewString(), lastSeen: r.now()}
	s.Controller = r.factory(s)

	r.mu.Lock()
	r.items[s.ID] = s
	r.mu.Unlock()
	return s
}

// Len, canlı oturum sayısını döner.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Cleanup, ttl'den uzun süre boşta kalan oturumları siler ve sayısını döner.
func (r *Sessions) Cleanup(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.items {
		if s.idleSince().Before(cutoff) {
			delete(r.items, id)
			n++
		}
	}
	return n
}
