package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"storefront/internal/models"
)

// Telefon doğrulama mesajları, tel alanının yanında gösterilir.
const (
	PhoneRequiredMessage = "電話為必填"
	PhoneInvalidMessage  = "需要正確的台灣手機號碼"
)

var twMobile = regexp.MustCompile(`^09\d{8}$`)

// ValidatePhone, Tayvan cep numarasını kontrol eder: "09" ve ardından tam
// sekiz rakam. Dönen hata gösterilecek mesajı taşır.
func ValidatePhone(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return errors.New(PhoneRequiredMessage)
	}
	if !twMobile.MatchString(v) {
		return errors.New(PhoneInvalidMessage)
	}
	return nil
}

// OrderNotifier, API'nin kabul ettiği her siparişten haberdar edilir.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, form models.OrderForm, result models.OrderResult) error
}

// OrderService, siparişleri gönderir.
type OrderService struct {
	api      Requester
	notifier OrderNotifier
	logger   *slog.Logger
}

// NewOrderService, yeni bir OrderService oluşturur. notifier nil olabilir.
func NewOrderService(api Requester, notifier OrderNotifier, logger *slog.Logger) *OrderService {
	return &OrderService{api: api, notifier: notifier, logger: logger}
}

// SubmitOrder, sipariş formunu olduğu gibi gönderir.
func (s *OrderService) SubmitOrder(ctx context.Context, form models.OrderForm) (models.OrderResult, error) {
	s.logger.Info("OrderService.SubmitOrder", "email", form.User.Email)

	var res models.OrderResult
	if err := s.api.Post(ctx, s.api.Paths().Order, payload[models.OrderForm]{Data: form}, &res); err != nil {
		s.logger.Error("OrderService.SubmitOrder - failed", "error", err)
		return models.OrderResult{}, err
	}
	s.logger.Info("OrderService.SubmitOrder - accepted", "order_id", res.OrderID, "total", res.Total.String())

	if s.notifier != nil {
		// Sipariş oluştu; mail hatası siparişi bozmaz.
		if err := s.notifier.OrderPlaced(ctx, form, res); err != nil {
			s.logger.Warn("OrderService.SubmitOrder - notification failed", "order_id", res.OrderID, "error", err)
		}
	}
	return res, nil
}
