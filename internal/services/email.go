package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"storefront/internal/models"
)

// Mailer, *gomail.Dialer tarafından karşılanır.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService, sipariş onay e-postalarını gönderir. SMTP bilgileri yoksa
// sadece loglar.
type EmailService struct {
	mailer Mailer
	from   string
	logger *slog.Logger
}

// SMTPSettings, mail sunucusu bilgileridir.
type SMTPSettings struct {
	Host string
	Port int
	User string
	Pass string
}

// NewEmailService, yeni bir EmailService oluşturur. Bilgiler boşsa gönderim kapalıdır.
func NewEmailService(smtp SMTPSettings, logger *slog.Logger) *EmailService {
	if smtp.User == "" || smtp.Pass == "" {
		logger.Info("EmailService - SMTP credentials not set, order mail disabled")
		return &EmailService{from: "noreply@storefront.local", logger: logger}
	}
	return &EmailService{
		mailer: gomail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Pass),
		from:   smtp.User,
		logger: logger,
	}
}

// NewEmailServiceWithMailer, gönderici dışarıdan verildiğinde kullanılır.
func NewEmailServiceWithMailer(mailer Mailer, from string, logger *slog.Logger) *EmailService {
	return &EmailService{mailer: mailer, from: from, logger: logger}
}

// OrderPlaced, kabul edilen sipariş için müşteriye onay maili gönderir.
func (es *EmailService) OrderPlaced(_ context.Context, form models.OrderForm, result models.OrderResult) error {
	if es.mailer == nil {
		es.logger.Info("EmailService.OrderPlaced - mail disabled", "order_id", result.OrderID, "to", form.User.Email)
		return nil
	}
	if form.User.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", form.User.Email)
	m.SetHeader("Subject", "訂單確認 "+result.OrderID)
	m.SetBody("text/html", orderMailBody(form, result))

	if err := es.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("send order mail: %w", err)
	}
	es.logger.Info("EmailService.OrderPlaced - sent", "order_id", result.OrderID, "to", form.User.Email)
	return nil
}

func orderMailBody(form models.OrderForm, result models.OrderResult) string {
	created := time.Unix(result.CreateAt, 0).Format("2006-01-02 15:04")
	return fmt.Sprintf(`
		<h2>訂單已送出</h2>
		<p>%s 您好，</p>
		<p>訂單編號：%s</p>
		<p>金額：NT$ %s</p>
		<p>建立時間：%s</p>
		<p>寄送地址：%s</p>
		<p>我們會盡快與您聯繫。</p>
	`,
		html.EscapeString(form.User.Name),
		html.EscapeString(result.OrderID),
		result.Total.StringFixed(0),
		created,
		html.EscapeString(form.User.Address),
	)
}
