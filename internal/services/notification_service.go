// internal/services/notification_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"gorm.io/gorm"

	"github.com/shopkite/shop-backend/internal/config"
	"github.com/shopkite/shop-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

var orderStatusTemplate = template.Must(template.New("order_status").Parse(`
<html>
<body>
	<p>Hi {{.Username}},</p>
	<p>Your order <strong>{{.OrderID}}</strong> is now <strong>{{.Status}}</strong>.</p>
	<p>Total: ${{printf "%.2f" .Total}}</p>
	<p><a href="{{.OrderURL}}">View your order</a></p>
	<p>— {{.PlatformName}}</p>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html>
<body>
	<p>Hi {{.Username}},</p>
	<p>Welcome to {{.PlatformName}}! Your account is ready.</p>
	<p><a href="{{.BaseURL}}">Start shopping</a></p>
</body>
</html>`))

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	var body bytes.Buffer
	data := map[string]interface{}{
		"Username":     user.Username,
		"PlatformName": s.config.Email.FromName,
		"BaseURL":      s.config.Frontend.BaseURL,
	}

	if err := welcomeTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, "Welcome to "+s.config.Email.FromName, body.String())
}

func (s *NotificationService) SendOrderStatusEmail(order *models.Order) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", order.UserID).Error; err != nil {
		return fmt.Errorf("failed to load order user: %w", err)
	}

	var body bytes.Buffer
	data := map[string]interface{}{
		"Username":     user.Username,
		"OrderID":      order.ID.String(),
		"Status":       order.Status,
		"Total":        order.TotalAmount,
		"OrderURL":     fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
		"PlatformName": s.config.Email.FromName,
	}

	if err := orderStatusTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Order update: %s", order.Status)
	return s.sendEmail(user.Email, subject, body.String())
}

func (s *NotificationService) sendEmail(to, subject, htmlBody string) error {
	if s.config.Email.SMTPUsername == "" {
		// Local development without SMTP credentials.
		return nil
	}

	if to == "" {
		return errors.New("recipient email is empty")
	}

	from := fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, subject, htmlBody,
	))

	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
