package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"strconv"
	"time"
)

// EmailService renders and delivers order emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *OrderNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// NewSMTPConfigFromEnv creates SMTP config from environment variables
func NewSMTPConfigFromEnv() *SMTPConfig {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	timeout, _ := time.ParseDuration(os.Getenv("SMTP_TIMEOUT"))
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &SMTPConfig{
		Host:      os.Getenv("SMTP_HOST"),
		Port:      port,
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromEmail: os.Getenv("FROM_EMAIL"),
		FromName:  "Screenly",
		UseTLS:    true,
		Timeout:   timeout,
	}
}

// SMTPEmailService delivers order emails over SMTP
type SMTPEmailService struct {
	config    *SMTPConfig
	templates map[NotificationType]*template.Template
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	service := &SMTPEmailService{
		config:    config,
		templates: make(map[NotificationType]*template.Template),
	}
	service.loadTemplates()
	return service, nil
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SendNotification renders the notification into an email and sends it.
// Notifications without a recipient are dropped silently; a guest who
// never supplied an email simply gets no mail.
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *OrderNotification) error {
	if notification.RecipientEmail == "" {
		log.Printf("Notification %s has no recipient, skipping", notification.ID)
		return nil
	}

	tmpl, ok := s.templates[notification.Type]
	if !ok {
		return fmt.Errorf("no template for notification type %s", notification.Type)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, notification); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.send(notification.RecipientEmail, s.subject(notification), body.String())
}

func (s *SMTPEmailService) subject(notification *OrderNotification) string {
	switch notification.Type {
	case NotificationTypeOrderConfirmed:
		return "Your tickets are confirmed"
	case NotificationTypeOrderUpdated:
		return "Your order has been updated"
	default:
		return "Notification from Screenly"
	}
}

func (s *SMTPEmailService) send(to, subject, htmlBody string) error {
	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.FromName, s.config.FromEmail, to, subject, htmlBody,
	))

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if s.config.Port == 465 {
		return s.sendWithTLS(addr, auth, to, message)
	}
	return smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
}

// sendWithTLS handles implicit-TLS servers where STARTTLS is not offered
func (s *SMTPEmailService) sendWithTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	tlsConfig := &tls.Config{ServerName: s.config.Host}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if s.config.Username != "" {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return err
	}
	if err = client.Rcpt(to); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = writer.Write(message); err != nil {
		return err
	}
	if err = writer.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func (s *SMTPEmailService) loadTemplates() {
	confirmed := `
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Your tickets are confirmed</h2>
  <p>Order <strong>{{.OrderID}}</strong> has been paid.</p>
  <ul>
    <li>Tickets: {{.TicketCount}}</li>
    <li>Total: {{printf "%.2f" .TotalCost}}</li>
    <li>Session starts: {{.SessionStart.Format "Mon, 02 Jan 2006 15:04 MST"}}</li>
  </ul>
  <p>See you at the movies!</p>
</body>
</html>`

	updated := `
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Your order has been updated</h2>
  <p>Order <strong>{{.OrderID}}</strong> is now <strong>{{.OrderState}}</strong>.</p>
  <p>Active tickets: {{.TicketCount}}</p>
</body>
</html>`

	s.templates[NotificationTypeOrderConfirmed] = template.Must(template.New("order_confirmed").Parse(confirmed))
	s.templates[NotificationTypeOrderUpdated] = template.Must(template.New("order_updated").Parse(updated))
}

// LogEmailService is a development stand-in that logs instead of sending
type LogEmailService struct{}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *OrderNotification) error {
	log.Printf("[EMAIL] To: %s, Type: %s, Order: %s, State: %s",
		notification.RecipientEmail, notification.Type, notification.OrderID, notification.OrderState)
	return nil
}
