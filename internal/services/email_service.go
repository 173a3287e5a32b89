package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/ligna-erp/ligna-api/internal/config"
	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User, password string) error {
	data := struct {
		Name     string
		Email    string
		Password string
	}{
		Name:     user.FullName,
		Email:    user.Email,
		Password: password,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, "Your account is ready", body)
}

func (s *EmailService) SendInvoiceOverdue(ctx context.Context, user *models.User, invoice *models.Invoice) error {
	data := struct {
		Name         string
		Number       string
		CustomerName string
		RemainingDue float64
		DueDate      string
	}{
		Name:         user.FullName,
		Number:       invoice.Number,
		CustomerName: invoice.Customer.Name,
		RemainingDue: invoice.RemainingDue(),
	}
	if invoice.DueDate != nil {
		data.DueDate = invoice.DueDate.Format("2006-01-02")
	}

	body, err := s.renderTemplate("invoice_overdue.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, fmt.Sprintf("Invoice %s is overdue", invoice.Number), body)
}

func (s *EmailService) send(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
