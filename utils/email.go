package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance.
// Returns nil when no API token is configured; callers treat a nil service
// as "email disabled".
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation after checkout.
func (es *EmailService) SendOrderConfirmationEmail(toEmail, name string, orderCount int, totalAmount float64, paymentMethod string) error {
	subject := "Order Confirmation - Cart7"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! %d order(s) have been placed successfully.<br><br>Total Amount: <strong>₹%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		name, orderCount, totalAmount, paymentMethod,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
