package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier sends booking confirmation emails through SendGrid.
type SendGridNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) *SendGridNotifier {
	return &SendGridNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridNotifier) SendConfirmation(ctx context.Context, email, name string, d ConfirmationDetails) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(name, email)

	subject := fmt.Sprintf("Booking confirmed: %s", d.Title)
	plain := fmt.Sprintf(
		"Hi %s,\n\nYour spot for %s on %s is confirmed. We charged %s.\n\nSee you on the mat!",
		name, d.Title, d.StartTime.Format("Mon, 02 Jan 2006 15:04"), formatAmount(d.Amount, d.Currency),
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your spot for <strong>%s</strong> on %s is confirmed. We charged %s.</p><p>See you on the mat!</p>",
		name, d.Title, d.StartTime.Format("Mon, 02 Jan 2006 15:04"), formatAmount(d.Amount, d.Currency),
	)

	message := mail.NewSingleEmail(from, subject, recipient, plain, html)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func formatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, currency)
}
