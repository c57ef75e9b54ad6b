package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    sendGridClient
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid backed sender, or a sender that only logs when
// apiKey is empty.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return logEmailService{}
	}
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendReservationConfirmation(ctx context.Context, to *domain.Client, r *domain.Reservation) error {
	name := domain.FullName(to.Name, to.Surname)
	subject := fmt.Sprintf("Reservation #%d confirmed", r.ID)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nYour reservation of %s from %s to %s (%d days) is confirmed.\nTotal: %.2f EUR\n\nSee you on the slopes!",
		name, r.MaterialName(), r.StartDate, r.EndDate, r.Days, r.Total,
	)
	htmlContent := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your reservation of <strong>%s</strong> from %s to %s (%d days) is confirmed.</p><p>Total: <strong>%.2f EUR</strong></p>",
		name, r.MaterialName(), r.StartDate, r.EndDate, r.Days, r.Total,
	)

	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), subject, mail.NewEmail(name, to.Email), plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "reservationID", r.ID)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "reservationID", r.ID)
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

type logEmailService struct{}

func (logEmailService) SendReservationConfirmation(ctx context.Context, to *domain.Client, r *domain.Reservation) error {
	logger.InfoContext(ctx, "email disabled, confirmation not sent", "to", to.Email, "reservationID", r.ID)
	return nil
}
