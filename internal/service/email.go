package service

import (
	"context"
	"fmt"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sendgrid/rest"
)

// mailSender is the subset of the SendGrid client used here.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendBookingConfirmation(ctx context.Context, email string, rt *domain.Reservation, vehicle *domain.Vehicle) error {
	subject, plain, html := bookingConfirmation(rt, vehicle)
	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), subject, mail.NewEmail("", email), plain, html)

	logger.ExternalServiceCall("sendgrid", "SendBookingConfirmation", "reservationID", rt.ID)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "SendBookingConfirmation", err, "reservationID", rt.ID)
	if err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}

func bookingConfirmation(rt *domain.Reservation, vehicle *domain.Vehicle) (subject, plain, html string) {
	name := fmt.Sprintf("%s %s", vehicle.Make, vehicle.Model)
	subject = fmt.Sprintf("Booking confirmed: %s", name)
	plain = fmt.Sprintf("Your booking of the %s from %s to %s is confirmed.\n\nDaily rate: %s\nTotal: %s\nReservation: #%d",
		name, rt.Period.Start, rt.Period.End, rt.FinalDailyRate.StringFixed(2), rt.Total().StringFixed(2), rt.ID)
	html = fmt.Sprintf(`<html><body>
<h2>Booking confirmed</h2>
<p>Your booking of the <strong>%s</strong> from %s to %s is confirmed.</p>
<p>Daily rate: %s<br>Total: %s<br>Reservation: #%d</p>
</body></html>`, name, rt.Period.Start, rt.Period.End, rt.FinalDailyRate.StringFixed(2), rt.Total().StringFixed(2), rt.ID)
	return subject, plain, html
}

// logEmailService only logs; used when no SendGrid key is configured.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendBookingConfirmation(ctx context.Context, email string, rt *domain.Reservation, vehicle *domain.Vehicle) error {
	subject, _, _ := bookingConfirmation(rt, vehicle)
	logger.InfoContext(ctx, "Email not sent, no provider configured", "to", email, "subject", subject)
	return nil
}
