// services/notifier.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"cleanpro-backend/models"
	"cleanpro-backend/store"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers client-facing notices. The lifecycle manager decides
// whether to notify and what amount to report; delivery failures are logged
// and never affect the appointment itself.
type Notifier interface {
	AppointmentScheduled(ctx context.Context, appt *models.Appointment) error
	AppointmentCancelled(ctx context.Context, appt *models.Appointment, fee float64) error
}

// SMSNotifier sends notices over Twilio SMS.
type SMSNotifier struct {
	users  store.UserStore
	client *twilio.RestClient
	from   string
}

func NewSMSNotifier(users store.UserStore) *SMSNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &SMSNotifier{
		users: users,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (n *SMSNotifier) AppointmentScheduled(ctx context.Context, appt *models.Appointment) error {
	body := fmt.Sprintf("Your cleaning is booked for %s at %s.",
		appt.ScheduledDate.Format("Mon Jan 2"), appt.ScheduledTime)
	return n.send(ctx, appt.ClientID, body)
}

func (n *SMSNotifier) AppointmentCancelled(ctx context.Context, appt *models.Appointment, fee float64) error {
	body := fmt.Sprintf("Your cleaning on %s has been cancelled.",
		appt.ScheduledDate.Format("Mon Jan 2"))
	if fee > 0 {
		body = fmt.Sprintf("%s A cancellation fee of $%.2f applies.", body, fee)
	}
	return n.send(ctx, appt.ClientID, body)
}

func (n *SMSNotifier) send(ctx context.Context, clientID uuid.UUID, body string) error {
	client, err := n.users.Get(ctx, clientID)
	if err != nil {
		return err
	}
	if client.Phone == "" {
		log.Printf("notify: client %s has no phone on file, skipping", client.ID)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(client.Phone)
	params.SetFrom(n.from)
	params.SetBody(body)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("notify: failed to send message to %s: %v", client.Phone, err)
		return err
	}
	if resp.Sid != nil {
		log.Printf("notify: message sent to %s, SID: %s", client.Phone, *resp.Sid)
	}
	return nil
}
