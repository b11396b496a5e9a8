// notifier.go - Combined in-app and SMS notification fan-out

package notify

import (
	"context"

	"github.com/arogyalabs/telehealth-backend/internal/storage"
)

// Notifier combines in-app notifications with best-effort SMS.
type Notifier struct {
	store *storage.Store
	sms   SMSSender
}

func NewNotifier(store *storage.Store, sms SMSSender) *Notifier {
	return &Notifier{store: store, sms: sms}
}

// NotifyAllDoctors creates an in-app notification for every doctor
// and texts the ones with a phone number on file. smsText overrides
// the notification message for the SMS body when non-empty.
func (n *Notifier) NotifyAllDoctors(ctx context.Context, template storage.Notification, smsText string) error {
	doctors, err := n.store.NotifyDoctors(ctx, template)
	if err != nil {
		return err
	}

	body := smsText
	if body == "" {
		body = template.Message
	}
	for _, doctor := range doctors {
		if doctor.Phone != "" {
			n.sms.Send(ctx, doctor.Phone, body)
		}
	}
	return nil
}

// NotifyPatient creates an in-app notification for one patient and
// optionally texts them.
func (n *Notifier) NotifyPatient(ctx context.Context, notification storage.Notification, smsText string) error {
	if err := n.store.CreateNotification(ctx, &notification); err != nil {
		return err
	}

	if smsText != "" {
		patient, err := n.store.GetUserByID(ctx, notification.UserID)
		if err == nil && patient != nil && patient.Phone != "" {
			n.sms.Send(ctx, patient.Phone, smsText)
		}
	}
	return nil
}
