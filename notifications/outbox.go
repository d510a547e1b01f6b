package notifications

import (
	"calibration-app/models"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KindWorkOrderApproved     = "work_order.approved"
	KindWorkOrderDeclined     = "work_order.declined"
	KindDeliveryNoteDelivered = "delivery_note.delivered"
	KindWorkOrderClosed       = "work_order.closed"
	KindInvoiceStatusChanged  = "invoice.status_changed"
	KindInvoiceDueReminder    = "invoice.due_reminder"
	KindInvoicePastDue        = "invoice.past_due"
)

// Event is a notification waiting to be written to the outbox. Recipients
// are added to the admin recipients resolved at send time.
type Event struct {
	Kind       string
	RefNo      string
	Subject    string
	Body       string
	Recipients []string
}

// Enqueue stores the event with tx, so it only exists if the change it
// describes commits.
func Enqueue(tx *gorm.DB, ev Event) (*models.NotificationOutbox, error) {
	recipients := ev.Recipients
	if recipients == nil {
		recipients = []string{}
	}
	raw, err := json.Marshal(recipients)
	if err != nil {
		return nil, err
	}

	row := &models.NotificationOutbox{
		Kind:          ev.Kind,
		RefNo:         ev.RefNo,
		Subject:       ev.Subject,
		Body:          ev.Body,
		Recipients:    datatypes.JSON(raw),
		Status:        models.OutboxPending,
		NextAttemptAt: time.Now().UTC(),
	}
	if err := tx.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
