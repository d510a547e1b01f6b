package models

import "time"

const (
	InvoicePending   = "pending"
	InvoiceRaised    = "raised"
	InvoiceProcessed = "processed"
)

// InvoiceState is the billing sub-state embedded in both WorkOrder (whole
// order billing) and DeliveryNoteItem (per delivered line billing).
type InvoiceState struct {
	InvoiceStatus          string     `json:"invoice_status" gorm:"size:20;not null;default:pending"`
	DueInDays              int        `json:"due_in_days"`
	ReceivedDate           *time.Time `json:"received_date"`
	InvoiceFile            string     `json:"invoice_file"`
	PaymentReferenceNumber string     `json:"payment_reference_number" gorm:"size:100"`
	InvoiceRaisedAt        *time.Time `json:"invoice_raised_at"`
	InvoiceLastNotifiedAt  *time.Time `json:"invoice_last_notified_at"`
}

// DueDate is the raise date plus DueInDays, nil while not raised.
func (s InvoiceState) DueDate() *time.Time {
	if s.InvoiceRaisedAt == nil || s.DueInDays <= 0 {
		return nil
	}
	d := s.InvoiceRaisedAt.AddDate(0, 0, s.DueInDays)
	return &d
}
