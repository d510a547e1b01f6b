package services

import (
	"calibration-app/controllers/helpers"
	"calibration-app/models"
	"calibration-app/notifications"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

var invoiceRank = map[string]int{
	models.InvoicePending:   0,
	models.InvoiceRaised:    1,
	models.InvoiceProcessed: 2,
}

var billableStatuses = []string{
	models.WorkOrderApproved,
	models.WorkOrderDelivered,
	models.WorkOrderClosed,
}

// InvoiceUpdate is a requested invoice change. Nil fields keep their value.
// InvoiceFile is the stored path of an uploaded file and is never read from
// a request body.
type InvoiceUpdate struct {
	Status                 string     `json:"invoice_status"`
	DueInDays              *int       `json:"due_in_days"`
	ReceivedDate           *time.Time `json:"received_date"`
	InvoiceFile            string     `json:"-" form:"-"`
	PaymentReferenceNumber *string    `json:"payment_reference_number"`
}

// ApplyInvoiceTransition returns the state after upd. Status only moves
// forward (pending, raised, processed); raised needs due_in_days > 0 and
// processed needs a received date and an invoice file. On error cur is the
// state to keep.
func ApplyInvoiceTransition(cur models.InvoiceState, upd InvoiceUpdate, now time.Time) (models.InvoiceState, error) {
	from := cur.InvoiceStatus
	if from == "" {
		from = models.InvoicePending
	}
	to := strings.ToLower(strings.TrimSpace(upd.Status))
	if to == "" {
		to = from
	}
	toRank, ok := invoiceRank[to]
	if !ok {
		return cur, NewValidationError("invoice_status", "must be pending, raised or processed")
	}
	if toRank < invoiceRank[from] {
		return cur, &PreconditionError{Operation: "set invoice " + to, Current: from, Required: invoiceSources(to)}
	}

	next := cur
	next.InvoiceStatus = to
	if upd.DueInDays != nil {
		next.DueInDays = *upd.DueInDays
	}
	if upd.ReceivedDate != nil {
		next.ReceivedDate = upd.ReceivedDate
	}
	if upd.InvoiceFile != "" {
		next.InvoiceFile = upd.InvoiceFile
	}
	if upd.PaymentReferenceNumber != nil {
		next.PaymentReferenceNumber = strings.TrimSpace(*upd.PaymentReferenceNumber)
	}

	if from == models.InvoiceProcessed {
		// processed is final, only the payment reference may still be filled in
		if next.DueInDays != cur.DueInDays || next.InvoiceFile != cur.InvoiceFile || upd.ReceivedDate != nil {
			return cur, &PreconditionError{Operation: "edit processed invoice", Current: from, Required: []string{models.InvoicePending, models.InvoiceRaised}}
		}
		return next, nil
	}

	verr := &ValidationError{}
	if to == models.InvoiceRaised && next.DueInDays <= 0 {
		verr.Add("due_in_days", "must be greater than 0")
	}
	if to == models.InvoiceProcessed {
		if next.ReceivedDate == nil {
			verr.Add("received_date", "required")
		}
		if next.InvoiceFile == "" {
			verr.Add("invoice_file", "required")
		}
	}
	if !verr.Empty() {
		return cur, verr
	}

	if to != models.InvoicePending && next.InvoiceRaisedAt == nil {
		t := now
		next.InvoiceRaisedAt = &t
	}
	return next, nil
}

func invoiceSources(to string) []string {
	var out []string
	for _, st := range []string{models.InvoicePending, models.InvoiceRaised, models.InvoiceProcessed} {
		if invoiceRank[st] <= invoiceRank[to] {
			out = append(out, st)
		}
	}
	return out
}

func invoiceFields(st models.InvoiceState) map[string]interface{} {
	return map[string]interface{}{
		"invoice_status":           st.InvoiceStatus,
		"due_in_days":              st.DueInDays,
		"received_date":            st.ReceivedDate,
		"invoice_file":             st.InvoiceFile,
		"payment_reference_number": st.PaymentReferenceNumber,
		"invoice_raised_at":        st.InvoiceRaisedAt,
	}
}

// salesPersonEmail is the address of the sales person of the order's PO,
// falling back to the person assigned to the quotation behind the order.
func salesPersonEmail(tx *gorm.DB, wo *models.WorkOrder) string {
	quotationID := wo.QuotationID
	if wo.PurchaseOrderID != nil {
		var po models.PurchaseOrder
		if err := tx.Preload("SalesPerson").First(&po, *wo.PurchaseOrderID).Error; err == nil {
			if po.SalesPerson != nil && po.SalesPerson.Email != "" {
				return po.SalesPerson.Email
			}
			if quotationID == nil {
				quotationID = po.QuotationID
			}
		}
	}
	if quotationID == nil {
		return ""
	}
	var q models.Quotation
	if err := tx.Preload("AssignedSalesPerson").First(&q, *quotationID).Error; err != nil || q.AssignedSalesPerson == nil {
		return ""
	}
	return q.AssignedSalesPerson.Email
}

// UpdateWorkOrderInvoice changes the header level invoice of a work order.
func (s *WorkOrderService) UpdateWorkOrderInvoice(ctx context.Context, woID uint, upd InvoiceUpdate, opts TransitionOptions) (*models.WorkOrder, error) {
	return s.transition(ctx, woID, "invoice", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if !statusIn(wo.Status, billableStatuses) {
			return nil, &PreconditionError{Operation: "invoice", Current: wo.Status, Required: billableStatuses}
		}
		next, err := ApplyInvoiceTransition(wo.InvoiceState, upd, s.now())
		if err != nil {
			return nil, err
		}
		if err := s.recordInvoiceChange(tx, wo, wo.WoNumber, wo.InvoiceStatus, next.InvoiceStatus, opts.ActorID); err != nil {
			return nil, err
		}
		return invoiceFields(next), nil
	})
}

// UpdateDeliveryItemInvoice changes the invoice of one delivery note line.
func (s *WorkOrderService) UpdateDeliveryItemInvoice(ctx context.Context, lineID uint, upd InvoiceUpdate, opts TransitionOptions) (*models.DeliveryNoteItem, error) {
	line, err := s.notes.GetItem(lineID)
	if err != nil {
		return nil, notFound("delivery note item", lineID, err)
	}
	dn, err := s.GetDeliveryNote(line.DeliveryNoteID)
	if err != nil {
		return nil, err
	}

	_, err = s.transition(ctx, dn.WorkOrderID, "invoice", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if !statusIn(wo.Status, billableStatuses) {
			return nil, &PreconditionError{Operation: "invoice", Current: wo.Status, Required: billableStatuses}
		}
		notesRepo := s.notes.WithTx(tx)
		current, err := notesRepo.GetItem(lineID)
		if err != nil {
			return nil, notFound("delivery note item", lineID, err)
		}
		next, err := ApplyInvoiceTransition(current.InvoiceState, upd, s.now())
		if err != nil {
			return nil, err
		}
		if err := notesRepo.UpdateItemFields(lineID, invoiceFields(next)); err != nil {
			return nil, err
		}
		return nil, s.recordInvoiceChange(tx, wo, dn.DnNumber, current.InvoiceStatus, next.InvoiceStatus, opts.ActorID)
	})
	if err != nil {
		return nil, err
	}
	return s.notes.GetItem(lineID)
}

func (s *WorkOrderService) recordInvoiceChange(tx *gorm.DB, wo *models.WorkOrder, refNo, from, to string, actor int) error {
	if from == "" {
		from = models.InvoicePending
	}
	if from == to {
		return nil
	}
	if err := helpers.InsertTransactionHistory(tx, refNo, to, helpers.HistoryInvoice,
		map[string]interface{}{"from": from, "to": to, "work_order": wo.WoNumber}, actor); err != nil {
		return err
	}
	_, err := notifications.Enqueue(tx, notifications.InvoiceStatusChanged(refNo, from, to, salesPersonEmail(tx, wo)))
	return err
}
