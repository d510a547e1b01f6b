package services

import (
	"calibration-app/models"
	"calibration-app/notifications"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestApplyInvoiceTransition(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	received := now.AddDate(0, 0, 20)
	raisedAt := now.AddDate(0, 0, -5)

	pending := models.InvoiceState{InvoiceStatus: models.InvoicePending}
	raised := models.InvoiceState{InvoiceStatus: models.InvoiceRaised, DueInDays: 30, InvoiceRaisedAt: &raisedAt}
	processed := models.InvoiceState{InvoiceStatus: models.InvoiceProcessed, DueInDays: 30, InvoiceRaisedAt: &raisedAt,
		ReceivedDate: &received, InvoiceFile: "invoices/a.pdf"}

	t.Run("raise needs due days", func(t *testing.T) {
		_, err := ApplyInvoiceTransition(pending, InvoiceUpdate{Status: "raised"}, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "due_in_days")

		_, err = ApplyInvoiceTransition(pending, InvoiceUpdate{Status: "raised", DueInDays: intPtr(0)}, now)
		require.ErrorAs(t, err, &verr)
	})

	t.Run("raise stamps the raise time once", func(t *testing.T) {
		next, err := ApplyInvoiceTransition(pending, InvoiceUpdate{Status: "Raised", DueInDays: intPtr(30)}, now)
		require.NoError(t, err)
		assert.Equal(t, models.InvoiceRaised, next.InvoiceStatus)
		require.NotNil(t, next.InvoiceRaisedAt)
		assert.True(t, next.InvoiceRaisedAt.Equal(now))

		again, err := ApplyInvoiceTransition(raised, InvoiceUpdate{DueInDays: intPtr(45)}, now)
		require.NoError(t, err)
		assert.Equal(t, 45, again.DueInDays)
		assert.True(t, again.InvoiceRaisedAt.Equal(raisedAt))
	})

	t.Run("process needs received date and file", func(t *testing.T) {
		_, err := ApplyInvoiceTransition(raised, InvoiceUpdate{Status: "processed"}, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "received_date")
		assert.Contains(t, verr.Fields, "invoice_file")

		next, err := ApplyInvoiceTransition(raised, InvoiceUpdate{Status: "processed", ReceivedDate: &received, InvoiceFile: "invoices/a.pdf"}, now)
		require.NoError(t, err)
		assert.Equal(t, models.InvoiceProcessed, next.InvoiceStatus)
	})

	t.Run("pending straight to processed", func(t *testing.T) {
		next, err := ApplyInvoiceTransition(pending, InvoiceUpdate{Status: "processed", ReceivedDate: &received, InvoiceFile: "invoices/b.pdf"}, now)
		require.NoError(t, err)
		assert.Equal(t, models.InvoiceProcessed, next.InvoiceStatus)
		require.NotNil(t, next.InvoiceRaisedAt)
	})

	t.Run("no going back", func(t *testing.T) {
		cur, err := ApplyInvoiceTransition(raised, InvoiceUpdate{Status: "pending"}, now)
		var perr *PreconditionError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, raised, cur)

		_, err = ApplyInvoiceTransition(processed, InvoiceUpdate{Status: "raised"}, now)
		require.ErrorAs(t, err, &perr)
	})

	t.Run("processed is final except the payment reference", func(t *testing.T) {
		_, err := ApplyInvoiceTransition(processed, InvoiceUpdate{DueInDays: intPtr(60)}, now)
		var perr *PreconditionError
		require.ErrorAs(t, err, &perr)

		next, err := ApplyInvoiceTransition(processed, InvoiceUpdate{PaymentReferenceNumber: strPtr(" PAY-77 ")}, now)
		require.NoError(t, err)
		assert.Equal(t, "PAY-77", next.PaymentReferenceNumber)
		assert.Equal(t, models.InvoiceProcessed, next.InvoiceStatus)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := ApplyInvoiceTransition(pending, InvoiceUpdate{Status: "paid"}, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestWorkOrderInvoiceNeedsBillableStatus(t *testing.T) {
	f := newFixture(t)
	wo := f.create(t, f.readyItemInput(1, nil, "0-10V"))

	_, err := f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{Status: "raised", DueInDays: intPtr(30)}, f.opts())
	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)

	reloaded, err := f.svc.Get(wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePending, reloaded.InvoiceStatus)
}

func TestWorkOrderInvoiceLifecycle(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	sales := models.User{Username: "sales", Email: "sales@example.com", IsActive: true}
	require.NoError(t, f.db.Create(&sales).Error)
	require.NoError(t, f.db.Model(&f.po).Update("sales_person_id", sales.ID).Error)

	wo := f.approved(t, f.readyItemInput(1, nil, "0-10V"))

	// a failed update leaves the state alone
	_, err := f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{Status: "processed"}, f.opts())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	reloaded, err := f.svc.Get(wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePending, reloaded.InvoiceStatus)
	assert.Nil(t, reloaded.InvoiceRaisedAt)

	wo, err = f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{Status: "raised", DueInDays: intPtr(30)}, f.opts())
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceRaised, wo.InvoiceStatus)
	assert.Equal(t, 30, wo.DueInDays)
	require.NotNil(t, wo.InvoiceRaisedAt)

	var events []models.NotificationOutbox
	require.NoError(t, f.db.Where("kind = ?", notifications.KindInvoiceStatusChanged).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "WO-000001", events[0].RefNo)
	assert.Contains(t, string(events[0].Recipients), "sales@example.com")

	received := now.AddDate(0, 0, 10)
	wo, err = f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{
		Status: "processed", ReceivedDate: &received, InvoiceFile: "invoices/wo.pdf",
	}, f.opts())
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceProcessed, wo.InvoiceStatus)
	assert.Equal(t, "invoices/wo.pdf", wo.InvoiceFile)
	assert.Equal(t, int64(2), countRows(t, f.db, &models.NotificationOutbox{}, "kind = ?", notifications.KindInvoiceStatusChanged))

	wo, err = f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{PaymentReferenceNumber: strPtr("PAY-1")}, f.opts())
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", wo.PaymentReferenceNumber)
	// same status, no new notification
	assert.Equal(t, int64(2), countRows(t, f.db, &models.NotificationOutbox{}, "kind = ?", notifications.KindInvoiceStatusChanged))
}

func TestDeliveryLineInvoice(t *testing.T) {
	f := newFixture(t)
	wo := f.approved(t, f.readyItemInput(2, nil, "0-10V"))
	lineID := wo.DeliveryNotes[0].Items[0].ID

	got, err := f.svc.UpdateDeliveryItemInvoice(ctxBG, lineID, InvoiceUpdate{Status: "raised", DueInDays: intPtr(14)}, f.opts())
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceRaised, got.InvoiceStatus)
	assert.Equal(t, 14, got.DueInDays)
	require.NotNil(t, got.DueDate())

	// header invoice is independent
	reloaded, err := f.svc.Get(wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePending, reloaded.InvoiceStatus)

	_, err = f.svc.UpdateDeliveryItemInvoice(ctxBG, 9999, InvoiceUpdate{Status: "raised", DueInDays: intPtr(1)}, f.opts())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestInvoiceNotifiesQuotationSalesPerson(t *testing.T) {
	f := newFixture(t)

	poSales := models.User{Username: "po-sales", Email: "po-sales@example.com", IsActive: true}
	require.NoError(t, f.db.Create(&poSales).Error)
	quoteSales := models.User{Username: "quote-sales", Email: "quote-sales@example.com", IsActive: true}
	require.NoError(t, f.db.Create(&quoteSales).Error)
	quotation := models.Quotation{QuotationNumber: "QUO-000001", CompanyName: "Acme", AssignedSalesPersonID: &quoteSales.ID}
	require.NoError(t, f.db.Create(&quotation).Error)
	bare := models.Quotation{QuotationNumber: "QUO-000002", CompanyName: "Globex"}
	require.NoError(t, f.db.Create(&bare).Error)

	withSales := models.PurchaseOrder{PoNumber: "PO-000002", SalesPersonID: &poSales.ID, QuotationID: &quotation.ID}
	require.NoError(t, f.db.Create(&withSales).Error)
	quoted := models.PurchaseOrder{PoNumber: "PO-000003", QuotationID: &quotation.ID}
	require.NoError(t, f.db.Create(&quoted).Error)

	cases := []struct {
		name string
		wo   models.WorkOrder
		want string
	}{
		{"po sales person", models.WorkOrder{PurchaseOrderID: &withSales.ID}, "po-sales@example.com"},
		{"quotation of the po", models.WorkOrder{PurchaseOrderID: &quoted.ID}, "quote-sales@example.com"},
		{"quotation only", models.WorkOrder{QuotationID: &quotation.ID}, "quote-sales@example.com"},
		{"quotation without assignee", models.WorkOrder{QuotationID: &bare.ID}, ""},
		{"po without either", models.WorkOrder{PurchaseOrderID: &f.po.ID}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, salesPersonEmail(f.db, &tc.wo))
		})
	}

	require.NoError(t, f.db.Model(&f.po).Update("quotation_id", quotation.ID).Error)
	wo := f.approved(t, f.readyItemInput(1, nil, "0-10V"))
	_, err := f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{Status: "raised", DueInDays: intPtr(15)}, f.opts())
	require.NoError(t, err)

	var event models.NotificationOutbox
	require.NoError(t, f.db.Where("kind = ?", notifications.KindInvoiceStatusChanged).First(&event).Error)
	assert.Contains(t, string(event.Recipients), "quote-sales@example.com")
}
