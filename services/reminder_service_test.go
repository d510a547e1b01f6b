package services

import (
	"calibration-app/models"
	"calibration-app/notifications"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderKinds(t *testing.T) {
	raisedAt := time.Date(2026, 4, 1, 16, 30, 0, 0, time.UTC)
	st := models.InvoiceState{InvoiceStatus: models.InvoiceRaised, DueInDays: 30, InvoiceRaisedAt: &raisedAt}
	day := func(offset int) time.Time { return time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, offset) }

	cases := []struct {
		name  string
		state models.InvoiceState
		day   time.Time
		want  []string
	}{
		{"raise day", st, day(0), nil},
		{"midpoint", st, day(15), []string{models.ReminderMidpoint}},
		{"day after midpoint", st, day(16), nil},
		{"due date", st, day(30), []string{models.ReminderDue}},
		{"past due", st, day(31), []string{models.ReminderPastDue}},
		{"long past due", st, day(90), []string{models.ReminderPastDue}},
		{"pending invoice", models.InvoiceState{InvoiceStatus: models.InvoicePending, DueInDays: 30, InvoiceRaisedAt: &raisedAt}, day(30), nil},
		{"processed invoice", models.InvoiceState{InvoiceStatus: models.InvoiceProcessed, DueInDays: 30, InvoiceRaisedAt: &raisedAt}, day(31), nil},
		{"one day term has no midpoint", models.InvoiceState{InvoiceStatus: models.InvoiceRaised, DueInDays: 1, InvoiceRaisedAt: &raisedAt}, day(1), []string{models.ReminderDue}},
		{"not raised yet", models.InvoiceState{InvoiceStatus: models.InvoiceRaised, DueInDays: 30}, day(30), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReminderKinds(tc.state, tc.day))
		})
	}
}

func TestReminderScanIsIdempotent(t *testing.T) {
	f := newFixture(t)
	raisedAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return raisedAt }

	wo := f.approved(t, f.readyItemInput(1, nil, "0-10V"))
	_, err := f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{Status: "raised", DueInDays: intPtr(10)}, f.opts())
	require.NoError(t, err)
	_, err = f.svc.UpdateDeliveryItemInvoice(ctxBG, wo.DeliveryNotes[0].Items[0].ID, InvoiceUpdate{Status: "raised", DueInDays: intPtr(20)}, f.opts())
	require.NoError(t, err)

	svc := NewReminderService(f.db)
	reminders := func() int64 {
		return countRows(t, f.db, &models.NotificationOutbox{}, "kind IN ?",
			[]string{notifications.KindInvoiceDueReminder, notifications.KindInvoicePastDue})
	}

	// day 5 is the midpoint of the work order invoice only
	n, err := svc.Scan(ctxBG, raisedAt.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = svc.Scan(ctxBG, raisedAt.AddDate(0, 0, 5).Add(3*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, int64(1), reminders())

	// day 10: work order due, delivery line at its midpoint
	n, err = svc.Scan(ctxBG, raisedAt.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var outbox []models.NotificationOutbox
	require.NoError(t, f.db.Where("kind IN ?", []string{notifications.KindInvoiceDueReminder}).Order("created_at, id").Find(&outbox).Error)
	var refs []string
	for _, row := range outbox {
		refs = append(refs, row.RefNo)
	}
	assert.ElementsMatch(t, []string{"WO-000001", "WO-000001", "DN-000001"}, refs)

	// past due alerts repeat daily, once per day
	for _, offset := range []int{11, 11, 12} {
		_, err = svc.Scan(ctxBG, raisedAt.AddDate(0, 0, offset))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), countRows(t, f.db, &models.NotificationOutbox{}, "kind = ?", notifications.KindInvoicePastDue))
	assert.Equal(t, int64(5), countRows(t, f.db, &models.ReminderLog{}, ""))

	reloaded, err := f.svc.Get(wo.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.InvoiceLastNotifiedAt)
}

func TestReminderScanSkipsSettledInvoices(t *testing.T) {
	f := newFixture(t)
	raisedAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return raisedAt }

	wo := f.approved(t, f.readyItemInput(1, nil, "0-10V"))
	_, err := f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{Status: "raised", DueInDays: intPtr(10)}, f.opts())
	require.NoError(t, err)
	received := raisedAt.AddDate(0, 0, 3)
	_, err = f.svc.UpdateWorkOrderInvoice(ctxBG, wo.ID, InvoiceUpdate{Status: "processed", ReceivedDate: &received, InvoiceFile: "invoices/x.pdf"}, f.opts())
	require.NoError(t, err)

	n, err := NewReminderService(f.db).Scan(ctxBG, raisedAt.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Zero(t, n)
}
