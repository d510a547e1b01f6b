package services

import (
	"calibration-app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueDates(t *testing.T) {
	f := newFixture(t)

	soon := f.today.AddDate(0, 0, 10)
	overdue := f.today.AddDate(0, 0, -3)
	a := f.readyItemInput(1, nil, "0-10V")
	a.CalibrationDueDate = &soon
	b := f.readyItemInput(1, nil, "0-100V")
	b.CalibrationDueDate = &overdue
	c := f.readyItemInput(1, nil, "0-1000V") // a year out
	d := f.itemInput(1)                     // no due date
	wo := f.create(t, a, b, c, d)

	rows, err := NewReportService(f.db).DueDates(f.today, 30)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, -3, rows[0].DaysRemaining)
	assert.Equal(t, wo.Items[1].ID, rows[0].WorkOrderItemID)
	assert.Equal(t, 10, rows[1].DaysRemaining)
	assert.Equal(t, "WO-000001", rows[1].WoNumber)
	assert.Equal(t, "Digital Multimeter", rows[1].ItemName)

	all, err := NewReportService(f.db).DueDates(f.today, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// deleted orders drop out
	require.NoError(t, f.svc.Destroy(ctxBG, wo.ID, f.opts()))
	all, err = NewReportService(f.db).DueDates(f.today, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.itemInput(1))
	f.approved(t, f.readyItemInput(1, nil, "0-10V"))

	d, err := NewReportService(f.db).Summary(f.today)
	require.NoError(t, err)

	byStatus := map[string]int64{}
	for _, c := range d.WorkOrders {
		byStatus[c.Status] = c.Total
	}
	assert.Equal(t, int64(1), byStatus[models.WorkOrderCollectionPending])
	assert.Equal(t, int64(1), byStatus[models.WorkOrderApproved])

	require.Len(t, d.Invoices, 1)
	assert.Equal(t, models.InvoicePending, d.Invoices[0].Status)
	assert.Equal(t, int64(1), d.Invoices[0].Total)
	assert.Equal(t, int64(1), d.PendingDelivery)
	assert.Zero(t, d.DueWithinMonth)
}
