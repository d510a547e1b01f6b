package services

import (
	"calibration-app/models"
	"calibration-app/repositories"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMasterService(t *testing.T) (*MasterDataService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	sales := &models.User{Username: "sales", Email: "sales@example.com", IsActive: true}
	require.NoError(t, db.Create(sales).Error)
	return NewMasterDataService(db, NewNumberSeriesService(repositories.NewNumberSeriesRepository(db))), sales
}

func TestPurchaseOrderAndQuotationNumbering(t *testing.T) {
	svc, sales := newMasterService(t)

	q1 := &models.Quotation{CompanyName: "Acme", AssignedSalesPersonID: &sales.ID}
	require.NoError(t, svc.CreateQuotation(ctxBG, q1))
	q2 := &models.Quotation{CompanyName: "Globex"}
	require.NoError(t, svc.CreateQuotation(ctxBG, q2))
	assert.Equal(t, "QUO-000001", q1.QuotationNumber)
	assert.Equal(t, "QUO-000002", q2.QuotationNumber)

	po := &models.PurchaseOrder{ClientPoNo: "ACME-77", QuotationID: &q1.ID, SalesPersonID: &sales.ID}
	require.NoError(t, svc.CreatePurchaseOrder(ctxBG, po))
	assert.Equal(t, "PO-000001", po.PoNumber)
	assert.Equal(t, models.PurchaseOrderCollectionPending, po.Status)

	missing := uint(999)
	cases := []struct {
		name  string
		po    *models.PurchaseOrder
		field string
	}{
		{"unknown quotation", &models.PurchaseOrder{QuotationID: &missing}, "quotation_id"},
		{"unknown sales person", &models.PurchaseOrder{SalesPersonID: &missing}, "sales_person_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.CreatePurchaseOrder(ctxBG, tc.po)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}

	err := svc.CreateQuotation(ctxBG, &models.Quotation{CompanyName: "Initech", AssignedSalesPersonID: &missing})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "assigned_sales_person_id")

	// rejected documents consume no number
	next := &models.PurchaseOrder{ClientPoNo: "ACME-78"}
	require.NoError(t, svc.CreatePurchaseOrder(ctxBG, next))
	assert.Equal(t, "PO-000002", next.PoNumber)
	q3 := &models.Quotation{CompanyName: "Initech"}
	require.NoError(t, svc.CreateQuotation(ctxBG, q3))
	assert.Equal(t, "QUO-000003", q3.QuotationNumber)

	orders, err := svc.ListPurchaseOrders(models.PurchaseOrderCollectionPending)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "PO-000002", orders[0].PoNumber)
	require.NotNil(t, orders[1].SalesPerson)
	assert.Equal(t, "sales@example.com", orders[1].SalesPerson.Email)

	quotations, err := svc.ListQuotations()
	require.NoError(t, err)
	require.Len(t, quotations, 3)
	require.NotNil(t, quotations[2].AssignedSalesPerson)
	assert.Equal(t, "sales", quotations[2].AssignedSalesPerson.Username)
}

func TestItemNamesAreUnique(t *testing.T) {
	svc, _ := newMasterService(t)

	item := &models.Item{Name: "Pressure Gauge"}
	require.NoError(t, svc.CreateItem(item))

	err := svc.CreateItem(&models.Item{Name: "Pressure Gauge"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	other := &models.Item{Name: "Torque Wrench"}
	require.NoError(t, svc.CreateItem(other))
	_, err = svc.UpdateItem(other.ID, "Pressure Gauge", "", 1)
	require.ErrorAs(t, err, &verr)

	_, err = svc.UpdateItem(item.ID, "Pressure Gauge", "0-10 bar", 1)
	require.NoError(t, err)
	items, err := svc.ListItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Pressure Gauge", items[0].Name)
	assert.Equal(t, "0-10 bar", items[0].Description)
}
