package services

import (
	"calibration-app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineFor(woItemID uint, qty int) DeliveryItemInput {
	return DeliveryItemInput{WorkOrderItemID: woItemID, Quantity: qty, DeliveredQuantity: qty}
}

func TestSplitDeliveryConservesQuantity(t *testing.T) {
	f := newFixture(t)
	wo := f.approved(t, f.readyItemInput(10, nil, "0-10V"))
	woItem := wo.Items[0].ID

	notes, err := f.svc.InitiateDelivery(ctxBG, wo.ID, InitiateDeliveryInput{
		DeliveryType: models.DeliveryTypeSingle,
		Items:        []DeliveryItemInput{lineFor(woItem, 6)},
	}, f.opts())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	first := notes[0]
	assert.Equal(t, "DN-000001", first.DnNumber, "the provisional note is reused")
	assert.False(t, first.Provisional)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 6, first.Items[0].Quantity)

	_, err = f.svc.InitiateDelivery(ctxBG, wo.ID, InitiateDeliveryInput{
		DeliveryType: models.DeliveryTypeSingle,
		Items:        []DeliveryItemInput{lineFor(woItem, 6)},
	}, f.opts())
	var qerr *QuantityExceededError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, woItem, qerr.WorkOrderItemID)
	assert.Equal(t, 6, qerr.Requested)
	assert.Equal(t, 4, qerr.Allowed)
	assert.Equal(t, int64(1), countRows(t, f.db, &models.DeliveryNote{}, "work_order_id = ?", wo.ID))
	assert.Equal(t, int64(1), countRows(t, f.db, &models.DeliveryNoteItem{}, ""))

	notes, err = f.svc.InitiateDelivery(ctxBG, wo.ID, InitiateDeliveryInput{
		DeliveryType: models.DeliveryTypeSingle,
		Items:        []DeliveryItemInput{lineFor(woItem, 4)},
	}, f.opts())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	second := notes[0]
	assert.Equal(t, "DN-000002", second.DnNumber)

	_, err = f.svc.UploadSignedNote(ctxBG, first.ID, "delivery_notes/a.pdf", f.opts())
	require.NoError(t, err)
	wo, err = f.svc.Get(wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderApproved, wo.Status, "one note is still pending")

	// a delivered note cannot be signed twice
	_, err = f.svc.UploadSignedNote(ctxBG, first.ID, "delivery_notes/a2.pdf", f.opts())
	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)

	_, err = f.svc.UploadSignedNote(ctxBG, second.ID, "delivery_notes/b.pdf", f.opts())
	require.NoError(t, err)
	wo, err = f.svc.Get(wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderDelivered, wo.Status)
	assert.Equal(t, "delivery_notes/b.pdf", wo.SignedDeliveryNoteFile)
}

func TestMultipleDeliveryGroupsByTechnician(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.techs[0].ID, f.techs[1].ID
	wo := f.approved(t,
		f.readyItemInput(2, &bob, "0-100V"),
		f.readyItemInput(3, &alice, "0-10V"),
	)

	notes, err := f.svc.InitiateDelivery(ctxBG, wo.ID, InitiateDeliveryInput{
		DeliveryType: models.DeliveryTypeMultiple,
		Items: []DeliveryItemInput{
			lineFor(wo.Items[0].ID, 2),
			lineFor(wo.Items[1].ID, 3),
		},
	}, f.opts())
	require.NoError(t, err)
	require.Len(t, notes, 2)

	assert.Equal(t, "DN-000001", notes[0].DnNumber)
	require.NotNil(t, notes[0].AssignedToID)
	assert.Equal(t, alice, *notes[0].AssignedToID)
	require.Len(t, notes[0].Items, 1)
	assert.Equal(t, wo.Items[1].ID, notes[0].Items[0].WorkOrderItemID)

	assert.Equal(t, "DN-000002", notes[1].DnNumber)
	require.NotNil(t, notes[1].AssignedToID)
	assert.Equal(t, bob, *notes[1].AssignedToID)
	require.Len(t, notes[1].Items, 1)
	assert.Equal(t, 2, notes[1].Items[0].Quantity)

	assert.Zero(t, countRows(t, f.db, &models.DeliveryNote{}, "provisional = ?", true))
}

func TestDeliveryLinesMatchByItemAndRange(t *testing.T) {
	f := newFixture(t)
	wo := f.approved(t, f.readyItemInput(1, nil, "0-10V"), f.readyItemInput(1, nil, "0-100V"))

	// ambiguous without a range
	_, err := f.svc.InitiateDelivery(ctxBG, wo.ID, InitiateDeliveryInput{
		DeliveryType: models.DeliveryTypeSingle,
		Items:        []DeliveryItemInput{{ItemID: f.item.ID, Quantity: 1, DeliveredQuantity: 1}},
	}, f.opts())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	notes, err := f.svc.InitiateDelivery(ctxBG, wo.ID, InitiateDeliveryInput{
		DeliveryType: models.DeliveryTypeSingle,
		Items: []DeliveryItemInput{{
			ItemID: f.item.ID, Range: "0-100V", Quantity: 1, DeliveredQuantity: 1,
			Components: []ComponentInput{{Component: "Thermocouple", Value: "2"}},
		}},
	}, f.opts())
	require.NoError(t, err)
	require.Len(t, notes[0].Items, 1)
	assert.Equal(t, wo.Items[1].ID, notes[0].Items[0].WorkOrderItemID)
	require.Len(t, notes[0].Items[0].Components, 1)
	assert.Equal(t, "Thermocouple", notes[0].Items[0].Components[0].Component)
}

func TestInitiateDeliveryValidation(t *testing.T) {
	f := newFixture(t)
	wo := f.approved(t, f.readyItemInput(4, nil, "0-10V"))
	woItem := wo.Items[0].ID

	cases := map[string]InitiateDeliveryInput{
		"delivered differs": {DeliveryType: models.DeliveryTypeSingle, Items: []DeliveryItemInput{{WorkOrderItemID: woItem, Quantity: 2, DeliveredQuantity: 1}}},
		"unknown type":      {DeliveryType: "Partial", Items: []DeliveryItemInput{lineFor(woItem, 1)}},
		"no lines":          {DeliveryType: models.DeliveryTypeSingle},
		"foreign item":      {DeliveryType: models.DeliveryTypeSingle, Items: []DeliveryItemInput{lineFor(woItem+100, 1)}},
		"blank component":   {DeliveryType: models.DeliveryTypeSingle, Items: []DeliveryItemInput{{WorkOrderItemID: woItem, Quantity: 1, DeliveredQuantity: 1, Components: []ComponentInput{{Component: " "}}}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.InitiateDelivery(ctxBG, wo.ID, in, f.opts())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	// the provisional note is untouched by failed calls
	dn := wo.DeliveryNotes[0]
	reloaded, err := f.svc.GetDeliveryNote(dn.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Provisional)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, 4, reloaded.Items[0].Quantity)
}

func TestInitiateDeliveryRequiresApproved(t *testing.T) {
	f := newFixture(t)
	wo := f.create(t, f.readyItemInput(1, nil, "0-10V"))

	_, err := f.svc.InitiateDelivery(ctxBG, wo.ID, InitiateDeliveryInput{
		DeliveryType: models.DeliveryTypeSingle,
		Items:        []DeliveryItemInput{lineFor(wo.Items[0].ID, 1)},
	}, f.opts())
	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, countRows(t, f.db, &models.DeliveryNote{}, ""))
}
