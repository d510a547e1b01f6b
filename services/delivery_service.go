package services

import (
	"calibration-app/controllers/helpers"
	"calibration-app/models"
	"calibration-app/notifications"
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type ComponentInput struct {
	Component string `json:"component" validate:"required"`
	Value     string `json:"value"`
}

// DeliveryItemInput is one delivery line. The work order item is picked by
// WorkOrderItemID, or by ItemID (and Range when several items share it).
type DeliveryItemInput struct {
	WorkOrderItemID   uint             `json:"work_order_item_id"`
	ItemID            uint             `json:"item"`
	Range             string           `json:"range"`
	Quantity          int              `json:"quantity"`
	DeliveredQuantity int              `json:"delivered_quantity"`
	UomID             uint             `json:"uom"`
	Components        []ComponentInput `json:"components" validate:"dive"`
}

type InitiateDeliveryInput struct {
	DeliveryType string              `json:"delivery_type"`
	Items        []DeliveryItemInput `json:"items" validate:"dive"`
}

// resolvedLine is a request line bound to its work order item.
type resolvedLine struct {
	input DeliveryItemInput
	item  models.WorkOrderItem
}

func resolveDeliveryLines(wo *models.WorkOrder, in InitiateDeliveryInput) ([]resolvedLine, error) {
	verr := &ValidationError{}
	if in.DeliveryType != models.DeliveryTypeSingle && in.DeliveryType != models.DeliveryTypeMultiple {
		verr.Add("delivery_type", "must be Single or Multiple")
	}
	if len(in.Items) == 0 {
		verr.Add("items", "at least one item is required")
	}

	lines := make([]resolvedLine, 0, len(in.Items))
	for i, line := range in.Items {
		key := fmt.Sprintf("items[%d]", i)
		if line.Quantity <= 0 {
			verr.Add(key+".quantity", "must be greater than 0")
		}
		if line.DeliveredQuantity != line.Quantity {
			verr.Add(key+".delivered_quantity", "must equal quantity")
		}
		for j, c := range line.Components {
			if strings.TrimSpace(c.Component) == "" {
				verr.Add(fmt.Sprintf("%s.components[%d].component", key, j), "required")
			}
		}

		var matches []models.WorkOrderItem
		for _, it := range wo.Items {
			switch {
			case line.WorkOrderItemID != 0:
				if it.ID == line.WorkOrderItemID {
					matches = append(matches, it)
				}
			case it.ItemID == line.ItemID && (line.Range == "" || it.Range == line.Range):
				matches = append(matches, it)
			}
		}
		switch len(matches) {
		case 0:
			verr.Add(key, "does not match an item of this work order")
		case 1:
			lines = append(lines, resolvedLine{input: line, item: matches[0]})
		default:
			verr.Add(key, "matches several work order items, pass work_order_item_id")
		}
	}

	if !verr.Empty() {
		return nil, verr
	}
	return lines, nil
}

// checkQuantities enforces that, per work order item, the quantities on every
// kept delivery note plus the new lines stay within the ordered quantity.
// Lines of the provisional note are not counted since the split rewrites it.
func checkQuantities(wo *models.WorkOrder, notes []models.DeliveryNote, lines []resolvedLine) error {
	existing := map[uint]int{}
	for _, dn := range notes {
		if dn.Provisional {
			continue
		}
		for _, it := range dn.Items {
			existing[it.WorkOrderItemID] += it.Quantity
		}
	}

	requested := map[uint]int{}
	for _, l := range lines {
		requested[l.item.ID] += l.input.Quantity
	}

	for _, it := range wo.Items {
		req, ok := requested[it.ID]
		if !ok {
			continue
		}
		allowed := it.Quantity - existing[it.ID]
		if req > allowed {
			return &QuantityExceededError{WorkOrderItemID: it.ID, Requested: req, Allowed: allowed}
		}
	}
	return nil
}

func deliveryLine(l resolvedLine) models.DeliveryNoteItem {
	uom := l.input.UomID
	if uom == 0 {
		uom = l.item.UnitID
	}
	rng := l.input.Range
	if rng == "" {
		rng = l.item.Range
	}
	item := models.DeliveryNoteItem{
		WorkOrderItemID:   l.item.ID,
		ItemID:            l.item.ItemID,
		UomID:             uom,
		Range:             rng,
		Quantity:          l.input.Quantity,
		DeliveredQuantity: l.input.DeliveredQuantity,
		InvoiceState:      models.InvoiceState{InvoiceStatus: models.InvoicePending},
	}
	for _, c := range l.input.Components {
		item.Components = append(item.Components, models.DeliveryNoteItemComponent{
			Component: strings.TrimSpace(c.Component),
			Value:     c.Value,
		})
	}
	return item
}

// groupByTechnician buckets lines by the technician of their work order
// item; unassigned lines share group 0.
func groupByTechnician(lines []resolvedLine) ([]uint, map[uint][]resolvedLine) {
	groups := map[uint][]resolvedLine{}
	var keys []uint
	for _, l := range lines {
		var key uint
		if l.item.AssignedToID != nil {
			key = *l.item.AssignedToID
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], l)
	}
	slices.Sort(keys)
	return keys, groups
}

// InitiateDelivery splits an approved order into delivery notes. Single puts
// every line on one note, Multiple creates one note per technician. The
// provisional note created on approval is rewritten before any new note is
// numbered.
func (s *WorkOrderService) InitiateDelivery(ctx context.Context, woID uint, in InitiateDeliveryInput, opts TransitionOptions) ([]models.DeliveryNote, error) {
	var touched []uint
	_, err := s.transition(ctx, woID, "initiate_delivery", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if wo.Status != models.WorkOrderApproved {
			return nil, &PreconditionError{Operation: "initiate_delivery", Current: wo.Status, Required: []string{models.WorkOrderApproved}}
		}
		lines, err := resolveDeliveryLines(wo, in)
		if err != nil {
			return nil, err
		}

		notesRepo := s.notes.WithTx(tx)
		notes, err := notesRepo.ListByWorkOrder(wo.ID)
		if err != nil {
			return nil, err
		}
		if err := checkQuantities(wo, notes, lines); err != nil {
			return nil, err
		}

		var provisional *models.DeliveryNote
		for i := range notes {
			if notes[i].Provisional && notes[i].DeliveryStatus == models.DeliveryPending {
				provisional = &notes[i]
				break
			}
		}

		var keys []uint
		var groups map[uint][]resolvedLine
		if in.DeliveryType == models.DeliveryTypeMultiple {
			keys, groups = groupByTechnician(lines)
		} else {
			keys = []uint{0}
			groups = map[uint][]resolvedLine{0: lines}
		}

		for _, key := range keys {
			items := make([]models.DeliveryNoteItem, 0, len(groups[key]))
			for _, l := range groups[key] {
				items = append(items, deliveryLine(l))
			}
			var assigned *uint
			if key != 0 {
				k := key
				assigned = &k
			}

			if provisional != nil {
				if err := notesRepo.ReplaceItems(provisional.ID, items); err != nil {
					return nil, err
				}
				if err := notesRepo.UpdateFields(provisional.ID, map[string]interface{}{
					"provisional":    false,
					"assigned_to_id": assigned,
					"updated_by":     opts.ActorID,
				}); err != nil {
					return nil, err
				}
				touched = append(touched, provisional.ID)
				provisional = nil
				continue
			}

			number, err := s.numbers.Next(tx, models.SeriesDeliveryNote)
			if err != nil {
				return nil, err
			}
			dn := &models.DeliveryNote{
				DnNumber:       number,
				WorkOrderID:    wo.ID,
				DeliveryStatus: models.DeliveryPending,
				AssignedToID:   assigned,
				Items:          items,
				CreatedBy:      opts.ActorID,
				UpdatedBy:      opts.ActorID,
			}
			if err := notesRepo.Create(dn); err != nil {
				return nil, err
			}
			if err := helpers.InsertTransactionHistory(tx, dn.DnNumber, dn.DeliveryStatus, helpers.HistoryDeliveryNote,
				map[string]interface{}{"operation": "initiate_delivery", "work_order": wo.WoNumber}, opts.ActorID); err != nil {
				return nil, err
			}
			touched = append(touched, dn.ID)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.DeliveryNote, 0, len(touched))
	for _, id := range touched {
		dn, err := s.notes.GetByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *dn)
	}
	return out, nil
}

func (s *WorkOrderService) GetDeliveryNote(id uint) (*models.DeliveryNote, error) {
	dn, err := s.notes.GetByID(id)
	if err != nil {
		return nil, notFound("delivery note", id, err)
	}
	return dn, nil
}

func (s *WorkOrderService) ListDeliveryNotes(status string) ([]models.DeliveryNote, error) {
	return s.notes.List(status)
}

func (s *WorkOrderService) DeliveryNoteHistory(id uint) ([]models.TransactionHistory, error) {
	dn, err := s.GetDeliveryNote(id)
	if err != nil {
		return nil, err
	}
	return helpers.GetTransactionHistory(s.DB, dn.DnNumber)
}

// fullyDelivered reports whether every note is delivered and the notes cover
// the ordered quantity of every item.
func fullyDelivered(wo *models.WorkOrder, notes []models.DeliveryNote) bool {
	if len(notes) == 0 {
		return false
	}
	covered := map[uint]int{}
	for _, dn := range notes {
		if dn.DeliveryStatus != models.DeliveryDelivered {
			return false
		}
		for _, it := range dn.Items {
			covered[it.WorkOrderItemID] += it.DeliveredQuantity
		}
	}
	for _, it := range wo.Items {
		if covered[it.ID] < it.Quantity {
			return false
		}
	}
	return true
}

// UploadSignedNote marks a delivery note delivered with the stored signed
// file. The work order becomes Delivered once all of it has been delivered.
func (s *WorkOrderService) UploadSignedNote(ctx context.Context, dnID uint, filePath string, opts TransitionOptions) (*models.DeliveryNote, error) {
	dn, err := s.GetDeliveryNote(dnID)
	if err != nil {
		return nil, err
	}
	if filePath == "" {
		return nil, NewValidationError("signed_delivery_note", "required")
	}

	_, err = s.transition(ctx, dn.WorkOrderID, "upload_signed_note", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if wo.Status != models.WorkOrderApproved {
			return nil, &PreconditionError{Operation: "upload_signed_note", Current: wo.Status, Required: []string{models.WorkOrderApproved}}
		}
		notesRepo := s.notes.WithTx(tx)
		current, err := notesRepo.GetByID(dnID)
		if err != nil {
			return nil, notFound("delivery note", dnID, err)
		}
		if current.DeliveryStatus != models.DeliveryPending {
			return nil, &PreconditionError{Operation: "upload_signed_note", Current: current.DeliveryStatus, Required: []string{models.DeliveryPending}}
		}

		if err := notesRepo.UpdateFields(dnID, map[string]interface{}{
			"signed_delivery_note": filePath,
			"delivery_status":      models.DeliveryDelivered,
			"provisional":          false,
			"updated_by":           opts.ActorID,
		}); err != nil {
			return nil, err
		}
		if err := helpers.InsertTransactionHistory(tx, current.DnNumber, models.DeliveryDelivered, helpers.HistoryDeliveryNote,
			map[string]interface{}{"operation": "upload_signed_note", "file": filePath}, opts.ActorID); err != nil {
			return nil, err
		}

		notes, err := notesRepo.ListByWorkOrder(wo.ID)
		if err != nil {
			return nil, err
		}
		done := fullyDelivered(wo, notes)
		if _, err := notifications.Enqueue(tx, notifications.DeliveryNoteDelivered(current.DnNumber, wo.WoNumber, done)); err != nil {
			return nil, err
		}
		if !done {
			return nil, nil
		}
		return map[string]interface{}{
			"status":                    models.WorkOrderDelivered,
			"signed_delivery_note_file": filePath,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetDeliveryNote(dnID)
}
