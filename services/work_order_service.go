package services

import (
	"calibration-app/controllers/helpers"
	"calibration-app/logging"
	"calibration-app/models"
	"calibration-app/notifications"
	"calibration-app/repositories"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var woLog = logging.GetLogger("workorder")

// statuses in which header and items may still be edited
var editableStatuses = []string{
	models.WorkOrderCollectionPending,
	models.WorkOrderCollected,
	models.WorkOrderProcessing,
	models.WorkOrderDeclined,
}

var preApprovalStatuses = []string{
	models.WorkOrderCollectionPending,
	models.WorkOrderCollected,
	models.WorkOrderProcessing,
}

type WorkOrderItemInput struct {
	ItemID              uint            `json:"item_id" validate:"required"`
	Quantity            int             `json:"quantity" validate:"gt=0"`
	UnitID              uint            `json:"unit_id" validate:"required"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	Range               string          `json:"range"`
	CertificateUutLabel string          `json:"certificate_uut_label"`
	CertificateNumber   string          `json:"certificate_number"`
	CalibrationDate     *time.Time      `json:"calibration_date"`
	CalibrationDueDate  *time.Time      `json:"calibration_due_date"`
	UucSerialNumber     string          `json:"uuc_serial_number"`
	AssignedToID        *uint           `json:"assigned_to_id"`
}

type WorkOrderInput struct {
	PurchaseOrderID        *uint                `json:"purchase_order_id"`
	QuotationID            *uint                `json:"quotation_id"`
	DateReceived           *time.Time           `json:"date_received"`
	ExpectedCompletionDate *time.Time           `json:"expected_completion_date"`
	OnsiteOrLab            string               `json:"onsite_or_lab"`
	SiteLocation           string               `json:"site_location"`
	Remarks                string               `json:"remarks"`
	WoType                 string               `json:"wo_type"`
	Items                  []WorkOrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// ItemCalibrationInput updates the certificate data of one work order item.
// Nil fields are left unchanged. CertificateFile only comes from an upload.
type ItemCalibrationInput struct {
	CertificateNumber   *string    `json:"certificate_number"`
	CertificateUutLabel *string    `json:"certificate_uut_label"`
	CalibrationDate     *time.Time `json:"calibration_date"`
	CalibrationDueDate  *time.Time `json:"calibration_due_date"`
	UucSerialNumber     *string    `json:"uuc_serial_number"`
	CertificateFile     *string    `json:"-" form:"-"`
	AssignedToID        *uint      `json:"assigned_to_id"`
}

type CloseInput struct {
	SignedDeliveryNote string
	PurchaseOrderFile  string
	WorkOrderFile      string
}

// TransitionOptions identifies the acting user. A non-zero ExpectedVersion
// makes the call fail with ConcurrentUpdateError when the work order changed
// since the caller read it.
type TransitionOptions struct {
	ActorID         int
	ExpectedVersion int
}

type WorkOrderService struct {
	DB      *gorm.DB
	numbers *NumberSeriesService
	orders  *repositories.WorkOrderRepository
	notes   *repositories.DeliveryNoteRepository
	now     func() time.Time
}

func NewWorkOrderService(DB *gorm.DB) *WorkOrderService {
	return &WorkOrderService{
		DB:      DB,
		numbers: NewNumberSeriesService(repositories.NewNumberSeriesRepository(DB)),
		orders:  repositories.NewWorkOrderRepository(DB),
		notes:   repositories.NewDeliveryNoteRepository(DB),
		now:     time.Now,
	}
}

func statusIn(status string, allowed []string) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

func notFound(entity string, id interface{}, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

func (s *WorkOrderService) List(f repositories.WorkOrderFilter) ([]models.WorkOrder, error) {
	return s.orders.List(f)
}

func (s *WorkOrderService) Get(id uint) (*models.WorkOrder, error) {
	wo, err := s.orders.GetByID(id)
	if err != nil {
		return nil, notFound("work order", id, err)
	}
	return wo, nil
}

// History returns the audit rows of the work order and of its delivery notes,
// oldest first.
func (s *WorkOrderService) History(id uint) ([]models.TransactionHistory, error) {
	wo, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	refs := []string{wo.WoNumber}
	for _, dn := range wo.DeliveryNotes {
		refs = append(refs, dn.DnNumber)
	}
	var rows []models.TransactionHistory
	err = s.DB.Where("ref_no IN ?", refs).Order("created_at, id").Find(&rows).Error
	return rows, err
}

// transitionFunc checks the guard of one operation on the locked work order,
// applies side effects with tx and returns the columns to update.
type transitionFunc func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error)

// transition runs fn in a transaction after claiming the work order version.
// Either everything fn wrote commits together with the status change or
// nothing does.
func (s *WorkOrderService) transition(ctx context.Context, id uint, op string, opts TransitionOptions, fn transitionFunc) (*models.WorkOrder, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)

		wo, err := orders.GetByID(id)
		if err != nil {
			return notFound("work order", id, err)
		}
		if opts.ExpectedVersion != 0 && opts.ExpectedVersion != wo.Version {
			return &ConcurrentUpdateError{Entity: "work order", ID: id}
		}
		claimed, err := orders.Claim(wo.ID, wo.Version)
		if err != nil {
			return err
		}
		if !claimed {
			return &ConcurrentUpdateError{Entity: "work order", ID: id}
		}

		fields, err := fn(tx, wo)
		if err != nil {
			return err
		}
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["updated_by"] = opts.ActorID
		if err := orders.UpdateFields(wo.ID, fields); err != nil {
			return err
		}

		status := wo.Status
		if v, ok := fields["status"].(string); ok {
			status = v
		}
		return helpers.InsertTransactionHistory(tx, wo.WoNumber, status, helpers.HistoryWorkOrder,
			map[string]interface{}{"operation": op, "from": wo.Status, "to": status}, opts.ActorID)
	})
	if err != nil {
		return nil, err
	}

	woLog.Info("work order transition", "id", id, "operation", op, "actor", opts.ActorID)
	return s.Get(id)
}

// checkItemRefs verifies the master rows referenced by the item inputs.
func (s *WorkOrderService) checkItemRefs(tx *gorm.DB, items []WorkOrderItemInput) error {
	verr := &ValidationError{}
	for i, in := range items {
		var n int64
		if err := tx.Model(&models.Item{}).Where("id = ?", in.ItemID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return &ConfigurationError{Kind: "item", Name: fmt.Sprint(in.ItemID)}
		}
		if err := tx.Model(&models.Unit{}).Where("id = ?", in.UnitID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return &ConfigurationError{Kind: "unit", Name: fmt.Sprint(in.UnitID)}
		}
		if in.AssignedToID != nil {
			if err := tx.Model(&models.Technician{}).Where("id = ?", *in.AssignedToID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				verr.Add(fmt.Sprintf("items[%d].assigned_to_id", i), "unknown technician")
			}
		}
		if in.Quantity <= 0 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
		}
		if in.UnitPrice.IsNegative() {
			verr.Add(fmt.Sprintf("items[%d].unit_price", i), "must not be negative")
		}
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

func (s *WorkOrderService) checkHeaderRefs(tx *gorm.DB, in WorkOrderInput) error {
	if in.PurchaseOrderID == nil && in.QuotationID == nil {
		return NewValidationError("purchase_order_id", "a purchase order or quotation is required")
	}
	switch in.OnsiteOrLab {
	case "", models.SiteOnsite, models.SiteLab:
	default:
		return NewValidationError("onsite_or_lab", "must be onsite or lab")
	}
	if in.PurchaseOrderID != nil {
		var po models.PurchaseOrder
		if err := tx.First(&po, *in.PurchaseOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("purchase_order_id", "unknown purchase order")
			}
			return err
		}
	}
	if in.QuotationID != nil {
		var q models.Quotation
		if err := tx.First(&q, *in.QuotationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("quotation_id", "unknown quotation")
			}
			return err
		}
	}
	return nil
}

func itemsFromInput(in []WorkOrderItemInput) []models.WorkOrderItem {
	items := make([]models.WorkOrderItem, 0, len(in))
	for _, it := range in {
		items = append(items, models.WorkOrderItem{
			ItemID:              it.ItemID,
			Quantity:            it.Quantity,
			UnitID:              it.UnitID,
			UnitPrice:           it.UnitPrice,
			Range:               it.Range,
			CertificateUutLabel: it.CertificateUutLabel,
			CertificateNumber:   strings.TrimSpace(it.CertificateNumber),
			CalibrationDate:     it.CalibrationDate,
			CalibrationDueDate:  it.CalibrationDueDate,
			UucSerialNumber:     it.UucSerialNumber,
			AssignedToID:        it.AssignedToID,
		})
	}
	return items
}

// Create stores a new work order in Collection Pending with a number from
// the "Work Order" series.
func (s *WorkOrderService) Create(ctx context.Context, in WorkOrderInput, actor int) (*models.WorkOrder, error) {
	if len(in.Items) == 0 {
		return nil, NewValidationError("items", "at least one item is required")
	}

	var id uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkHeaderRefs(tx, in); err != nil {
			return err
		}
		if err := s.checkItemRefs(tx, in.Items); err != nil {
			return err
		}

		number, err := s.numbers.Next(tx, models.SeriesWorkOrder)
		if err != nil {
			return err
		}

		wo := &models.WorkOrder{
			WoNumber:               number,
			PurchaseOrderID:        in.PurchaseOrderID,
			QuotationID:            in.QuotationID,
			Status:                 models.WorkOrderCollectionPending,
			ManagerApprovalStatus:  models.ApprovalPending,
			DateReceived:           in.DateReceived,
			ExpectedCompletionDate: in.ExpectedCompletionDate,
			OnsiteOrLab:            in.OnsiteOrLab,
			SiteLocation:           in.SiteLocation,
			Remarks:                in.Remarks,
			WoType:                 in.WoType,
			InvoiceState:           models.InvoiceState{InvoiceStatus: models.InvoicePending},
			Version:                1,
			Items:                  itemsFromInput(in.Items),
			CreatedBy:              actor,
			UpdatedBy:              actor,
		}
		if err := s.orders.WithTx(tx).Create(wo); err != nil {
			return err
		}
		id = wo.ID

		return helpers.InsertTransactionHistory(tx, wo.WoNumber, wo.Status, helpers.HistoryWorkOrder,
			map[string]interface{}{"operation": "create"}, actor)
	})
	if err != nil {
		return nil, err
	}

	woLog.Info("work order created", "id", id, "actor", actor)
	return s.Get(id)
}

// Update replaces the header fields and the items of a work order that has
// not been submitted for approval yet (or was declined).
func (s *WorkOrderService) Update(ctx context.Context, id uint, in WorkOrderInput, opts TransitionOptions) (*models.WorkOrder, error) {
	return s.transition(ctx, id, "update", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if !statusIn(wo.Status, editableStatuses) {
			return nil, &PreconditionError{Operation: "update", Current: wo.Status, Required: editableStatuses}
		}
		if len(in.Items) == 0 {
			return nil, NewValidationError("items", "at least one item is required")
		}
		if err := s.checkHeaderRefs(tx, in); err != nil {
			return nil, err
		}
		if err := s.checkItemRefs(tx, in.Items); err != nil {
			return nil, err
		}
		if err := s.orders.WithTx(tx).ReplaceItems(wo.ID, itemsFromInput(in.Items)); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"purchase_order_id":        in.PurchaseOrderID,
			"quotation_id":             in.QuotationID,
			"date_received":            in.DateReceived,
			"expected_completion_date": in.ExpectedCompletionDate,
			"onsite_or_lab":            in.OnsiteOrLab,
			"site_location":            in.SiteLocation,
			"remarks":                  in.Remarks,
			"wo_type":                  in.WoType,
		}, nil
	})
}

// UpdateItem sets certificate data on one item while the order is editable.
func (s *WorkOrderService) UpdateItem(ctx context.Context, woID, itemID uint, in ItemCalibrationInput, opts TransitionOptions) (*models.WorkOrder, error) {
	return s.transition(ctx, woID, "update_item", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if !statusIn(wo.Status, editableStatuses) {
			return nil, &PreconditionError{Operation: "update_item", Current: wo.Status, Required: editableStatuses}
		}
		orders := s.orders.WithTx(tx)
		item, err := orders.GetItem(wo.ID, itemID)
		if err != nil {
			return nil, notFound("work order item", itemID, err)
		}

		fields := map[string]interface{}{}
		if in.CertificateNumber != nil {
			fields["certificate_number"] = strings.TrimSpace(*in.CertificateNumber)
		}
		if in.CertificateUutLabel != nil {
			fields["certificate_uut_label"] = *in.CertificateUutLabel
		}
		if in.CalibrationDate != nil {
			fields["calibration_date"] = *in.CalibrationDate
		}
		if in.CalibrationDueDate != nil {
			fields["calibration_due_date"] = *in.CalibrationDueDate
		}
		if in.UucSerialNumber != nil {
			fields["uuc_serial_number"] = *in.UucSerialNumber
		}
		if in.CertificateFile != nil {
			fields["certificate_file"] = *in.CertificateFile
		}
		if in.AssignedToID != nil {
			var n int64
			if err := tx.Model(&models.Technician{}).Where("id = ?", *in.AssignedToID).Count(&n).Error; err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, NewValidationError("assigned_to_id", "unknown technician")
			}
			fields["assigned_to_id"] = *in.AssignedToID
		}
		if len(fields) == 0 {
			return nil, nil
		}
		return nil, orders.UpdateItem(item, fields)
	})
}

// Advance moves an order forward through the collection steps
// (Collection Pending, Collected, Processing).
func (s *WorkOrderService) Advance(ctx context.Context, id uint, to string, opts TransitionOptions) (*models.WorkOrder, error) {
	target := -1
	for i, st := range preApprovalStatuses {
		if st == to {
			target = i
		}
	}
	if target < 1 {
		return nil, NewValidationError("status", "must be one of "+strings.Join(preApprovalStatuses[1:], ", "))
	}

	return s.transition(ctx, id, "advance", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		current := -1
		for i, st := range preApprovalStatuses {
			if st == wo.Status {
				current = i
			}
		}
		if current < 0 || current >= target {
			return nil, &PreconditionError{Operation: "advance to " + to, Current: wo.Status, Required: preApprovalStatuses[:target]}
		}
		fields := map[string]interface{}{"status": to}
		if wo.PurchaseOrderID != nil && to == models.WorkOrderCollected {
			err := tx.Model(&models.PurchaseOrder{}).
				Where("id = ? AND status = ?", *wo.PurchaseOrderID, models.PurchaseOrderCollectionPending).
				Update("status", models.PurchaseOrderCollected).Error
			if err != nil {
				return nil, err
			}
		}
		return fields, nil
	})
}

// approvalReadiness returns a ValidationError naming every missing field.
func approvalReadiness(wo *models.WorkOrder) error {
	if len(wo.Items) == 0 {
		return NewValidationError("items", "work order has no items")
	}
	verr := &ValidationError{}
	for _, it := range wo.Items {
		if it.ReadyForApproval() {
			continue
		}
		if it.CertificateNumber == "" {
			verr.Add(fmt.Sprintf("items[%d].certificate_number", it.ID), "required")
		}
		if it.CalibrationDueDate == nil {
			verr.Add(fmt.Sprintf("items[%d].calibration_due_date", it.ID), "required")
		}
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

// MoveToApproval submits the order to the manager once every item carries a
// certificate number and a calibration due date.
func (s *WorkOrderService) MoveToApproval(ctx context.Context, id uint, opts TransitionOptions) (*models.WorkOrder, error) {
	return s.transition(ctx, id, "move_to_approval", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if !statusIn(wo.Status, preApprovalStatuses) {
			return nil, &PreconditionError{Operation: "move_to_approval", Current: wo.Status, Required: preApprovalStatuses}
		}
		if err := approvalReadiness(wo); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":                  models.WorkOrderManagerApproval,
			"manager_approval_status": models.ApprovalPending,
		}, nil
	})
}

// Approve accepts the order and creates its first delivery note covering
// every item in full.
func (s *WorkOrderService) Approve(ctx context.Context, id uint, opts TransitionOptions) (*models.WorkOrder, error) {
	return s.transition(ctx, id, "approve", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if wo.Status != models.WorkOrderManagerApproval {
			return nil, &PreconditionError{Operation: "approve", Current: wo.Status, Required: []string{models.WorkOrderManagerApproval}}
		}

		number, err := s.numbers.Next(tx, models.SeriesDeliveryNote)
		if err != nil {
			return nil, err
		}
		dn := &models.DeliveryNote{
			DnNumber:       number,
			WorkOrderID:    wo.ID,
			DeliveryStatus: models.DeliveryPending,
			Provisional:    true,
			CreatedBy:      opts.ActorID,
			UpdatedBy:      opts.ActorID,
		}
		for _, it := range wo.Items {
			dn.Items = append(dn.Items, models.DeliveryNoteItem{
				WorkOrderItemID:   it.ID,
				ItemID:            it.ItemID,
				UomID:             it.UnitID,
				Range:             it.Range,
				Quantity:          it.Quantity,
				DeliveredQuantity: it.Quantity,
				InvoiceState:      models.InvoiceState{InvoiceStatus: models.InvoicePending},
			})
		}
		if err := s.notes.WithTx(tx).Create(dn); err != nil {
			return nil, err
		}
		if err := helpers.InsertTransactionHistory(tx, dn.DnNumber, dn.DeliveryStatus, helpers.HistoryDeliveryNote,
			map[string]interface{}{"operation": "approve", "work_order": wo.WoNumber}, opts.ActorID); err != nil {
			return nil, err
		}
		if _, err := notifications.Enqueue(tx, notifications.WorkOrderApproved(wo.WoNumber, []string{dn.DnNumber})); err != nil {
			return nil, err
		}

		return map[string]interface{}{
			"status":                  models.WorkOrderApproved,
			"manager_approval_status": models.ApprovalApproved,
		}, nil
	})
}

func (s *WorkOrderService) Decline(ctx context.Context, id uint, reason string, opts TransitionOptions) (*models.WorkOrder, error) {
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, id, "decline", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if wo.Status != models.WorkOrderManagerApproval {
			return nil, &PreconditionError{Operation: "decline", Current: wo.Status, Required: []string{models.WorkOrderManagerApproval}}
		}
		if reason == "" {
			return nil, NewValidationError("decline_reason", "required")
		}
		if _, err := notifications.Enqueue(tx, notifications.WorkOrderDeclined(wo.WoNumber, reason)); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":                  models.WorkOrderDeclined,
			"manager_approval_status": models.ApprovalDeclined,
			"decline_reason":          reason,
		}, nil
	})
}

// Resubmit sends a declined order back to the manager. The decline reason is
// kept for reference.
func (s *WorkOrderService) Resubmit(ctx context.Context, id uint, opts TransitionOptions) (*models.WorkOrder, error) {
	return s.transition(ctx, id, "resubmit", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if wo.Status != models.WorkOrderDeclined {
			return nil, &PreconditionError{Operation: "resubmit", Current: wo.Status, Required: []string{models.WorkOrderDeclined}}
		}
		if err := approvalReadiness(wo); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":                  models.WorkOrderManagerApproval,
			"manager_approval_status": models.ApprovalPending,
		}, nil
	})
}

// Close finishes a delivered order. The signed delivery note file is
// required, source PO/WO files are optional.
func (s *WorkOrderService) Close(ctx context.Context, id uint, in CloseInput, opts TransitionOptions) (*models.WorkOrder, error) {
	return s.transition(ctx, id, "close", opts, func(tx *gorm.DB, wo *models.WorkOrder) (map[string]interface{}, error) {
		if wo.Status != models.WorkOrderDelivered {
			return nil, &PreconditionError{Operation: "close", Current: wo.Status, Required: []string{models.WorkOrderDelivered}}
		}
		if in.SignedDeliveryNote == "" {
			return nil, NewValidationError("signed_delivery_note", "required")
		}

		fields := map[string]interface{}{
			"status":                    models.WorkOrderClosed,
			"signed_delivery_note_file": in.SignedDeliveryNote,
		}
		if in.PurchaseOrderFile != "" {
			fields["purchase_order_file"] = in.PurchaseOrderFile
		}
		if in.WorkOrderFile != "" {
			fields["work_order_file"] = in.WorkOrderFile
		}

		if wo.PurchaseOrderID != nil {
			var open int64
			err := tx.Model(&models.WorkOrder{}).
				Where("purchase_order_id = ? AND id <> ? AND status <> ?", *wo.PurchaseOrderID, wo.ID, models.WorkOrderClosed).
				Count(&open).Error
			if err != nil {
				return nil, err
			}
			if open == 0 {
				if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", *wo.PurchaseOrderID).
					Update("status", models.PurchaseOrderCompleted).Error; err != nil {
					return nil, err
				}
			}
		}

		if _, err := notifications.Enqueue(tx, notifications.WorkOrderClosed(wo.WoNumber)); err != nil {
			return nil, err
		}
		return fields, nil
	})
}

// Destroy soft deletes the order with its delivery notes. When it was the
// last work order of its purchase order, the purchase order goes back to
// Collection Pending. Orders with a raised or processed invoice are kept.
func (s *WorkOrderService) Destroy(ctx context.Context, id uint, opts TransitionOptions) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		wo, err := orders.GetByID(id)
		if err != nil {
			return notFound("work order", id, err)
		}
		if opts.ExpectedVersion != 0 && opts.ExpectedVersion != wo.Version {
			return &ConcurrentUpdateError{Entity: "work order", ID: id}
		}
		claimed, err := orders.Claim(wo.ID, wo.Version)
		if err != nil {
			return err
		}
		if !claimed {
			return &ConcurrentUpdateError{Entity: "work order", ID: id}
		}

		if wo.InvoiceStatus != "" && wo.InvoiceStatus != models.InvoicePending {
			return &PreconditionError{Operation: "destroy", Current: "invoice " + wo.InvoiceStatus, Required: []string{"invoice " + models.InvoicePending}}
		}
		for _, dn := range wo.DeliveryNotes {
			for _, line := range dn.Items {
				if line.InvoiceStatus != "" && line.InvoiceStatus != models.InvoicePending {
					return &PreconditionError{Operation: "destroy", Current: "invoice " + line.InvoiceStatus, Required: []string{"invoice " + models.InvoicePending}}
				}
			}
		}

		if err := orders.SoftDelete(wo.ID, opts.ActorID); err != nil {
			return err
		}

		if wo.PurchaseOrderID != nil {
			remaining, err := orders.CountByPurchaseOrder(*wo.PurchaseOrderID)
			if err != nil {
				return err
			}
			if remaining == 0 {
				if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", *wo.PurchaseOrderID).
					Update("status", models.PurchaseOrderCollectionPending).Error; err != nil {
					return err
				}
			}
		}

		woLog.Info("work order deleted", "id", id, "wo_number", wo.WoNumber, "actor", opts.ActorID)
		return helpers.InsertTransactionHistory(tx, wo.WoNumber, "Deleted", helpers.HistoryWorkOrder,
			map[string]interface{}{"operation": "destroy", "from": wo.Status}, opts.ActorID)
	})
}
