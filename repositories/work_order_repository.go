package repositories

import (
	"calibration-app/models"

	"gorm.io/gorm"
)

type WorkOrderRepository struct {
	DB *gorm.DB
}

func NewWorkOrderRepository(DB *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{DB: DB}
}

func (r *WorkOrderRepository) WithTx(tx *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{DB: tx}
}

type WorkOrderFilter struct {
	Status          string
	InvoiceStatus   string
	PurchaseOrderID uint
	Search          string
}

func (r *WorkOrderRepository) List(f WorkOrderFilter) ([]models.WorkOrder, error) {
	q := r.DB.Model(&models.WorkOrder{}).Preload("Items").Preload("PurchaseOrder")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.InvoiceStatus != "" {
		q = q.Where("invoice_status = ?", f.InvoiceStatus)
	}
	if f.PurchaseOrderID != 0 {
		q = q.Where("purchase_order_id = ?", f.PurchaseOrderID)
	}
	if f.Search != "" {
		q = q.Where("wo_number LIKE ?", "%"+f.Search+"%")
	}

	var orders []models.WorkOrder
	err := q.Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *WorkOrderRepository) GetByID(id uint) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := r.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Item").
		Preload("Items.Unit").
		Preload("Items.AssignedTo").
		Preload("PurchaseOrder").
		Preload("DeliveryNotes", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("DeliveryNotes.Items").
		First(&wo, id).Error
	return &wo, err
}

func (r *WorkOrderRepository) Create(wo *models.WorkOrder) error {
	return r.DB.Create(wo).Error
}

// Claim bumps the version if it still equals expected. A false result means
// another transition committed since the work order was read.
func (r *WorkOrderRepository) Claim(id uint, expected int) (bool, error) {
	res := r.DB.Model(&models.WorkOrder{}).
		Where("id = ? AND version = ?", id, expected).
		UpdateColumn("version", gorm.Expr("version + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *WorkOrderRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&models.WorkOrder{}).Where("id = ?", id).Updates(fields).Error
}

func (r *WorkOrderRepository) ReplaceItems(woID uint, items []models.WorkOrderItem) error {
	if err := r.DB.Where("work_order_id = ?", woID).Delete(&models.WorkOrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].WorkOrderID = woID
	}
	return r.DB.Create(&items).Error
}

func (r *WorkOrderRepository) GetItem(woID, itemID uint) (*models.WorkOrderItem, error) {
	var item models.WorkOrderItem
	err := r.DB.Where("work_order_id = ?", woID).First(&item, itemID).Error
	return &item, err
}

func (r *WorkOrderRepository) UpdateItem(item *models.WorkOrderItem, fields map[string]interface{}) error {
	return r.DB.Model(item).Updates(fields).Error
}

// SoftDelete removes the work order with its items, delivery notes and their
// lines. Numbers stay consumed.
func (r *WorkOrderRepository) SoftDelete(id uint, actor int) error {
	var noteIDs []uint
	if err := r.DB.Model(&models.DeliveryNote{}).Where("work_order_id = ?", id).Pluck("id", &noteIDs).Error; err != nil {
		return err
	}
	if len(noteIDs) > 0 {
		var lineIDs []uint
		if err := r.DB.Model(&models.DeliveryNoteItem{}).Where("delivery_note_id IN ?", noteIDs).Pluck("id", &lineIDs).Error; err != nil {
			return err
		}
		if len(lineIDs) > 0 {
			if err := r.DB.Where("delivery_note_item_id IN ?", lineIDs).Delete(&models.DeliveryNoteItemComponent{}).Error; err != nil {
				return err
			}
			if err := r.DB.Where("id IN ?", lineIDs).Delete(&models.DeliveryNoteItem{}).Error; err != nil {
				return err
			}
		}
		if err := r.DB.Model(&models.DeliveryNote{}).Where("id IN ?", noteIDs).Update("deleted_by", actor).Error; err != nil {
			return err
		}
		if err := r.DB.Where("id IN ?", noteIDs).Delete(&models.DeliveryNote{}).Error; err != nil {
			return err
		}
	}
	if err := r.DB.Where("work_order_id = ?", id).Delete(&models.WorkOrderItem{}).Error; err != nil {
		return err
	}
	if err := r.DB.Model(&models.WorkOrder{}).Where("id = ?", id).Update("deleted_by", actor).Error; err != nil {
		return err
	}
	return r.DB.Delete(&models.WorkOrder{}, id).Error
}

func (r *WorkOrderRepository) CountByPurchaseOrder(poID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&models.WorkOrder{}).Where("purchase_order_id = ?", poID).Count(&n).Error
	return n, err
}
