package repositories

import (
	"calibration-app/models"

	"gorm.io/gorm"
)

type DeliveryNoteRepository struct {
	DB *gorm.DB
}

func NewDeliveryNoteRepository(DB *gorm.DB) *DeliveryNoteRepository {
	return &DeliveryNoteRepository{DB: DB}
}

func (r *DeliveryNoteRepository) WithTx(tx *gorm.DB) *DeliveryNoteRepository {
	return &DeliveryNoteRepository{DB: tx}
}

func (r *DeliveryNoteRepository) List(status string) ([]models.DeliveryNote, error) {
	q := r.DB.Preload("Items").Preload("WorkOrder")
	if status != "" {
		q = q.Where("delivery_status = ?", status)
	}
	var notes []models.DeliveryNote
	err := q.Order("id DESC").Find(&notes).Error
	return notes, err
}

func (r *DeliveryNoteRepository) GetByID(id uint) (*models.DeliveryNote, error) {
	var dn models.DeliveryNote
	err := r.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Components").
		Preload("Items.Item").
		Preload("Items.Uom").
		Preload("AssignedTo").
		First(&dn, id).Error
	return &dn, err
}

func (r *DeliveryNoteRepository) ListByWorkOrder(woID uint) ([]models.DeliveryNote, error) {
	var notes []models.DeliveryNote
	err := r.DB.Preload("Items").Where("work_order_id = ?", woID).Order("id").Find(&notes).Error
	return notes, err
}

// Create stores the note with its items and their components.
func (r *DeliveryNoteRepository) Create(dn *models.DeliveryNote) error {
	return r.DB.Create(dn).Error
}

// ReplaceItems soft deletes the current lines of the note and stores items.
func (r *DeliveryNoteRepository) ReplaceItems(dnID uint, items []models.DeliveryNoteItem) error {
	var lineIDs []uint
	if err := r.DB.Model(&models.DeliveryNoteItem{}).Where("delivery_note_id = ?", dnID).Pluck("id", &lineIDs).Error; err != nil {
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
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].DeliveryNoteID = dnID
	}
	return r.DB.Create(&items).Error
}

func (r *DeliveryNoteRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&models.DeliveryNote{}).Where("id = ?", id).Updates(fields).Error
}

func (r *DeliveryNoteRepository) GetItem(id uint) (*models.DeliveryNoteItem, error) {
	var item models.DeliveryNoteItem
	err := r.DB.First(&item, id).Error
	return &item, err
}

func (r *DeliveryNoteRepository) UpdateItemFields(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&models.DeliveryNoteItem{}).Where("id = ?", id).Updates(fields).Error
}

// RaisedItems returns delivery note lines whose invoice is raised.
func (r *DeliveryNoteRepository) RaisedItems() ([]models.DeliveryNoteItem, error) {
	var items []models.DeliveryNoteItem
	err := r.DB.Where("invoice_status = ? AND invoice_raised_at IS NOT NULL", models.InvoiceRaised).
		Order("id").Find(&items).Error
	return items, err
}
