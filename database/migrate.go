package database

import (
	"calibration-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.NumberSeries{},
		&models.Item{},
		&models.Unit{},
		&models.Technician{},
		&models.Quotation{},
		&models.PurchaseOrder{},
		&models.WorkOrder{},
		&models.WorkOrderItem{},
		&models.DeliveryNote{},
		&models.DeliveryNoteItem{},
		&models.DeliveryNoteItemComponent{},
		&models.TransactionHistory{},
		&models.NotificationOutbox{},
		&models.ReminderLog{},
	)
}
