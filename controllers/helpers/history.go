package helpers

import (
	"calibration-app/models"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// History types.
const (
	HistoryWorkOrder    = "work_order"
	HistoryDeliveryNote = "delivery_note"
	HistoryInvoice      = "invoice"
)

// InsertTransactionHistory appends an audit row. Pass the transaction of the
// change being recorded.
func InsertTransactionHistory(db *gorm.DB, refNo, status, txType string, detail interface{}, actor int) error {
	var raw datatypes.JSON
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		raw = datatypes.JSON(b)
	}

	history := models.TransactionHistory{
		RefNo:     refNo,
		Status:    status,
		Type:      txType,
		Detail:    raw,
		CreatedAt: time.Now(),
		CreatedBy: actor,
	}
	return db.Create(&history).Error
}

func GetTransactionHistory(db *gorm.DB, refNo string) ([]models.TransactionHistory, error) {
	var rows []models.TransactionHistory
	err := db.Where("ref_no = ?", refNo).Order("created_at, id").Find(&rows).Error
	return rows, err
}
