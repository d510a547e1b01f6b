package models

import (
	"calibration-app/controllers/idgen"
	"calibration-app/types"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionHistory is the audit trail of document status changes.
type TransactionHistory struct {
	ID        types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RefNo     string            `json:"ref_no" gorm:"size:50;index"`
	Status    string            `json:"status" gorm:"size:30"`
	Type      string            `json:"type" gorm:"size:30"`
	Detail    datatypes.JSON    `json:"detail"`
	CreatedAt time.Time         `json:"created_at"`
	CreatedBy int               `json:"created_by"`
}

func (h *TransactionHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == 0 {
		h.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
