package models

import "gorm.io/gorm"

const (
	DeliveryPending   = "Delivery Pending"
	DeliveryDelivered = "Delivered"
)

const (
	DeliveryTypeSingle   = "Single"
	DeliveryTypeMultiple = "Multiple"
)

type DeliveryNote struct {
	gorm.Model
	DnNumber           string      `json:"dn_number" gorm:"size:50;uniqueIndex;not null"`
	WorkOrderID        uint        `json:"work_order_id" gorm:"index;not null"`
	WorkOrder          *WorkOrder  `json:"work_order,omitempty"`
	DeliveryStatus     string      `json:"delivery_status" gorm:"size:30;not null"`
	SignedDeliveryNote string      `json:"signed_delivery_note"`
	AssignedToID       *uint       `json:"assigned_to_id"`
	AssignedTo         *Technician `json:"assigned_to,omitempty"`
	// Provisional marks the note created on approval; the first explicit
	// delivery split rewrites it instead of adding another note.
	Provisional bool               `json:"provisional"`
	Items       []DeliveryNoteItem `json:"items,omitempty" gorm:"foreignKey:DeliveryNoteID"`
	CreatedBy   int                `json:"created_by"`
	UpdatedBy   int                `json:"updated_by"`
	DeletedBy   int                `json:"deleted_by"`
}

type DeliveryNoteItem struct {
	gorm.Model
	DeliveryNoteID    uint                        `json:"delivery_note_id" gorm:"index;not null"`
	WorkOrderItemID   uint                        `json:"work_order_item_id" gorm:"index;not null"`
	ItemID            uint                        `json:"item_id"`
	Item              *Item                       `json:"item,omitempty"`
	UomID             uint                        `json:"uom_id"`
	Uom               *Unit                       `json:"uom,omitempty" gorm:"foreignKey:UomID"`
	Range             string                      `json:"range"`
	Quantity          int                         `json:"quantity" gorm:"not null"`
	DeliveredQuantity int                         `json:"delivered_quantity" gorm:"not null"`
	InvoiceState      `gorm:"embedded"`
	Components        []DeliveryNoteItemComponent `json:"components,omitempty" gorm:"foreignKey:DeliveryNoteItemID"`
}

type DeliveryNoteItemComponent struct {
	gorm.Model
	DeliveryNoteItemID uint   `json:"delivery_note_item_id" gorm:"index;not null"`
	Component          string `json:"component" gorm:"size:100;not null"`
	Value              string `json:"value" gorm:"size:100"`
}
