package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WorkOrderCollectionPending = "Collection Pending"
	WorkOrderCollected         = "Collected"
	WorkOrderProcessing        = "Processing"
	WorkOrderManagerApproval   = "Manager Approval"
	WorkOrderApproved          = "Approved"
	WorkOrderDeclined          = "Declined"
	WorkOrderDelivered         = "Delivered"
	WorkOrderClosed            = "Closed"
)

const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalDeclined = "Declined"
)

const (
	SiteOnsite = "onsite"
	SiteLab    = "lab"
)

type WorkOrder struct {
	gorm.Model
	WoNumber               string         `json:"wo_number" gorm:"size:50;uniqueIndex;not null"`
	PurchaseOrderID        *uint          `json:"purchase_order_id" gorm:"index"`
	PurchaseOrder          *PurchaseOrder `json:"purchase_order,omitempty"`
	QuotationID            *uint          `json:"quotation_id"`
	Quotation              *Quotation     `json:"quotation,omitempty"`
	Status                 string         `json:"status" gorm:"size:30;index;not null"`
	ManagerApprovalStatus  string         `json:"manager_approval_status" gorm:"size:20;not null"`
	DeclineReason          string         `json:"decline_reason"`
	DateReceived           *time.Time     `json:"date_received"`
	ExpectedCompletionDate *time.Time     `json:"expected_completion_date"`
	OnsiteOrLab            string         `json:"onsite_or_lab" gorm:"size:10"`
	SiteLocation           string         `json:"site_location"`
	Remarks                string         `json:"remarks"`
	WoType                 string         `json:"wo_type" gorm:"size:50"`
	PurchaseOrderFile      string         `json:"purchase_order_file"`
	WorkOrderFile          string         `json:"work_order_file"`
	SignedDeliveryNoteFile string         `json:"signed_delivery_note_file"`
	InvoiceState           `gorm:"embedded"`
	// Version increases on every transition; a transition only commits if
	// the version it read is still current.
	Version       int             `json:"version" gorm:"not null;default:1"`
	Items         []WorkOrderItem `json:"items,omitempty" gorm:"foreignKey:WorkOrderID"`
	DeliveryNotes []DeliveryNote  `json:"delivery_notes,omitempty" gorm:"foreignKey:WorkOrderID"`
	CreatedBy     int             `json:"created_by"`
	UpdatedBy     int             `json:"updated_by"`
	DeletedBy     int             `json:"deleted_by"`
}

type WorkOrderItem struct {
	gorm.Model
	WorkOrderID         uint            `json:"work_order_id" gorm:"index;not null"`
	ItemID              uint            `json:"item_id" gorm:"not null"`
	Item                *Item           `json:"item,omitempty"`
	Quantity            int             `json:"quantity" gorm:"not null"`
	UnitID              uint            `json:"unit_id" gorm:"not null"`
	Unit                *Unit           `json:"unit,omitempty"`
	UnitPrice           decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null;default:0"`
	Range               string          `json:"range"`
	CertificateUutLabel string          `json:"certificate_uut_label"`
	CertificateNumber   string          `json:"certificate_number" gorm:"size:100"`
	CalibrationDate     *time.Time      `json:"calibration_date"`
	CalibrationDueDate  *time.Time      `json:"calibration_due_date"`
	UucSerialNumber     string          `json:"uuc_serial_number" gorm:"size:100"`
	CertificateFile     string          `json:"certificate_file"`
	AssignedToID        *uint           `json:"assigned_to_id"`
	AssignedTo          *Technician     `json:"assigned_to,omitempty"`
}

// TotalPrice is quantity × unit price.
func (i WorkOrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ReadyForApproval reports whether the item carries the certificate data a
// manager reviews.
func (i WorkOrderItem) ReadyForApproval() bool {
	return i.CertificateNumber != "" && i.CalibrationDueDate != nil
}
