package models

import "gorm.io/gorm"

const (
	PurchaseOrderCollectionPending = "Collection Pending"
	PurchaseOrderCollected         = "Collected"
	PurchaseOrderCompleted         = "Completed"
)

type Item struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Description string `json:"description"`
	CreatedBy   int    `json:"created_by"`
	UpdatedBy   int    `json:"updated_by"`
}

type Unit struct {
	gorm.Model
	Name      string `json:"name" gorm:"size:100;uniqueIndex;not null"`
	CreatedBy int    `json:"created_by"`
	UpdatedBy int    `json:"updated_by"`
}

// Technician is a calibration team member items can be assigned to.
type Technician struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Designation string `json:"designation"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number" gorm:"size:20"`
	CreatedBy   int    `json:"created_by"`
	UpdatedBy   int    `json:"updated_by"`
}

type Quotation struct {
	gorm.Model
	QuotationNumber       string `json:"quotation_number" gorm:"size:50;uniqueIndex"`
	CompanyName           string `json:"company_name"`
	AssignedSalesPersonID *uint  `json:"assigned_sales_person_id"`
	AssignedSalesPerson   *User  `json:"assigned_sales_person,omitempty"`
	CreatedBy             int    `json:"created_by"`
}

type PurchaseOrder struct {
	gorm.Model
	PoNumber      string     `json:"po_number" gorm:"size:50;uniqueIndex"`
	ClientPoNo    string     `json:"client_po_number"`
	QuotationID   *uint      `json:"quotation_id"`
	Quotation     *Quotation `json:"quotation,omitempty"`
	Status        string     `json:"status" gorm:"size:30"`
	SalesPersonID *uint      `json:"sales_person_id"`
	SalesPerson   *User      `json:"sales_person,omitempty"`
	CreatedBy     int        `json:"created_by"`
	UpdatedBy     int        `json:"updated_by"`
}
