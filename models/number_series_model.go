package models

import "gorm.io/gorm"

// Series names looked up by the lifecycle.
const (
	SeriesWorkOrder     = "Work Order"
	SeriesDeliveryNote  = "Delivery Note"
	SeriesPurchaseOrder = "Purchase Order"
	SeriesQuotation     = "Quotation"
	SeriesRFQ           = "RFQ"
)

// NumberSeries is a named counter. LastNumber is only ever changed through an
// atomic increment so concurrent issuers never see the same value.
type NumberSeries struct {
	gorm.Model
	SeriesName string `json:"series_name" gorm:"size:100;uniqueIndex;not null"`
	Prefix     string `json:"prefix" gorm:"size:50;uniqueIndex;not null"`
	LastNumber int64  `json:"last_number" gorm:"not null;default:0"`
}
