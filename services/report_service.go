package services

import (
	"calibration-app/models"
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type DueDateRow struct {
	WorkOrderID        uint      `json:"work_order_id"`
	WoNumber           string    `json:"wo_number"`
	WorkOrderItemID    uint      `json:"work_order_item_id"`
	ItemName           string    `json:"item_name"`
	CertificateNumber  string    `json:"certificate_number"`
	UucSerialNumber    string    `json:"uuc_serial_number"`
	CalibrationDueDate time.Time `json:"calibration_due_date"`
	DaysRemaining      int       `json:"days_remaining"`
}

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(DB *gorm.DB) *ReportService {
	return &ReportService{DB: DB}
}

// DueDates lists calibrated items with a due date, soonest first. withinDays
// > 0 keeps only items due in that many days (overdue ones included).
func (s *ReportService) DueDates(today time.Time, withinDays int) ([]DueDateRow, error) {
	var items []models.WorkOrderItem
	err := s.DB.Preload("Item").
		Joins("JOIN work_orders ON work_orders.id = work_order_items.work_order_id AND work_orders.deleted_at IS NULL").
		Where("work_order_items.calibration_due_date IS NOT NULL").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	woIDs := make([]uint, 0, len(items))
	for _, it := range items {
		woIDs = append(woIDs, it.WorkOrderID)
	}
	numbers := map[uint]string{}
	if len(woIDs) > 0 {
		var orders []models.WorkOrder
		if err := s.DB.Select("id", "wo_number").Where("id IN ?", woIDs).Find(&orders).Error; err != nil {
			return nil, err
		}
		for _, wo := range orders {
			numbers[wo.ID] = wo.WoNumber
		}
	}

	day := dateOnly(today, today.Location())
	rows := make([]DueDateRow, 0, len(items))
	for _, it := range items {
		due := dateOnly(*it.CalibrationDueDate, today.Location())
		remaining := int(due.Sub(day).Hours() / 24)
		if withinDays > 0 && remaining > withinDays {
			continue
		}
		name := ""
		if it.Item != nil {
			name = it.Item.Name
		}
		rows = append(rows, DueDateRow{
			WorkOrderID:        it.WorkOrderID,
			WoNumber:           numbers[it.WorkOrderID],
			WorkOrderItemID:    it.ID,
			ItemName:           name,
			CertificateNumber:  it.CertificateNumber,
			UucSerialNumber:    it.UucSerialNumber,
			CalibrationDueDate: due,
			DaysRemaining:      remaining,
		})
	}

	slices.SortFunc(rows, func(a, b DueDateRow) int {
		if a.DaysRemaining != b.DaysRemaining {
			return a.DaysRemaining - b.DaysRemaining
		}
		return int(a.WorkOrderItemID) - int(b.WorkOrderItemID)
	})
	return rows, nil
}

type StatusCount struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

type Dashboard struct {
	WorkOrders      []StatusCount `json:"work_orders"`
	Invoices        []StatusCount `json:"invoices"`
	PendingDelivery int64         `json:"pending_delivery_notes"`
	DueWithinMonth  int           `json:"due_within_30_days"`
}

// Summary counts open work by status for the dashboard.
func (s *ReportService) Summary(today time.Time) (*Dashboard, error) {
	d := &Dashboard{}
	err := s.DB.Model(&models.WorkOrder{}).
		Select("status, COUNT(*) AS total").Group("status").Order("status").
		Scan(&d.WorkOrders).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.Model(&models.WorkOrder{}).
		Select("invoice_status AS status, COUNT(*) AS total").
		Where("status IN ?", billableStatuses).
		Group("invoice_status").Order("invoice_status").
		Scan(&d.Invoices).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.Model(&models.DeliveryNote{}).
		Where("delivery_status = ?", models.DeliveryPending).
		Count(&d.PendingDelivery).Error
	if err != nil {
		return nil, err
	}
	due, err := s.DueDates(today, 30)
	if err != nil {
		return nil, err
	}
	d.DueWithinMonth = len(due)
	return d, nil
}
