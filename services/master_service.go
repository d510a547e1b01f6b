package services

import (
	"calibration-app/models"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// MasterDataService manages the reference rows work orders point at.
type MasterDataService struct {
	DB      *gorm.DB
	numbers *NumberSeriesService
}

func NewMasterDataService(DB *gorm.DB, numbers *NumberSeriesService) *MasterDataService {
	return &MasterDataService{DB: DB, numbers: numbers}
}

func (s *MasterDataService) uniqueName(model interface{}, name string, exceptID uint) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "required")
	}
	var n int64
	if err := s.DB.Model(model).Where("name = ? AND id <> ?", name, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return NewValidationError("name", "already exists")
	}
	return nil
}

func knownUser(tx *gorm.DB, id uint, field string) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return NewValidationError(field, "unknown user")
	}
	return nil
}

func (s *MasterDataService) ListItems() ([]models.Item, error) {
	var items []models.Item
	err := s.DB.Order("name").Find(&items).Error
	return items, err
}

func (s *MasterDataService) CreateItem(item *models.Item) error {
	if err := s.uniqueName(&models.Item{}, item.Name, 0); err != nil {
		return err
	}
	return s.DB.Create(item).Error
}

func (s *MasterDataService) UpdateItem(id uint, name, description string, actor int) (*models.Item, error) {
	var item models.Item
	if err := s.DB.First(&item, id).Error; err != nil {
		return nil, notFound("item", id, err)
	}
	if err := s.uniqueName(&models.Item{}, name, id); err != nil {
		return nil, err
	}
	err := s.DB.Model(&item).Updates(map[string]interface{}{"name": name, "description": description, "updated_by": actor}).Error
	return &item, err
}

func (s *MasterDataService) ListUnits() ([]models.Unit, error) {
	var units []models.Unit
	err := s.DB.Order("name").Find(&units).Error
	return units, err
}

func (s *MasterDataService) CreateUnit(unit *models.Unit) error {
	if err := s.uniqueName(&models.Unit{}, unit.Name, 0); err != nil {
		return err
	}
	return s.DB.Create(unit).Error
}

func (s *MasterDataService) ListTechnicians() ([]models.Technician, error) {
	var team []models.Technician
	err := s.DB.Order("name").Find(&team).Error
	return team, err
}

func (s *MasterDataService) CreateTechnician(t *models.Technician) error {
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name", "required")
	}
	return s.DB.Create(t).Error
}

func (s *MasterDataService) ListPurchaseOrders(status string) ([]models.PurchaseOrder, error) {
	q := s.DB.Preload("SalesPerson")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.PurchaseOrder
	err := q.Order("id DESC").Find(&orders).Error
	return orders, err
}

// CreatePurchaseOrder numbers the PO from the "Purchase Order" series and
// starts it in Collection Pending.
func (s *MasterDataService) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if po.SalesPersonID != nil {
			if err := knownUser(tx, *po.SalesPersonID, "sales_person_id"); err != nil {
				return err
			}
		}
		if po.QuotationID != nil {
			var q models.Quotation
			if err := tx.First(&q, *po.QuotationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewValidationError("quotation_id", "unknown quotation")
				}
				return err
			}
		}
		number, err := s.numbers.Next(tx, models.SeriesPurchaseOrder)
		if err != nil {
			return err
		}
		po.PoNumber = number
		po.Status = models.PurchaseOrderCollectionPending
		return tx.Create(po).Error
	})
}

func (s *MasterDataService) ListQuotations() ([]models.Quotation, error) {
	var quotations []models.Quotation
	err := s.DB.Preload("AssignedSalesPerson").Order("id DESC").Find(&quotations).Error
	return quotations, err
}

func (s *MasterDataService) CreateQuotation(ctx context.Context, q *models.Quotation) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if q.AssignedSalesPersonID != nil {
			if err := knownUser(tx, *q.AssignedSalesPersonID, "assigned_sales_person_id"); err != nil {
				return err
			}
		}
		number, err := s.numbers.Next(tx, models.SeriesQuotation)
		if err != nil {
			return err
		}
		q.QuotationNumber = number
		return tx.Create(q).Error
	})
}
