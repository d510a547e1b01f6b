package repositories

import (
	"calibration-app/models"

	"gorm.io/gorm"
)

type NumberSeriesRepository struct {
	DB *gorm.DB
}

func NewNumberSeriesRepository(DB *gorm.DB) *NumberSeriesRepository {
	return &NumberSeriesRepository{DB: DB}
}

func (r *NumberSeriesRepository) WithTx(tx *gorm.DB) *NumberSeriesRepository {
	return &NumberSeriesRepository{DB: tx}
}

func (r *NumberSeriesRepository) GetAll() ([]models.NumberSeries, error) {
	var series []models.NumberSeries
	err := r.DB.Order("series_name").Find(&series).Error
	return series, err
}

func (r *NumberSeriesRepository) GetByID(id uint) (*models.NumberSeries, error) {
	var s models.NumberSeries
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *NumberSeriesRepository) GetByName(name string) (*models.NumberSeries, error) {
	var s models.NumberSeries
	err := r.DB.Where("series_name = ?", name).First(&s).Error
	return &s, err
}

func (r *NumberSeriesRepository) Create(s *models.NumberSeries) error {
	return r.DB.Create(s).Error
}

func (r *NumberSeriesRepository) Update(s *models.NumberSeries) error {
	return r.DB.Model(s).Updates(map[string]interface{}{
		"series_name": s.SeriesName,
		"prefix":      s.Prefix,
	}).Error
}

// Increment bumps the counter in a single UPDATE so the row stays locked until
// the surrounding transaction ends. It reports whether the series exists.
func (r *NumberSeriesRepository) Increment(name string) (bool, error) {
	res := r.DB.Model(&models.NumberSeries{}).
		Where("series_name = ?", name).
		UpdateColumn("last_number", gorm.Expr("last_number + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
