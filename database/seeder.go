package database

import (
	"calibration-app/config"
	"calibration-app/models"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSeries are the number series the lifecycle expects to exist.
var DefaultSeries = []models.NumberSeries{
	{SeriesName: models.SeriesWorkOrder, Prefix: "WO"},
	{SeriesName: models.SeriesDeliveryNote, Prefix: "DN"},
	{SeriesName: models.SeriesPurchaseOrder, Prefix: "PO"},
	{SeriesName: models.SeriesQuotation, Prefix: "QUO"},
	{SeriesName: models.SeriesRFQ, Prefix: "RFQ"},
}

func RunSeeders(db *gorm.DB) error {
	if err := SeedNumberSeries(db); err != nil {
		return err
	}
	if err := SeedUnits(db); err != nil {
		return err
	}
	return SeedAdminUser(db, config.AdminEmail, config.AdminPassword)
}

// SeedNumberSeries creates missing series; existing counters are left alone.
func SeedNumberSeries(db *gorm.DB) error {
	for _, s := range DefaultSeries {
		var existing models.NumberSeries
		err := db.Where("series_name = ?", s.SeriesName).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		s := s
		if err := db.Create(&s).Error; err != nil {
			return err
		}
		log.Info("seeded number series", "series", s.SeriesName, "prefix", s.Prefix)
	}
	return nil
}

func SeedUnits(db *gorm.DB) error {
	for _, name := range []string{"Nos", "Set", "Lot"} {
		var existing models.Unit
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Unit{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedAdminUser creates the first superuser when no user has the given email.
func SeedAdminUser(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:    "admin",
		Name:        "Administrator",
		Email:       email,
		Password:    string(hash),
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Info("seeded admin user", "email", email)
	return nil
}
