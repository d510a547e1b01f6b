package services

import (
	"calibration-app/models"
	"calibration-app/repositories"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var prefixPattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// FormatNumber renders a document number, e.g. WO-000042.
func FormatNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

type NumberSeriesService struct {
	repo *repositories.NumberSeriesRepository
}

func NewNumberSeriesService(repo *repositories.NumberSeriesRepository) *NumberSeriesService {
	return &NumberSeriesService{repo: repo}
}

// Next issues the next number of the named series. Pass the transaction that
// creates the numbered document: the number is only consumed if it commits,
// and concurrent callers queue on the series row.
func (s *NumberSeriesService) Next(tx *gorm.DB, seriesName string) (string, error) {
	repo := s.repo.WithTx(tx)

	ok, err := repo.Increment(seriesName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &ConfigurationError{Kind: "number series", Name: seriesName}
	}

	series, err := repo.GetByName(seriesName)
	if err != nil {
		return "", err
	}
	return FormatNumber(series.Prefix, series.LastNumber), nil
}

func (s *NumberSeriesService) GetAll() ([]models.NumberSeries, error) {
	return s.repo.GetAll()
}

func validateSeries(name, prefix string) error {
	verr := &ValidationError{}
	if strings.TrimSpace(name) == "" {
		verr.Add("series_name", "required")
	}
	if !prefixPattern.MatchString(prefix) {
		verr.Add("prefix", "must contain only A-Z, 0-9, '_' or '-'")
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

func (s *NumberSeriesService) Create(name, prefix string) (*models.NumberSeries, error) {
	if err := validateSeries(name, prefix); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByName(name); err == nil {
		return nil, NewValidationError("series_name", "already exists")
	}
	series := &models.NumberSeries{SeriesName: name, Prefix: prefix}
	if err := s.repo.Create(series); err != nil {
		return nil, err
	}
	return series, nil
}

// Update renames a series. The prefix is frozen once a number was issued so
// existing documents and new ones share one prefix.
func (s *NumberSeriesService) Update(id uint, name, prefix string) (*models.NumberSeries, error) {
	if err := validateSeries(name, prefix); err != nil {
		return nil, err
	}
	series, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "number series", ID: id}
		}
		return nil, err
	}
	if series.Prefix != prefix && series.LastNumber > 0 {
		return nil, NewValidationError("prefix", "cannot change after numbers were issued")
	}
	series.SeriesName = name
	series.Prefix = prefix
	if err := s.repo.Update(series); err != nil {
		return nil, err
	}
	return series, nil
}
