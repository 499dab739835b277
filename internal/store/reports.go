package store

import (
	"errors"
	"fmt"

	"github.com/eco-rangers/eco-rangers-api/internal/models"
	"gorm.io/gorm"
)

type Reports struct {
	db *gorm.DB
}

func NewReports(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

// List returns all reports, newest id first.
func (s *Reports) List() ([]models.Report, error) {
	var reports []models.Report
	if err := s.db.Order("id DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *Reports) Get(id uint) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (s *Reports) Create(report *models.Report) error {
	if err := s.db.Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// UpdateStatus mutates only the status column and returns the updated row.
func (s *Reports) UpdateStatus(id uint, status models.ReportStatus) (*models.Report, error) {
	report, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(report).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	return report, nil
}

func (s *Reports) Delete(id uint) error {
	res := s.db.Delete(&models.Report{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
