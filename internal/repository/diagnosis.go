package repository

import (
	"errors"
	"fmt"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DiagnosisRepository is a repository for interacting with diagnosis reports.
type DiagnosisRepository struct {
	DB *gorm.DB
}

// NewDiagnosisRepository creates a new DiagnosisRepository.
func NewDiagnosisRepository(db *gorm.DB) *DiagnosisRepository {
	return &DiagnosisRepository{DB: db}
}

// CreateDiagnosis stores a new diagnosis report.
func (r *DiagnosisRepository) CreateDiagnosis(report *models.DiagnosisReport) error {
	if err := r.DB.Create(report).Error; err != nil {
		logger.Get().Error("failed to create diagnosis report", zap.Uint("user_id", report.UserID), zap.Error(err))
		return err
	}
	return nil
}

// GetDiagnosisByID retrieves a diagnosis report by its ID.
func (r *DiagnosisRepository) GetDiagnosisByID(reportID uint) (*models.DiagnosisReport, error) {
	var report models.DiagnosisReport
	err := r.DB.Where("id = ?", reportID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: fmt.Sprintf("diagnosis report %d not found", reportID)}
		}
		return nil, err
	}
	return &report, nil
}

// GetUserDiagnoses retrieves a page of a user's diagnosis reports, newest first.
func (r *DiagnosisRepository) GetUserDiagnoses(userID uint, page, pageSize int) ([]models.DiagnosisReport, int64, error) {
	var reports []models.DiagnosisReport
	var total int64

	query := r.DB.Model(&models.DiagnosisReport{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// UpdateDiagnosisImageURL updates the stored photo URL for a report.
func (r *DiagnosisRepository) UpdateDiagnosisImageURL(reportID uint, imageURL string) error {
	err := r.DB.Model(&models.DiagnosisReport{}).
		Where("id = ?", reportID).
		Update("image_url", imageURL).Error
	if err != nil {
		logger.Get().Error("failed to update diagnosis image URL", zap.Uint("report_id", reportID), zap.Error(err))
	}
	return err
}
