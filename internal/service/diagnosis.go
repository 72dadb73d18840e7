package service

import (
	"context"
	"fmt"

	"github.com/farmmitra/farmmitra-api/internal/ai"
	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/repository"
	"github.com/farmmitra/farmmitra-api/internal/s3"
	"github.com/farmmitra/farmmitra-api/internal/voice"
	"go.uber.org/zap"
)

// maxPhotoSize caps uploaded crop photos at 10 MB.
const maxPhotoSize = 10 * 1024 * 1024

// DiagnosisService is the business logic layer for crop photo diagnosis.
type DiagnosisService struct {
	Cfg            *config.Config
	VisionProvider ai.VisionProvider
	Repo           repository.DiagnosisRepo
	UserRepo       repository.UserRepo
}

// NewDiagnosisService creates a new DiagnosisService.
func NewDiagnosisService(cfg *config.Config, visionProvider ai.VisionProvider, repo repository.DiagnosisRepo, userRepo repository.UserRepo) *DiagnosisService {
	return &DiagnosisService{
		Cfg:            cfg,
		VisionProvider: visionProvider,
		Repo:           repo,
		UserRepo:       userRepo,
	}
}

// DiagnosisResponse is the response object for a crop diagnosis.
type DiagnosisResponse struct {
	ID           uint     `json:"id"`
	Crop         string   `json:"crop"`
	Condition    string   `json:"condition"`
	Severity     string   `json:"severity"`
	Symptoms     []string `json:"symptoms"`
	Treatment    []string `json:"treatment"`
	Prevention   []string `json:"prevention"`
	Confidence   float64  `json:"confidence"`
	AdvisoryText string   `json:"advisory_text"`
	ImageURL     string   `json:"image_url,omitempty"`
	Language     string   `json:"language"`
}

// DiagnoseCrop analyses a crop photo, stores the report, and archives the
// photo in S3. The S3 upload is best effort: a failed upload never blocks
// the diagnosis.
func (s *DiagnosisService) DiagnoseCrop(ctx context.Context, user *models.User, imageData []byte, crop, language string) (*DiagnosisResponse, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("no photo provided")
	}
	if len(imageData) > maxPhotoSize {
		return nil, fmt.Errorf("photo exceeds the 10 MB limit")
	}
	if user.Subscription != nil && !user.Subscription.CanUseDiagnosis() {
		return nil, fmt.Errorf("monthly diagnosis limit reached")
	}

	if language == "" && user.Settings != nil {
		language = user.Settings.PreferredLanguage
	}
	if language == "" {
		language = voice.DefaultLanguage
	}
	if !voice.Supported(language) {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	result, err := s.VisionProvider.DiagnoseCrop(ctx, imageData, crop, language)
	if err != nil {
		return nil, fmt.Errorf("diagnose crop: %w", err)
	}

	imageURL := ""
	s3Key := s3.GenerateS3Key(user.ID)
	if url, err := s3.UploadCropPhotoToS3(ctx, s.Cfg, imageData, s3Key); err != nil {
		logger.Get().Warn("failed to archive crop photo", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		imageURL = url
	}

	report := &models.DiagnosisReport{
		UserID:       user.ID,
		Crop:         crop,
		ImageURL:     imageURL,
		Condition:    result.Condition,
		Severity:     models.DiagnosisSeverity(result.Severity),
		Symptoms:     result.Symptoms,
		Treatment:    result.Treatment,
		Prevention:   result.Prevention,
		Confidence:   result.Confidence,
		AdvisoryText: result.AdvisoryText,
		Language:     language,
	}
	if err := s.Repo.CreateDiagnosis(report); err != nil {
		return nil, fmt.Errorf("failed to save diagnosis: %w", err)
	}

	// Best effort; the report was already produced
	_ = s.UserRepo.IncrementSubscriptionUsage(user.ID, "diagnoses_used")

	return toDiagnosisResponse(report), nil
}

// GetDiagnosis returns one diagnosis report, scoped to the user.
func (s *DiagnosisService) GetDiagnosis(user *models.User, reportID uint) (*DiagnosisResponse, error) {
	report, err := s.Repo.GetDiagnosisByID(reportID)
	if err != nil {
		return nil, err
	}
	if report.UserID != user.ID {
		return nil, fmt.Errorf("diagnosis does not belong to user")
	}
	return toDiagnosisResponse(report), nil
}

// ListDiagnoses returns a page of the user's past diagnoses, newest first.
func (s *DiagnosisService) ListDiagnoses(user *models.User, page, pageSize int) ([]DiagnosisResponse, int64, error) {
	reports, total, err := s.Repo.GetUserDiagnoses(user.ID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DiagnosisResponse, 0, len(reports))
	for i := range reports {
		responses = append(responses, *toDiagnosisResponse(&reports[i]))
	}
	return responses, total, nil
}

func toDiagnosisResponse(report *models.DiagnosisReport) *DiagnosisResponse {
	return &DiagnosisResponse{
		ID:           report.ID,
		Crop:         report.Crop,
		Condition:    report.Condition,
		Severity:     string(report.Severity),
		Symptoms:     report.Symptoms,
		Treatment:    report.Treatment,
		Prevention:   report.Prevention,
		Confidence:   report.Confidence,
		AdvisoryText: report.AdvisoryText,
		ImageURL:     report.ImageURL,
		Language:     report.Language,
	}
}
