package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DiagnosisReport is the model for a crop photo diagnosis.
type DiagnosisReport struct {
	gorm.Model
	UserID       uint  `gorm:"index"`
	User         *User `gorm:"foreignKey:UserID"`
	Crop         string
	ImageURL     string
	Condition    string
	Severity     DiagnosisSeverity `gorm:"type:text"`
	Symptoms     pq.StringArray    `gorm:"type:text[]"`
	Treatment    pq.StringArray    `gorm:"type:text[]"`
	Prevention   pq.StringArray    `gorm:"type:text[]"`
	Confidence   float64
	AdvisoryText string
	Language     string `gorm:"default:'hi-IN'"`
}

// DiagnosisSeverity is the type for the DiagnosisSeverity enum.
type DiagnosisSeverity string

// DiagnosisSeverity enum values.
const (
	SeverityLow      DiagnosisSeverity = "low"
	SeverityModerate DiagnosisSeverity = "moderate"
	SeverityHigh     DiagnosisSeverity = "high"
)

// IsValidSeverity checks if the DiagnosisSeverity is valid.
func (d *DiagnosisReport) IsValidSeverity() bool {
	switch d.Severity {
	case SeverityLow, SeverityModerate, SeverityHigh:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new DiagnosisReport.
func (d *DiagnosisReport) BeforeCreate(tx *gorm.DB) (err error) {
	if !d.IsValidSeverity() {
		// Set default
		d.Severity = SeverityModerate
	}

	return nil
}
