package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User is the model for a farmer account.
type User struct {
	gorm.Model
	Username     string        `gorm:"unique;index"`
	FirstName    string        `gorm:"default:null"`
	Phone        string        `gorm:"unique;default:null"`
	Auth         *UserAuth     `gorm:"foreignKey:UserID"`
	Subscription *Subscription `gorm:"foreignKey:UserID"`
	Settings     *UserSettings `gorm:"foreignKey:UserID"`
	FarmProfile  *FarmProfile  `gorm:"foreignKey:UserID"`
}

// UserAuth is the model for a user's authentication information.
type UserAuth struct {
	gorm.Model
	UserID         uint `gorm:"unique;index"`
	HashedPassword string
	AuthType       UserAuthType `gorm:"type:text"`
}

// UserAuthType is the type for the UserAuthType enum.
type UserAuthType string

// UserAuthType enum values.
const (
	Standard UserAuthType = "standard"
)

// IsValidAuthType checks if the AuthType is valid.
func (ua *UserAuth) IsValidAuthType() bool {
	switch ua.AuthType {
	case Standard:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new UserAuth.
func (ua *UserAuth) BeforeCreate(tx *gorm.DB) (err error) {
	if !ua.IsValidAuthType() {
		// Cancel transaction
		return errors.New("invalid AuthType provided")
	}

	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a UserAuth.
func (ua *UserAuth) BeforeUpdate(tx *gorm.DB) (err error) {
	if !ua.IsValidAuthType() {
		// Cancel transaction
		return errors.New("invalid AuthType provided")
	}

	return nil
}

// SubscriptionTier is the type for the SubscriptionTier enum.
type SubscriptionTier string

// SubscriptionTier enum values.
const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
)

// Subscription is the model for a user's subscription and monthly usage counters.
type Subscription struct {
	gorm.Model
	UserID           uint             `gorm:"uniqueIndex;not null"`
	Tier             SubscriptionTier `gorm:"type:text;default:'free'"`
	ExpiresAt        *time.Time
	DiagnosesUsed    int `gorm:"default:0"`
	VoiceQueriesUsed int `gorm:"default:0"`
	ChatMessagesUsed int `gorm:"default:0"`
	MonthlyResetAt   time.Time
}

// CanUseDiagnosis checks if the user can run a crop photo diagnosis.
func (s *Subscription) CanUseDiagnosis() bool {
	if s.Tier == TierPremium {
		return true
	}
	return s.DiagnosesUsed < 10
}

// CanUseVoiceQuery checks if the user can submit a voice query.
func (s *Subscription) CanUseVoiceQuery() bool {
	if s.Tier == TierPremium {
		return true
	}
	return s.VoiceQueriesUsed < 100
}

// CanUseChat checks if the user can send a chat message.
func (s *Subscription) CanUseChat() bool {
	if s.Tier == TierPremium {
		return true
	}
	return s.ChatMessagesUsed < 200
}

// IsValidSubscriptionTier checks if the SubscriptionTier is valid.
func (s *Subscription) IsValidSubscriptionTier() bool {
	switch s.Tier {
	case TierFree, TierPremium:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new user Subscription.
func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if !s.IsValidSubscriptionTier() {
		s.Tier = TierFree
	}

	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a user Subscription.
func (s *Subscription) BeforeUpdate(tx *gorm.DB) (err error) {
	if !s.IsValidSubscriptionTier() {
		return errors.New("invalid SubscriptionTier provided")
	}

	return nil
}

// UserSettings is the model for a user's settings.
type UserSettings struct {
	gorm.Model
	UserID            uint   `gorm:"unique;index"`
	PreferredLanguage string `gorm:"default:'hi-IN'"`
	VoiceGender       string `gorm:"default:null"`
}

// FarmProfile is the model for a user's farm details, used to ground advisories.
type FarmProfile struct {
	gorm.Model
	UserID        uint           `gorm:"unique;index"`
	District      string
	State         string
	Crops         pq.StringArray `gorm:"type:text[]"`
	LandSizeAcres float64
	Experience    ExperienceLevel `gorm:"type:text"`
	UID           uuid.UUID
}

// ExperienceLevel is the type for the ExperienceLevel enum.
type ExperienceLevel string

// ExperienceLevel enum values.
const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceExperienced  ExperienceLevel = "experienced"
)

// IsValidExperience checks if the ExperienceLevel is valid.
func (fp *FarmProfile) IsValidExperience() bool {
	switch fp.Experience {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceExperienced:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new FarmProfile.
func (fp *FarmProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if !fp.IsValidExperience() {
		// Set default
		fp.Experience = ExperienceBeginner
	}

	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a FarmProfile.
func (fp *FarmProfile) BeforeUpdate(tx *gorm.DB) (err error) {
	if !fp.IsValidExperience() {
		// Set default
		fp.Experience = ExperienceBeginner
	}

	return nil
}
