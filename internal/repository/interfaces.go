package repository

import (
	"time"

	"github.com/farmmitra/farmmitra-api/internal/models"
)

// ConversationRepo is the interface for conversation repository operations.
type ConversationRepo interface {
	CreateConversation(conversation *models.Conversation) error
	GetConversationByID(conversationID uint) (*models.Conversation, error)
	GetUserConversations(userID uint, page, pageSize int) ([]models.Conversation, int64, error)
	GetRecentTurns(conversationID uint, limit int) ([]models.ConversationTurn, error)
	AppendTurns(conversationID uint, turns []models.ConversationTurn) error
	UpdateConversationTitle(conversationID uint, title string) error
	DeleteConversation(conversationID uint) error
}

// DiagnosisRepo is the interface for diagnosis repository operations.
type DiagnosisRepo interface {
	CreateDiagnosis(report *models.DiagnosisReport) error
	GetDiagnosisByID(reportID uint) (*models.DiagnosisReport, error)
	GetUserDiagnoses(userID uint, page, pageSize int) ([]models.DiagnosisReport, int64, error)
	UpdateDiagnosisImageURL(reportID uint, imageURL string) error
}

// PriceRepo is the interface for mandi price cache operations.
type PriceRepo interface {
	UpsertPrices(prices []models.MandiPrice) error
	GetLatestPrices(commodity, state string, maxAge time.Duration) ([]models.MandiPrice, error)
	GetAnyPrices(commodity, state string, limit int) ([]models.MandiPrice, error)
}

// UserRepo is the interface for user repository operations.
type UserRepo interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	GetUserAuthByUsername(username string) (*models.User, error)
	UpdateUserFirstName(userID uint, firstName string) error
	UpdateUserPhone(userID uint, phone string) error
	UpdateUserSettingsPreferredLanguage(userID uint, language string) error
	UpdateFarmProfile(userID uint, updatedProfile *models.FarmProfile) error
	IncrementSubscriptionUsage(userID uint, column string) error
	ResetSubscriptionUsage(userID uint, nextReset time.Time) error
	UsernameExists(username string) (bool, error)
}
