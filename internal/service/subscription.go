package service

import (
	"fmt"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/repository"
)

// SubscriptionService handles subscription management and usage limits.
type SubscriptionService struct {
	Cfg  *config.Config
	Repo repository.UserRepo
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(cfg *config.Config, repo repository.UserRepo) *SubscriptionService {
	return &SubscriptionService{
		Cfg:  cfg,
		Repo: repo,
	}
}

// GetSubscription retrieves the subscription for a user, rolling the monthly
// usage window forward when it has lapsed.
func (s *SubscriptionService) GetSubscription(userID uint) (*models.Subscription, error) {
	user, err := s.Repo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Subscription == nil {
		return &models.Subscription{
			UserID: userID,
			Tier:   models.TierFree,
		}, nil
	}

	// Reset monthly usage if needed
	if time.Now().After(user.Subscription.MonthlyResetAt) {
		nextReset := time.Now().AddDate(0, 1, 0)
		if err := s.Repo.ResetSubscriptionUsage(userID, nextReset); err != nil {
			return nil, err
		}
		user.Subscription.DiagnosesUsed = 0
		user.Subscription.VoiceQueriesUsed = 0
		user.Subscription.ChatMessagesUsed = 0
		user.Subscription.MonthlyResetAt = nextReset
	}

	return user.Subscription, nil
}

// UpgradeSubscription upgrades a user to premium (placeholder for payment integration).
func (s *SubscriptionService) UpgradeSubscription(userID uint) (*models.Subscription, error) {
	sub, err := s.GetSubscription(userID)
	if err != nil {
		return nil, err
	}

	sub.Tier = models.TierPremium
	expires := time.Now().AddDate(0, 1, 0)
	sub.ExpiresAt = &expires

	return sub, nil
}

// CheckLimit returns true if the user is within their usage limits for the
// given type. Valid usageType values: "diagnosis", "voice", "chat".
func (s *SubscriptionService) CheckLimit(userID uint, usageType string) (bool, error) {
	sub, err := s.GetSubscription(userID)
	if err != nil {
		return false, err
	}

	switch usageType {
	case "diagnosis":
		return sub.CanUseDiagnosis(), nil
	case "voice":
		return sub.CanUseVoiceQuery(), nil
	case "chat":
		return sub.CanUseChat(), nil
	default:
		return false, fmt.Errorf("unknown usage type: %s", usageType)
	}
}
