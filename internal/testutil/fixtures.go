package testutil

import (
	"time"

	"github.com/farmmitra/farmmitra-api/internal/ai"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TestUser creates a test user with all associated records populated.
func TestUser() *models.User {
	return &models.User{
		Model:     gorm.Model{ID: 1},
		Username:  "testuser",
		FirstName: "Test",
		Phone:     "+919876543210",
		Auth: &models.UserAuth{
			Model:          gorm.Model{ID: 1},
			UserID:         1,
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ012",
			AuthType:       models.Standard,
		},
		Subscription: &models.Subscription{
			Model:          gorm.Model{ID: 1},
			UserID:         1,
			Tier:           models.TierFree,
			MonthlyResetAt: time.Now().AddDate(0, 1, 0),
		},
		Settings: &models.UserSettings{
			Model:             gorm.Model{ID: 1},
			UserID:            1,
			PreferredLanguage: "hi-IN",
		},
		FarmProfile: &models.FarmProfile{
			Model:         gorm.Model{ID: 1},
			UserID:        1,
			District:      "Nashik",
			State:         "Maharashtra",
			Crops:         pq.StringArray{"tomato", "onion"},
			LandSizeAcres: 2.5,
			Experience:    models.ExperienceIntermediate,
			UID:           uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		},
	}
}

// TestConversation creates a voice conversation with one completed exchange.
func TestConversation() *models.Conversation {
	return &models.Conversation{
		Model:    gorm.Model{ID: 1},
		UserID:   1,
		Channel:  models.ChannelVoice,
		Language: "hi-IN",
		Title:    "Tomato pest query",
		Turns: []models.ConversationTurn{
			{
				Model:          gorm.Model{ID: 1},
				ConversationID: 1,
				Role:           models.RoleFarmer,
				Content:        "टमाटर में कीड़े लग गए हैं, क्या करूं?",
				Source:         models.SourcePrimary,
				Order:          1,
			},
			{
				Model:          gorm.Model{ID: 2},
				ConversationID: 1,
				Role:           models.RoleAssistant,
				Content:        "नीम का तेल 5 मिली प्रति लीटर पानी में छिड़कें।",
				RawContent:     "नीम का तेल 5 मिली प्रति लीटर पानी में मिलाकर शाम के समय छिड़काव करें।",
				Source:         models.SourcePrimary,
				Order:          2,
			},
		},
	}
}

// TestDiagnosisResult creates an ai.DiagnosisResult with realistic fields.
func TestDiagnosisResult() *ai.DiagnosisResult {
	return &ai.DiagnosisResult{
		Condition:    "Early blight",
		Severity:     "moderate",
		Symptoms:     []string{"Dark concentric spots on lower leaves", "Yellowing around lesions"},
		Treatment:    []string{"Spray mancozeb 2g per litre", "Remove affected leaves"},
		Prevention:   []string{"Rotate crops", "Avoid overhead irrigation"},
		Confidence:   0.82,
		AdvisoryText: "टमाटर में अगेती झुलसा है। मैंकोजेब 2 ग्राम प्रति लीटर छिड़कें।",
	}
}

// TestPriceQuotes creates a set of mandi quotes for tomato in Maharashtra.
func TestPriceQuotes() []ai.PriceQuote {
	recorded := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	return []ai.PriceQuote{
		{Commodity: "Tomato", Market: "Nashik", State: "Maharashtra", Unit: "quintal", MinPrice: 800, MaxPrice: 1400, ModalPrice: 1100, RecordedAt: recorded},
		{Commodity: "Tomato", Market: "Pune", State: "Maharashtra", Unit: "quintal", MinPrice: 900, MaxPrice: 1500, ModalPrice: 1200, RecordedAt: recorded},
	}
}
