package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/ai"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/repository"
)

// --- MockTextProvider ---

// MockTextProvider is a mock implementation of ai.TextProvider.
type MockTextProvider struct {
	GenerateAdvisoryFunc func(ctx context.Context, prompt string) (string, error)
	ChatReplyFunc        func(ctx context.Context, messages []ai.Message) (string, error)
}

func (m *MockTextProvider) GenerateAdvisory(ctx context.Context, prompt string) (string, error) {
	if m.GenerateAdvisoryFunc != nil {
		return m.GenerateAdvisoryFunc(ctx, prompt)
	}
	return "", fmt.Errorf("GenerateAdvisory not configured")
}

func (m *MockTextProvider) ChatReply(ctx context.Context, messages []ai.Message) (string, error) {
	if m.ChatReplyFunc != nil {
		return m.ChatReplyFunc(ctx, messages)
	}
	return "", fmt.Errorf("ChatReply not configured")
}

// --- MockVisionProvider ---

// MockVisionProvider is a mock implementation of ai.VisionProvider.
type MockVisionProvider struct {
	DiagnoseCropFunc func(ctx context.Context, imageData []byte, crop string, languageTag string) (*ai.DiagnosisResult, error)
}

func (m *MockVisionProvider) DiagnoseCrop(ctx context.Context, imageData []byte, crop string, languageTag string) (*ai.DiagnosisResult, error) {
	if m.DiagnoseCropFunc != nil {
		return m.DiagnoseCropFunc(ctx, imageData, crop, languageTag)
	}
	return nil, fmt.Errorf("DiagnoseCrop not configured")
}

// --- MockPriceProvider ---

// MockPriceProvider is a mock implementation of ai.PriceProvider.
type MockPriceProvider struct {
	FetchPricesFunc func(ctx context.Context, commodity string, state string) ([]ai.PriceQuote, error)
}

func (m *MockPriceProvider) FetchPrices(ctx context.Context, commodity string, state string) ([]ai.PriceQuote, error) {
	if m.FetchPricesFunc != nil {
		return m.FetchPricesFunc(ctx, commodity, state)
	}
	return nil, fmt.Errorf("FetchPrices not configured")
}

// --- MockConversationRepo ---

// MockConversationRepo is an in-memory mock implementation of repository.ConversationRepo.
type MockConversationRepo struct {
	mu            sync.Mutex
	Conversations map[uint]*models.Conversation
	Turns         map[uint][]models.ConversationTurn
	NextID        uint

	// Error overrides: set these to force specific methods to return errors.
	CreateConversationErr error
	AppendTurnsErr        error
	GetRecentTurnsErr     error
}

// NewMockConversationRepo creates a new MockConversationRepo with initialized maps.
func NewMockConversationRepo() *MockConversationRepo {
	return &MockConversationRepo{
		Conversations: make(map[uint]*models.Conversation),
		Turns:         make(map[uint][]models.ConversationTurn),
		NextID:        1,
	}
}

func (m *MockConversationRepo) CreateConversation(conversation *models.Conversation) error {
	if m.CreateConversationErr != nil {
		return m.CreateConversationErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	conversation.ID = m.NextID
	m.NextID++
	m.Conversations[conversation.ID] = conversation
	return nil
}

func (m *MockConversationRepo) GetConversationByID(conversationID uint) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Conversations[conversationID]
	if !ok {
		return nil, repository.NotFoundError{}
	}
	c.Turns = m.Turns[conversationID]
	return c, nil
}

func (m *MockConversationRepo) GetUserConversations(userID uint, page, pageSize int) ([]models.Conversation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var conversations []models.Conversation
	for _, c := range m.Conversations {
		if c.UserID == userID {
			conversations = append(conversations, *c)
		}
	}
	total := int64(len(conversations))

	start := (page - 1) * pageSize
	if start >= len(conversations) {
		return []models.Conversation{}, total, nil
	}
	end := start + pageSize
	if end > len(conversations) {
		end = len(conversations)
	}
	return conversations[start:end], total, nil
}

func (m *MockConversationRepo) GetRecentTurns(conversationID uint, limit int) ([]models.ConversationTurn, error) {
	if m.GetRecentTurnsErr != nil {
		return nil, m.GetRecentTurnsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	turns := m.Turns[conversationID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func (m *MockConversationRepo) AppendTurns(conversationID uint, turns []models.ConversationTurn) error {
	if m.AppendTurnsErr != nil {
		return m.AppendTurnsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.Turns[conversationID]
	for i := range turns {
		turns[i].ConversationID = conversationID
		turns[i].Order = len(existing) + i + 1
	}
	m.Turns[conversationID] = append(existing, turns...)
	return nil
}

func (m *MockConversationRepo) UpdateConversationTitle(conversationID uint, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.Conversations[conversationID]; ok {
		c.Title = title
	}
	return nil
}

func (m *MockConversationRepo) DeleteConversation(conversationID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Conversations, conversationID)
	delete(m.Turns, conversationID)
	return nil
}

// --- MockDiagnosisRepo ---

// MockDiagnosisRepo is an in-memory mock implementation of repository.DiagnosisRepo.
type MockDiagnosisRepo struct {
	mu      sync.Mutex
	Reports map[uint]*models.DiagnosisReport
	NextID  uint

	CreateDiagnosisErr error
}

// NewMockDiagnosisRepo creates a new MockDiagnosisRepo with initialized maps.
func NewMockDiagnosisRepo() *MockDiagnosisRepo {
	return &MockDiagnosisRepo{
		Reports: make(map[uint]*models.DiagnosisReport),
		NextID:  1,
	}
}

func (m *MockDiagnosisRepo) CreateDiagnosis(report *models.DiagnosisReport) error {
	if m.CreateDiagnosisErr != nil {
		return m.CreateDiagnosisErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	report.ID = m.NextID
	m.NextID++
	m.Reports[report.ID] = report
	return nil
}

func (m *MockDiagnosisRepo) GetDiagnosisByID(reportID uint) (*models.DiagnosisReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.Reports[reportID]
	if !ok {
		return nil, repository.NotFoundError{}
	}
	return r, nil
}

func (m *MockDiagnosisRepo) GetUserDiagnoses(userID uint, page, pageSize int) ([]models.DiagnosisReport, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var reports []models.DiagnosisReport
	for _, r := range m.Reports {
		if r.UserID == userID {
			reports = append(reports, *r)
		}
	}
	total := int64(len(reports))

	start := (page - 1) * pageSize
	if start >= len(reports) {
		return []models.DiagnosisReport{}, total, nil
	}
	end := start + pageSize
	if end > len(reports) {
		end = len(reports)
	}
	return reports[start:end], total, nil
}

func (m *MockDiagnosisRepo) UpdateDiagnosisImageURL(reportID uint, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.Reports[reportID]; ok {
		r.ImageURL = imageURL
	}
	return nil
}

// --- MockPriceRepo ---

// MockPriceRepo is an in-memory mock implementation of repository.PriceRepo.
type MockPriceRepo struct {
	mu     sync.Mutex
	Prices []models.MandiPrice

	UpsertPricesErr error
}

// NewMockPriceRepo creates a new MockPriceRepo.
func NewMockPriceRepo() *MockPriceRepo {
	return &MockPriceRepo{}
}

func (m *MockPriceRepo) UpsertPrices(prices []models.MandiPrice) error {
	if m.UpsertPricesErr != nil {
		return m.UpsertPricesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.Prices[:0]
	for _, p := range m.Prices {
		replaced := false
		for _, np := range prices {
			if p.Commodity == np.Commodity && p.State == np.State {
				replaced = true
				break
			}
		}
		if !replaced {
			kept = append(kept, p)
		}
	}
	m.Prices = append(kept, prices...)
	return nil
}

func (m *MockPriceRepo) GetLatestPrices(commodity, state string, maxAge time.Duration) ([]models.MandiPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var result []models.MandiPrice
	for _, p := range m.Prices {
		if p.Commodity != commodity {
			continue
		}
		if state != "" && p.State != state {
			continue
		}
		if p.FetchedAt.Before(cutoff) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (m *MockPriceRepo) GetAnyPrices(commodity, state string, limit int) ([]models.MandiPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.MandiPrice
	for _, p := range m.Prices {
		if p.Commodity != commodity {
			continue
		}
		if state != "" && p.State != state {
			continue
		}
		result = append(result, p)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// --- MockUserRepo ---

// MockUserRepo is an in-memory mock implementation of repository.UserRepo.
type MockUserRepo struct {
	mu     sync.Mutex
	Users  map[uint]*models.User
	NextID uint

	CreateUserErr error

	// UsageIncrements records IncrementSubscriptionUsage calls by column name.
	UsageIncrements map[string]int
}

// NewMockUserRepo creates a new MockUserRepo with initialized maps.
func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		Users:           make(map[uint]*models.User),
		NextID:          1,
		UsageIncrements: make(map[string]int),
	}
}

func (m *MockUserRepo) CreateUser(user *models.User) (*models.User, error) {
	if m.CreateUserErr != nil {
		return nil, m.CreateUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = m.NextID
	m.NextID++
	m.Users[user.ID] = user
	return user, nil
}

func (m *MockUserRepo) GetUserByID(userID uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[userID]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (m *MockUserRepo) GetUserAuthByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *MockUserRepo) UpdateUserFirstName(userID uint, firstName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[userID]; ok {
		u.FirstName = firstName
	}
	return nil
}

func (m *MockUserRepo) UpdateUserPhone(userID uint, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[userID]; ok {
		u.Phone = phone
	}
	return nil
}

func (m *MockUserRepo) UpdateUserSettingsPreferredLanguage(userID uint, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[userID]; ok && u.Settings != nil {
		u.Settings.PreferredLanguage = language
	}
	return nil
}

func (m *MockUserRepo) UpdateFarmProfile(userID uint, updatedProfile *models.FarmProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[userID]; ok {
		u.FarmProfile = updatedProfile
	}
	return nil
}

func (m *MockUserRepo) IncrementSubscriptionUsage(userID uint, column string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UsageIncrements[column]++
	return nil
}

func (m *MockUserRepo) ResetSubscriptionUsage(userID uint, nextReset time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[userID]; ok && u.Subscription != nil {
		u.Subscription.DiagnosesUsed = 0
		u.Subscription.VoiceQueriesUsed = 0
		u.Subscription.ChatMessagesUsed = 0
		u.Subscription.MonthlyResetAt = nextReset
	}
	return nil
}

func (m *MockUserRepo) UsernameExists(username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Compile-time interface checks.
var _ ai.TextProvider = (*MockTextProvider)(nil)
var _ ai.VisionProvider = (*MockVisionProvider)(nil)
var _ ai.PriceProvider = (*MockPriceProvider)(nil)
var _ repository.ConversationRepo = (*MockConversationRepo)(nil)
var _ repository.DiagnosisRepo = (*MockDiagnosisRepo)(nil)
var _ repository.PriceRepo = (*MockPriceRepo)(nil)
var _ repository.UserRepo = (*MockUserRepo)(nil)
