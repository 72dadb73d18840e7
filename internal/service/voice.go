package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/repository"
	"github.com/farmmitra/farmmitra-api/internal/voice"
)

// VoiceService runs farmer voice queries through the voice pipeline and
// persists the exchange as conversation turns.
type VoiceService struct {
	Cfg          *config.Config
	Orchestrator *voice.Orchestrator
	ConvoRepo    repository.ConversationRepo
	UserRepo     repository.UserRepo
}

// NewVoiceService creates a new VoiceService.
func NewVoiceService(cfg *config.Config, orchestrator *voice.Orchestrator, convoRepo repository.ConversationRepo, userRepo repository.UserRepo) *VoiceService {
	return &VoiceService{
		Cfg:          cfg,
		Orchestrator: orchestrator,
		ConvoRepo:    convoRepo,
		UserRepo:     userRepo,
	}
}

// VoiceQueryResponse is the response object for a processed voice query.
type VoiceQueryResponse struct {
	ConversationID uint    `json:"conversation_id"`
	Transcript     string  `json:"transcript"`
	Confidence     float64 `json:"confidence"`
	Advisory       string  `json:"advisory"`
	Language       string  `json:"language"`
	Source         string  `json:"source"`
	AudioBase64    string  `json:"audio_base64"`
	Warning        string  `json:"warning,omitempty"`
}

// LanguageInfo describes one supported advisory language.
type LanguageInfo struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// ProcessVoiceQuery handles one recorded question from a farmer. A zero
// conversationID starts a new voice conversation.
func (s *VoiceService) ProcessVoiceQuery(ctx context.Context, user *models.User, conversationID uint, audio []byte, language, encoding string, sampleRate int) (*VoiceQueryResponse, error) {
	if user.Subscription != nil && !user.Subscription.CanUseVoiceQuery() {
		return nil, fmt.Errorf("monthly voice query limit reached")
	}

	if language == "" && user.Settings != nil {
		language = user.Settings.PreferredLanguage
	}
	if language == "" {
		language = voice.DefaultLanguage
	}

	conversation, priorTurns, err := s.resolveConversation(user.ID, conversationID, language)
	if err != nil {
		return nil, err
	}

	outcome, err := s.Orchestrator.ProcessVoiceQuery(ctx, voice.Request{
		Audio:      audio,
		Language:   language,
		Context:    farmContext(user),
		PriorTurns: priorTurns,
		Encoding:   encoding,
		SampleRate: sampleRate,
	})
	if err != nil {
		return nil, err
	}

	source := models.SourcePrimary
	if outcome.Advisory.Source == voice.SourceMock {
		source = models.SourceMock
	}

	turns := []models.ConversationTurn{
		{
			Role:    models.RoleFarmer,
			Content: outcome.Transcription.Text,
			Source:  source,
		},
		{
			Role:       models.RoleAssistant,
			Content:    outcome.Advisory.ShapedText,
			RawContent: outcome.Advisory.RawText,
			Source:     source,
		},
	}
	if err := s.ConvoRepo.AppendTurns(conversation.ID, turns); err != nil {
		return nil, fmt.Errorf("failed to save conversation turns: %w", err)
	}

	// Best effort; the advisory was already delivered
	_ = s.UserRepo.IncrementSubscriptionUsage(user.ID, "voice_queries_used")

	return &VoiceQueryResponse{
		ConversationID: conversation.ID,
		Transcript:     outcome.Transcription.Text,
		Confidence:     outcome.Transcription.Confidence,
		Advisory:       outcome.Advisory.ShapedText,
		Language:       language,
		Source:         string(source),
		AudioBase64:    base64.StdEncoding.EncodeToString(outcome.Audio),
		Warning:        outcome.Warning,
	}, nil
}

// resolveConversation loads an existing conversation with its recent turns,
// or starts a fresh one.
func (s *VoiceService) resolveConversation(userID, conversationID uint, language string) (*models.Conversation, []voice.Turn, error) {
	if conversationID == 0 {
		conversation := &models.Conversation{
			UserID:   userID,
			Channel:  models.ChannelVoice,
			Language: language,
			Title:    "Voice query " + time.Now().Format("2 Jan 15:04"),
		}
		if err := s.ConvoRepo.CreateConversation(conversation); err != nil {
			return nil, nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		return conversation, nil, nil
	}

	conversation, err := s.ConvoRepo.GetConversationByID(conversationID)
	if err != nil {
		return nil, nil, err
	}
	if conversation.UserID != userID {
		return nil, nil, fmt.Errorf("conversation does not belong to user")
	}

	recent, err := s.ConvoRepo.GetRecentTurns(conversationID, 10)
	if err != nil {
		return nil, nil, err
	}

	priorTurns := make([]voice.Turn, 0, len(recent))
	for _, t := range recent {
		role := "user"
		if t.Role == models.RoleAssistant {
			role = "assistant"
		}
		priorTurns = append(priorTurns, voice.Turn{Role: role, Content: t.Content})
	}
	return conversation, priorTurns, nil
}

// TranscriptionResponse is the response object for a standalone transcription.
type TranscriptionResponse struct {
	Transcript string  `json:"transcript"`
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Transcribe converts an audio clip to text without generating an advisory.
func (s *VoiceService) Transcribe(ctx context.Context, user *models.User, audio []byte, language, encoding string, sampleRate int) (*TranscriptionResponse, error) {
	if language == "" && user.Settings != nil {
		language = user.Settings.PreferredLanguage
	}
	if language == "" {
		language = voice.DefaultLanguage
	}

	tr, err := s.Orchestrator.Transcribe(ctx, audio, language, encoding, sampleRate)
	if err != nil {
		return nil, err
	}
	return &TranscriptionResponse{
		Transcript: tr.Text,
		Language:   tr.Language,
		Confidence: tr.Confidence,
	}, nil
}

// Synthesize converts advisory text to speech audio.
func (s *VoiceService) Synthesize(ctx context.Context, user *models.User, text, language string) (string, error) {
	if language == "" && user.Settings != nil {
		language = user.Settings.PreferredLanguage
	}
	if language == "" {
		language = voice.DefaultLanguage
	}

	audio, err := s.Orchestrator.Synthesize(ctx, text, language)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(audio), nil
}

// CheckAvailability reports whether the speech provider is reachable.
func (s *VoiceService) CheckAvailability(ctx context.Context) voice.Status {
	return s.Orchestrator.CheckAvailability(ctx)
}

// ResetAvailability forces the next request to re-probe the speech provider.
func (s *VoiceService) ResetAvailability() {
	s.Orchestrator.ResetAvailability()
}

// Languages lists the supported advisory languages, sorted by tag.
func (s *VoiceService) Languages() []LanguageInfo {
	tags := make([]string, 0)
	for tag := range voice.SupportedLanguages() {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	infos := make([]LanguageInfo, 0, len(tags))
	for _, tag := range tags {
		infos = append(infos, LanguageInfo{Tag: tag, Name: voice.LanguageName(tag)})
	}
	return infos
}

// farmContext converts a user's farm profile into the per-request context
// embedded in advisory prompts.
func farmContext(user *models.User) voice.Context {
	vc := voice.Context{Experience: voice.ExperienceUnspecified}
	if user.FarmProfile == nil {
		return vc
	}

	fp := user.FarmProfile
	if fp.District != "" && fp.State != "" {
		vc.Location = fp.District + ", " + fp.State
	} else if fp.State != "" {
		vc.Location = fp.State
	} else {
		vc.Location = fp.District
	}
	if len(fp.Crops) > 0 {
		vc.Crop = fp.Crops[0]
	}

	switch fp.Experience {
	case models.ExperienceBeginner:
		vc.Experience = voice.ExperienceBeginner
	case models.ExperienceIntermediate:
		vc.Experience = voice.ExperienceExperienced
	case models.ExperienceExperienced:
		vc.Experience = voice.ExperienceExpert
	}
	return vc
}
