package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/ai"
	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/repository"
	"github.com/farmmitra/farmmitra-api/internal/voice"
)

// ChatService is the business logic layer for text chat with the advisor.
type ChatService struct {
	Cfg          *config.Config
	TextProvider ai.TextProvider
	ConvoRepo    repository.ConversationRepo
	UserRepo     repository.UserRepo
}

// NewChatService creates a new ChatService.
func NewChatService(cfg *config.Config, textProvider ai.TextProvider, convoRepo repository.ConversationRepo, userRepo repository.UserRepo) *ChatService {
	return &ChatService{
		Cfg:          cfg,
		TextProvider: textProvider,
		ConvoRepo:    convoRepo,
		UserRepo:     userRepo,
	}
}

// ChatResponse is the response object for one chat exchange.
type ChatResponse struct {
	ConversationID uint   `json:"conversation_id"`
	Reply          string `json:"reply"`
	Language       string `json:"language"`
}

// ConversationSummary is a list item for a user's conversation history.
type ConversationSummary struct {
	ID        uint      `json:"id"`
	Channel   string    `json:"channel"`
	Language  string    `json:"language"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SendMessage answers a farmer's typed question, carrying the last turns of
// the conversation as context. A zero conversationID starts a new chat.
func (s *ChatService) SendMessage(ctx context.Context, user *models.User, conversationID uint, message, language string) (*ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is empty")
	}
	if user.Subscription != nil && !user.Subscription.CanUseChat() {
		return nil, fmt.Errorf("monthly chat limit reached")
	}

	if language == "" && user.Settings != nil {
		language = user.Settings.PreferredLanguage
	}
	if language == "" {
		language = voice.DefaultLanguage
	}

	var conversation *models.Conversation
	var history []ai.Message

	if conversationID == 0 {
		conversation = &models.Conversation{
			UserID:   user.ID,
			Channel:  models.ChannelChat,
			Language: language,
			Title:    firstWords(message, 6),
		}
		if err := s.ConvoRepo.CreateConversation(conversation); err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	} else {
		var err error
		conversation, err = s.ConvoRepo.GetConversationByID(conversationID)
		if err != nil {
			return nil, err
		}
		if conversation.UserID != user.ID {
			return nil, fmt.Errorf("conversation does not belong to user")
		}

		recent, err := s.ConvoRepo.GetRecentTurns(conversationID, 10)
		if err != nil {
			return nil, err
		}
		for _, t := range recent {
			role := "user"
			if t.Role == models.RoleAssistant {
				role = "assistant"
			}
			history = append(history, ai.Message{Role: role, Content: t.Content})
		}
	}

	messages := []ai.Message{
		{Role: "system", Content: s.systemPrompt(user, language)},
	}
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: "user", Content: message})

	rawReply, err := s.TextProvider.ChatReply(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("chat reply: %w", err)
	}
	reply := voice.Shape(rawReply, language)

	turns := []models.ConversationTurn{
		{Role: models.RoleFarmer, Content: message},
		{Role: models.RoleAssistant, Content: reply, RawContent: rawReply},
	}
	if err := s.ConvoRepo.AppendTurns(conversation.ID, turns); err != nil {
		return nil, fmt.Errorf("failed to save conversation turns: %w", err)
	}

	// Best effort; the reply was already produced
	_ = s.UserRepo.IncrementSubscriptionUsage(user.ID, "chat_messages_used")

	return &ChatResponse{
		ConversationID: conversation.ID,
		Reply:          reply,
		Language:       language,
	}, nil
}

// GetConversation returns a conversation with its turns, scoped to the user.
func (s *ChatService) GetConversation(user *models.User, conversationID uint) (*models.Conversation, error) {
	conversation, err := s.ConvoRepo.GetConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.UserID != user.ID {
		return nil, fmt.Errorf("conversation does not belong to user")
	}
	return conversation, nil
}

// ListConversations returns a page of the user's conversations, newest first.
func (s *ChatService) ListConversations(user *models.User, page, pageSize int) ([]ConversationSummary, int64, error) {
	conversations, total, err := s.ConvoRepo.GetUserConversations(user.ID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		summaries = append(summaries, ConversationSummary{
			ID:        c.ID,
			Channel:   string(c.Channel),
			Language:  c.Language,
			Title:     c.Title,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return summaries, total, nil
}

// DeleteConversation removes a conversation, scoped to the user.
func (s *ChatService) DeleteConversation(user *models.User, conversationID uint) error {
	conversation, err := s.ConvoRepo.GetConversationByID(conversationID)
	if err != nil {
		return err
	}
	if conversation.UserID != user.ID {
		return fmt.Errorf("conversation does not belong to user")
	}
	return s.ConvoRepo.DeleteConversation(conversationID)
}

// systemPrompt combines the configured chat persona with the farmer's
// profile and language.
func (s *ChatService) systemPrompt(user *models.User, language string) string {
	var b strings.Builder
	b.WriteString(s.Cfg.Prompts.Chat.System)

	if fp := user.FarmProfile; fp != nil {
		b.WriteString("\n\nFARMER PROFILE:")
		if fp.District != "" || fp.State != "" {
			b.WriteString(fmt.Sprintf(" location %s %s.", fp.District, fp.State))
		}
		if len(fp.Crops) > 0 {
			b.WriteString(" Crops: " + strings.Join(fp.Crops, ", ") + ".")
		}
		if fp.Experience != "" {
			b.WriteString(" Experience: " + string(fp.Experience) + ".")
		}
	}

	b.WriteString("\n\nReply in " + voice.LanguageName(language) + ".")
	return b.String()
}

// firstWords truncates a message to its first n words for use as a title.
func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}
