package repository

import (
	"errors"
	"fmt"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConversationRepository is a repository for interacting with conversations.
type ConversationRepository struct {
	DB *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

// CreateConversation creates a new conversation, including any initial turns.
func (r *ConversationRepository) CreateConversation(conversation *models.Conversation) error {
	if err := r.DB.Create(conversation).Error; err != nil {
		logger.Get().Error("failed to create conversation", zap.Uint("user_id", conversation.UserID), zap.Error(err))
		return err
	}
	return nil
}

// GetConversationByID retrieves a conversation with its turns in order.
func (r *ConversationRepository) GetConversationByID(conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.DB.Preload("Turns", func(db *gorm.DB) *gorm.DB {
		return db.Order("conversation_turns.order ASC")
	}).
		Where("id = ?", conversationID).
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: fmt.Sprintf("conversation %d not found", conversationID)}
		}
		return nil, err
	}
	return &conversation, nil
}

// GetUserConversations retrieves a page of a user's conversations, newest first.
func (r *ConversationRepository) GetUserConversations(userID uint, page, pageSize int) ([]models.Conversation, int64, error) {
	var conversations []models.Conversation
	var total int64

	query := r.DB.Model(&models.Conversation{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("updated_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&conversations).Error
	if err != nil {
		return nil, 0, err
	}

	return conversations, total, nil
}

// GetRecentTurns returns the last limit turns of a conversation in
// chronological order.
func (r *ConversationRepository) GetRecentTurns(conversationID uint, limit int) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order(`"order" DESC`).
		Limit(limit).
		Find(&turns).Error
	if err != nil {
		return nil, err
	}

	// Reverse back to chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// AppendTurns appends turns to a conversation, assigning order numbers after
// the current last turn. Runs in a transaction so a voice exchange lands as
// a unit.
func (r *ConversationRepository) AppendTurns(conversationID uint, turns []models.ConversationTurn) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		err := tx.Model(&models.ConversationTurn{}).
			Where("conversation_id = ?", conversationID).
			Select(`COALESCE(MAX("order"), 0)`).
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}

		for i := range turns {
			turns[i].ConversationID = conversationID
			turns[i].Order = maxOrder + i + 1
			if err := tx.Create(&turns[i]).Error; err != nil {
				return err
			}
		}

		// Bump updated_at so the conversation surfaces in recent lists
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", tx.NowFunc()).Error
	})
}

// UpdateConversationTitle updates a conversation's title.
func (r *ConversationRepository) UpdateConversationTitle(conversationID uint, title string) error {
	err := r.DB.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("title", title).Error
	if err != nil {
		logger.Get().Error("failed to update conversation title", zap.Uint("conversation_id", conversationID), zap.Error(err))
	}
	return err
}

// DeleteConversation soft-deletes a conversation and its turns.
func (r *ConversationRepository) DeleteConversation(conversationID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).
			Delete(&models.ConversationTurn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, conversationID).Error
	})
}
