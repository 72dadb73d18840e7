package models

import (
	"errors"

	"gorm.io/gorm"
)

// Conversation is the model for an advisory conversation. A conversation
// groups the turns of one voice or chat session.
type Conversation struct {
	gorm.Model
	UserID   uint                `gorm:"index"`
	User     *User               `gorm:"foreignKey:UserID"`
	Channel  ConversationChannel `gorm:"type:text"`
	Language string              `gorm:"default:'hi-IN'"`
	Title    string
	Turns    []ConversationTurn `gorm:"foreignKey:ConversationID"`
}

// ConversationChannel is the type for the ConversationChannel enum.
type ConversationChannel string

// ConversationChannel enum values.
const (
	ChannelVoice ConversationChannel = "voice"
	ChannelChat  ConversationChannel = "chat"
)

// IsValidChannel checks if the ConversationChannel is valid.
func (c *Conversation) IsValidChannel() bool {
	switch c.Channel {
	case ChannelVoice, ChannelChat:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new Conversation.
func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if !c.IsValidChannel() {
		// Cancel transaction
		return errors.New("invalid ConversationChannel provided")
	}

	return nil
}

// ConversationTurn is the model for a single exchange in a conversation.
// RawContent holds the advisory before response shaping; Content is what
// was actually delivered to the farmer.
type ConversationTurn struct {
	gorm.Model
	ConversationID uint     `gorm:"index"`
	Role           TurnRole `gorm:"type:text"`
	Content        string
	RawContent     string
	Source         TurnSource `gorm:"type:text;default:'primary'"`
	AudioURL       string
	Order          int // To track the order of the turns
}

// TurnRole is the type for the TurnRole enum.
type TurnRole string

// TurnRole enum values.
const (
	RoleFarmer    TurnRole = "farmer"
	RoleAssistant TurnRole = "assistant"
)

// IsValidRole checks if the TurnRole is valid.
func (t *ConversationTurn) IsValidRole() bool {
	switch t.Role {
	case RoleFarmer, RoleAssistant:
		return true
	default:
		return false
	}
}

// TurnSource is the type for the TurnSource enum.
type TurnSource string

// TurnSource enum values.
const (
	SourcePrimary TurnSource = "primary"
	SourceMock    TurnSource = "mock"
)

// IsValidSource checks if the TurnSource is valid.
func (t *ConversationTurn) IsValidSource() bool {
	switch t.Source {
	case SourcePrimary, SourceMock:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new ConversationTurn.
func (t *ConversationTurn) BeforeCreate(tx *gorm.DB) (err error) {
	if !t.IsValidRole() {
		// Cancel transaction
		return errors.New("invalid TurnRole provided")
	}
	if !t.IsValidSource() {
		// Set default
		t.Source = SourcePrimary
	}

	return nil
}
