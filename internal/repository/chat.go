package repository

import (
	"context"

	"sportsync/internal/database"
	"sportsync/internal/models"
	"sportsync/internal/observability"

	"gorm.io/gorm"
)

// ChatRepository defines the interface for conversation and message storage.
type ChatRepository interface {
	FindConversation(ctx context.Context, userA, userB uint) (*models.Conversation, error)
	GetOrCreateConversation(ctx context.Context, userA, userB uint) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	AddMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID uint) ([]models.Message, error)
	MarkLastMessageSeen(ctx context.Context, conversationID uint) error
}

// chatRepository implements ChatRepository
type chatRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db, log: observability.NewRepoLogger("conversations")}
}

// FindConversation returns the pair's conversation, or (nil, nil) if none exists.
func (r *chatRepository) FindConversation(ctx context.Context, userA, userB uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("pair_key = ?", models.PairKey(userA, userB)).
		First(&conv).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

// GetOrCreateConversation returns the pair's conversation, creating it on first
// contact. A concurrent creator losing the unique pair_key race re-reads.
func (r *chatRepository) GetOrCreateConversation(ctx context.Context, userA, userB uint) (*models.Conversation, error) {
	if conv, err := r.FindConversation(ctx, userA, userB); err != nil || conv != nil {
		return conv, err
	}

	conv := models.Conversation{
		PairKey:      models.PairKey(userA, userB),
		Participants: []models.UserSummary{{ID: userA}, {ID: userB}},
	}
	err := r.db.WithContext(ctx).Omit("Participants.*").Create(&conv).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return r.FindConversation(ctx, userA, userB)
		}
		r.log.LogError(ctx, err, "create")
		return nil, models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"conversation_id": conv.ID})
	return r.FindConversation(ctx, userA, userB)
}

func (r *chatRepository) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	conversations := []models.Conversation{}
	err := readDB(r.db).WithContext(ctx).
		Joins("JOIN conversation_participants cp ON conversations.id = cp.conversation_id").
		Where("cp.user_id = ?", userID).
		Preload("Participants").
		Order("conversations.updated_at DESC").
		Order("conversations.id DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return conversations, nil
}

// AddMessage stores the message and moves the conversation preview to it.
func (r *chatRepository) AddMessage(ctx context.Context, msg *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{ID: msg.ConversationID}).Updates(map[string]any{
			"last_message_text":      msg.Text,
			"last_message_sender_id": msg.SenderID,
			"last_message_seen":      false,
		}).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "add_message")
		return models.NewInternalError(err)
	}
	return nil
}

// ListMessages returns the conversation's messages oldest first.
func (r *chatRepository) ListMessages(ctx context.Context, conversationID uint) ([]models.Message, error) {
	messages := []models.Message{}
	err := readDB(r.db).WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *chatRepository) MarkLastMessageSeen(ctx context.Context, conversationID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		UpdateColumn("last_message_seen", true).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
