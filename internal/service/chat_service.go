// Package service provides application business logic (posts, matchmaking, users, messages, notifications).
package service

import (
	"context"
	"strings"

	"sportsync/internal/imagehost"
	"sportsync/internal/models"
	"sportsync/internal/repository"
	"sportsync/internal/validation"
)

// ChatService provides direct message business logic.
type ChatService struct {
	chatRepo      repository.ChatRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
	media         *Media
}

// SendMessageInput is the input for sending a message.
type SendMessageInput struct {
	SenderID    uint
	RecipientID uint
	Text        string
	Img         string
}

// NewChatService returns a new ChatService.
func NewChatService(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
	media *Media,
) *ChatService {
	return &ChatService{
		chatRepo:      chatRepo,
		userRepo:      userRepo,
		notifications: notifications,
		media:         media,
	}
}

// SendMessage stores a message in the pair's conversation, creating the
// conversation on first contact, and pushes it to the recipient.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if in.RecipientID == 0 || (strings.TrimSpace(in.Text) == "" && in.Img == "") {
		return nil, models.NewValidationError("Recipient and message are required")
	}
	if in.SenderID == in.RecipientID {
		return nil, models.NewValidationError("You cannot message yourself")
	}
	if in.Text != "" {
		if err := validation.ValidateText(in.Text, models.MaxTextLength); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	recipient, err := s.userRepo.GetByID(ctx, in.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, models.NewNotFound("User not found")
	}

	conv, err := s.chatRepo.GetOrCreateConversation(ctx, in.SenderID, in.RecipientID)
	if err != nil {
		return nil, err
	}

	img, err := s.media.Store(ctx, in.Img, imagehost.FolderMessages, "message")
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		Text:           in.Text,
		Img:            img,
	}
	if err := s.chatRepo.AddMessage(ctx, msg); err != nil {
		s.media.Discard(ctx, img)
		return nil, err
	}

	s.notifications.push(ctx, recipient.ID, EventNewMessage, msg)
	return msg, nil
}

// GetMessages returns the caller's thread with otherUserID oldest first and
// marks the preview seen when the caller did not send it.
func (s *ChatService) GetMessages(ctx context.Context, userID, otherUserID uint) ([]models.Message, error) {
	conv, err := s.chatRepo.FindConversation(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, models.NewNotFound("Conversation not found")
	}

	messages, err := s.chatRepo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	if conv.LastMessage.SenderID != 0 && conv.LastMessage.SenderID != userID && !conv.LastMessage.Seen {
		if err := s.chatRepo.MarkLastMessageSeen(ctx, conv.ID); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// GetConversations lists the caller's conversations with the other
// participant expanded.
func (s *ChatService) GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	conversations, err := s.chatRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		others := make([]models.UserSummary, 0, 1)
		for _, p := range conversations[i].Participants {
			if p.ID != userID {
				others = append(others, p)
			}
		}
		conversations[i].Participants = others
	}
	return conversations, nil
}
