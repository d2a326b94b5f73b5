package server

import (
	"sportsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages
// @Summary Send a direct message
// @Description Creates the conversation on first contact and pushes the message to the recipient
// @Tags messages
// @Accept json
// @Produce json
// @Param request body object{recipientId=string,message=string,img=string} true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		RecipientID flexID `json:"recipientId"`
		Message     string `json:"message"`
		Img         string `json:"img"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	msg, err := s.chatService.SendMessage(c.UserContext(), service.SendMessageInput{
		SenderID:    currentUserID(c),
		RecipientID: uint(req.RecipientID),
		Text:        req.Message,
		Img:         req.Img,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetMessages handles GET /api/messages/:otherUserId
// @Summary Messages with a user
// @Description Oldest first; marks the last message seen when the caller did not send it
// @Tags messages
// @Produce json
// @Param otherUserId path int true "Other user ID"
// @Success 200 {array} models.Message
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/messages/{otherUserId} [get]
func (s *Server) GetMessages(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "otherUserId")
	if err != nil {
		return nil
	}

	messages, err := s.chatService.GetMessages(c.UserContext(), currentUserID(c), otherID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}

// GetConversations handles GET /api/messages/conversations
// @Summary List conversations
// @Description Most recently updated first, participants exclude the caller
// @Tags messages
// @Produce json
// @Success 200 {array} models.Conversation
// @Failure 401 {object} models.ErrorResponse
// @Router /api/messages/conversations [get]
func (s *Server) GetConversations(c *fiber.Ctx) error {
	convs, err := s.chatService.GetConversations(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(convs)
}
