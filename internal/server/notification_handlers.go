package server

import "github.com/gofiber/fiber/v2"

// GetNotifications handles GET /api/notifications/getnoti
// @Summary List notifications
// @Description Returns the caller's notifications newest first as they were before this request, then marks them read
// @Tags notifications
// @Produce json
// @Success 200 {array} models.Notification
// @Failure 401 {object} models.ErrorResponse
// @Router /api/notifications/getnoti [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	notis, err := s.notificationService.ListForUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(notis)
}

// DeleteNotifications handles DELETE /api/notifications/delnoti
// @Summary Delete all notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /api/notifications/delnoti [delete]
func (s *Server) DeleteNotifications(c *fiber.Ctx) error {
	if err := s.notificationService.DeleteAll(c.UserContext(), currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notifications deleted successfully"})
}
