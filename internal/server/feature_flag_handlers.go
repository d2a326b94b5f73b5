package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags returns every known flag evaluated for the current user.
// @Summary Feature flags
// @Tags ops
// @Produce json
// @Success 200 {object} object{flags=object}
// @Failure 401 {object} models.ErrorResponse
// @Router /api/flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	if s.featureFlags == nil {
		return c.JSON(fiber.Map{"flags": map[string]bool{}})
	}
	return c.JSON(fiber.Map{"flags": s.featureFlags.Snapshot(currentUserID(c))})
}
