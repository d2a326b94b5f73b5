package server

import (
	"sportsync/internal/featureflags"
	"sportsync/internal/models"
	"sportsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/profile/:query
// @Summary Get a user profile
// @Description Looks a user up by numeric id or by username
// @Tags users
// @Produce json
// @Param query path string true "User id or username"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /api/users/profile/{query} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), c.Params("query"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// FollowUnfollowUser handles POST /api/users/follow/:id
// @Summary Follow or unfollow a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/users/follow/{id} [post]
func (s *Server) FollowUnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.userService.ToggleFollow(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if following {
		return c.JSON(fiber.Map{"message": "User followed successfully"})
	}
	return c.JSON(fiber.Map{"message": "User unfollowed successfully"})
}

// UpdateUser handles PUT /api/users/update/:id
// @Summary Update own profile
// @Description Empty fields keep their current value; profilePic is uploaded to the image host
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{name=string,username=string,email=string,bio=string,password=string,profilePic=string} true "Profile changes"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/users/update/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name       string `json:"name"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		Bio        string `json:"bio"`
		Password   string `json:"password"`
		ProfilePic string `json:"profilePic"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		ActorID:    currentUserID(c),
		UserID:     userID,
		Name:       req.Name,
		Username:   req.Username,
		Email:      req.Email,
		Bio:        req.Bio,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetSuggestedUsers handles GET /api/users/suggested
// @Summary Suggested users
// @Description Up to four random users the caller does not follow
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /api/users/suggested [get]
func (s *Server) GetSuggestedUsers(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if s.featureFlags != nil && !s.featureFlags.Enabled(featureflags.SuggestedUsers, userID) {
		return c.JSON([]models.User{})
	}

	users, err := s.userService.SuggestedUsers(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}
