package server

import (
	"strconv"
	"time"

	"sportsync/internal/middleware"
	"sportsync/internal/models"
	"sportsync/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Signup handles POST /api/users/signup
// @Summary User signup
// @Description Register a new account and start a session cookie
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{name=string,username=string,email=string,password=string} true "Signup request"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /api/users/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.startSession(c, user.ID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/users/login
// @Summary User login
// @Description Check credentials and start a session cookie
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /api/users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.startSession(c, user.ID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// Logout handles POST /api/users/logout
// @Summary User logout
// @Description Clear the session cookie and revoke its token
// @Tags users
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /api/users/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, err := middleware.ParseToken(s.config.JWTSecret, middleware.TokenFromRequest(c))
	if err == nil && claims.JTI != "" && s.redis != nil {
		if ttl := time.Until(claims.ExpiresAt); ttl > 0 {
			if rerr := s.redis.Set(c.UserContext(), blacklistPrefix+claims.JTI, "1", ttl).Err(); rerr != nil {
				middleware.Logger.WarnContext(c.UserContext(), "Failed to revoke session token",
					"error", rerr,
					"user_id", claims.UserID,
				)
			}
		}
	}

	c.Cookie(middleware.ClearedSessionCookie(s.config.IsProduction()))
	return c.JSON(fiber.Map{"message": "User logged out successfully"})
}

// IssueWSTicket handles POST /api/ws/ticket
// @Summary Issue websocket ticket
// @Description Returns a single-use ticket for the websocket upgrade, valid for 30 seconds
// @Tags realtime
// @Produce json
// @Success 200 {object} object{ticket=string,expires_in=integer}
// @Failure 401 {object} models.ErrorResponse
// @Router /api/ws/ticket [post]
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID := currentUserID(c)
	ticket := uuid.NewString()

	err := s.redis.Set(c.UserContext(), wsTicketPrefix+ticket,
		strconv.FormatUint(uint64(userID), 10), wsTicketTTL).Err()
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// startSession issues a token for userID and sets it as the session cookie.
func (s *Server) startSession(c *fiber.Ctx, userID uint) error {
	token, claims, err := middleware.IssueToken(s.config.JWTSecret, userID, time.Now())
	if err != nil {
		return models.NewInternalError(err)
	}
	c.Cookie(middleware.SessionCookieFor(token, claims.ExpiresAt, s.config.IsProduction()))
	// Non-browser clients read the token from the header.
	c.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return nil
}
