package server

import (
	"sportsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateMatchPost handles POST /api/matchpost/create
// @Summary Create a matchmaking post
// @Description date accepts YYYY-MM-DD or RFC 3339
// @Tags matchpost
// @Accept json
// @Produce json
// @Param request body object{postedBy=string,text=string,img=string,teamName=string,location=string,date=string,time=string,gameType=string,payment=string} true "Matchmaking post"
// @Success 201 {object} models.MatchmakingPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/matchpost/create [post]
func (s *Server) CreateMatchPost(c *fiber.Ctx) error {
	var req struct {
		PostedBy flexID `json:"postedBy"`
		Text     string `json:"text"`
		Img      string `json:"img"`
		TeamName string `json:"teamName"`
		Location string `json:"location"`
		Date     string `json:"date"`
		Time     string `json:"time"`
		GameType string `json:"gameType"`
		Payment  string `json:"payment"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.matchPostService.CreateMatchPost(c.UserContext(), service.CreateMatchPostInput{
		ActorID:  currentUserID(c),
		PostedBy: uint(req.PostedBy),
		Text:     req.Text,
		Img:      req.Img,
		TeamName: req.TeamName,
		Location: req.Location,
		Date:     req.Date,
		Time:     req.Time,
		GameType: req.GameType,
		Payment:  req.Payment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetMatchPost handles GET /api/matchpost/:id
// @Summary Get a matchmaking post
// @Tags matchpost
// @Produce json
// @Param id path int true "Matchmaking post ID"
// @Success 200 {object} models.MatchmakingPost
// @Failure 404 {object} models.ErrorResponse
// @Router /api/matchpost/{id} [get]
func (s *Server) GetMatchPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.matchPostService.GetMatchPost(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeleteMatchPost handles DELETE /api/matchpost/:id
// @Summary Delete own matchmaking post
// @Tags matchpost
// @Produce json
// @Param id path int true "Matchmaking post ID"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/matchpost/{id} [delete]
func (s *Server) DeleteMatchPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.matchPostService.DeleteMatchPost(c.UserContext(), service.DeletePostInput{
		ActorID: currentUserID(c),
		PostID:  postID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// GetMatchFeed handles GET /api/matchpost/matchfeed
// @Summary Matchfeed
// @Description Matchmaking posts by followed users, newest first
// @Tags matchpost
// @Produce json
// @Success 200 {array} models.MatchmakingPost
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/matchpost/matchfeed [get]
func (s *Server) GetMatchFeed(c *fiber.Ctx) error {
	posts, err := s.matchPostService.MatchFeed(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetUserMatchPosts handles GET /api/matchpost/user/:username
// @Summary Matchmaking posts by user
// @Tags matchpost
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.MatchmakingPost
// @Failure 404 {object} models.ErrorResponse
// @Router /api/matchpost/user/{username} [get]
func (s *Server) GetUserMatchPosts(c *fiber.Ctx) error {
	posts, err := s.matchPostService.ListByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}
