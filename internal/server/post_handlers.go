package server

import (
	"sportsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts/create
// @Summary Create a post
// @Description img may be a data URI, base64 or an http(s) URL; it is stored on the image host
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{postedBy=string,text=string,img=string} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/posts/create [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		PostedBy flexID `json:"postedBy"`
		Text     string `json:"text"`
		Img      string `json:"img"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		ActorID:  currentUserID(c),
		PostedBy: uint(req.PostedBy),
		Text:     req.Text,
		Img:      req.Img,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete own post
// @Description The hosted image is removed before the post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		ActorID: currentUserID(c),
		PostID:  postID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikeUnlikePost handles PUT /api/posts/like/:id
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/like/{id} [put]
func (s *Server) LikeUnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.postService.ToggleLike(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if res.Liked {
		return c.JSON(fiber.Map{"message": "Post liked successfully"})
	}
	return c.JSON(fiber.Map{"message": "Post unliked successfully"})
}

// ReplyToPost handles PUT /api/posts/reply/:id
// @Summary Reply to a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{text=string} true "Reply"
// @Success 200 {object} models.Reply
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/reply/{id} [put]
func (s *Server) ReplyToPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	reply, err := s.postService.Reply(c.UserContext(), service.ReplyInput{
		ActorID: currentUserID(c),
		PostID:  postID,
		Text:    req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reply)
}

// GetFeedPosts handles GET /api/posts/feed
// @Summary Feed
// @Description Posts by followed users, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/feed [get]
func (s *Server) GetFeedPosts(c *fiber.Ctx) error {
	posts, err := s.postService.Feed(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/user/:username
// @Summary Posts by user
// @Tags posts
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/user/{username} [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}
