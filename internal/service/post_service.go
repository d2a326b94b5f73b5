package service

import (
	"context"
	"strings"

	"sportsync/internal/imagehost"
	"sportsync/internal/models"
	"sportsync/internal/observability"
	"sportsync/internal/repository"
	"sportsync/internal/validation"
)

type PostService struct {
	userRepo      repository.UserRepository
	postRepo      repository.PostRepository
	notifications *NotificationService
	media         *Media
}

type CreatePostInput struct {
	ActorID  uint
	PostedBy uint
	Text     string
	Img      string
}

type DeletePostInput struct {
	ActorID uint
	PostID  uint
}

type ReplyInput struct {
	ActorID uint
	PostID  uint
	Text    string
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Liked bool
}

func NewPostService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	notifications *NotificationService,
	media *Media,
) *PostService {
	return &PostService{
		userRepo:      userRepo,
		postRepo:      postRepo,
		notifications: notifications,
		media:         media,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.PostedBy == 0 || strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Postedby and text fields are required")
	}
	author, err := s.userRepo.GetByID(ctx, in.PostedBy)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFound("User not found")
	}
	if in.ActorID != author.ID {
		return nil, models.NewUnauthorizedError("Unauthorized to create post")
	}
	if err := validation.ValidateText(in.Text, models.MaxTextLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	img, err := s.media.Store(ctx, in.Img, imagehost.FolderPosts, "post")
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		PostedBy: author.ID,
		Text:     in.Text,
		Img:      img,
		Likes:    []uint{},
		Replies:  []models.Reply{},
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.media.Discard(ctx, img)
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFound("Post not found")
	}
	return post, nil
}

// DeletePost removes the hosted image first and then the post with its
// likes and replies.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.PostedBy != in.ActorID {
		return models.NewUnauthorizedError("Unauthorized to delete post")
	}
	if err := s.media.Cleanup(ctx, post.Img); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// ToggleLike flips the actor's membership in the post's like set. Only a
// like that was actually inserted notifies the owner.
func (s *PostService) ToggleLike(ctx context.Context, actorID, postID uint) (LikeResult, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return LikeResult{}, err
	}

	if post.LikedBy(actorID) {
		if _, err := s.postRepo.Unlike(ctx, actorID, postID); err != nil {
			return LikeResult{}, err
		}
		observability.LikeToggles.WithLabelValues("unlike").Inc()
		return LikeResult{Liked: false}, nil
	}

	inserted, err := s.postRepo.Like(ctx, actorID, postID)
	if err != nil {
		return LikeResult{}, err
	}
	observability.LikeToggles.WithLabelValues("like").Inc()
	if inserted {
		s.notifications.Record(ctx, actorID, post.PostedBy, models.NotificationTypeLikes, post.ID)
	}
	return LikeResult{Liked: true}, nil
}

// Reply appends to the post's thread with a snapshot of the actor's
// current username and profile picture.
func (s *PostService) Reply(ctx context.Context, in ReplyInput) (*models.Reply, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text field is required")
	}
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateText(in.Text, models.MaxTextLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	actor, err := s.userRepo.GetByID(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, models.NewNotFound("User not found")
	}

	reply := &models.Reply{
		PostID:         post.ID,
		UserID:         actor.ID,
		Text:           in.Text,
		Username:       actor.Username,
		UserProfilePic: actor.ProfilePic,
	}
	if err := s.postRepo.AddReply(ctx, reply); err != nil {
		return nil, err
	}
	s.notifications.Record(ctx, actor.ID, post.PostedBy, models.NotificationTypeReply, post.ID)
	return reply, nil
}

// Feed returns the posts of everyone the viewer follows, newest first.
func (s *PostService) Feed(ctx context.Context, viewerID uint) ([]models.Post, error) {
	return followedContent(ctx, s.userRepo, viewerID, s.postRepo.ListByAuthors)
}

func (s *PostService) ListByUsername(ctx context.Context, username string) ([]models.Post, error) {
	return authoredContent(ctx, s.userRepo, username, s.postRepo.ListByAuthor)
}
