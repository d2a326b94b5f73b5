package service

import (
	"context"
	"strings"

	"sportsync/internal/imagehost"
	"sportsync/internal/models"
	"sportsync/internal/repository"
	"sportsync/internal/validation"
)

type MatchPostService struct {
	userRepo  repository.UserRepository
	matchRepo repository.MatchPostRepository
	media     *Media
}

type CreateMatchPostInput struct {
	ActorID  uint
	PostedBy uint
	Text     string
	Img      string
	TeamName string
	Location string
	Date     string
	Time     string
	GameType string
	Payment  string
}

func (in CreateMatchPostInput) complete() bool {
	if in.PostedBy == 0 {
		return false
	}
	for _, v := range []string{in.Text, in.TeamName, in.Location, in.Date, in.Time, in.GameType, in.Payment} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func NewMatchPostService(
	userRepo repository.UserRepository,
	matchRepo repository.MatchPostRepository,
	media *Media,
) *MatchPostService {
	return &MatchPostService{userRepo: userRepo, matchRepo: matchRepo, media: media}
}

func (s *MatchPostService) CreateMatchPost(ctx context.Context, in CreateMatchPostInput) (*models.MatchmakingPost, error) {
	if !in.complete() {
		return nil, models.NewValidationError("All fields are required")
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
	date, err := validation.ParseMatchDate(in.Date)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	img, err := s.media.Store(ctx, in.Img, imagehost.FolderMatchPosts, "matchpost")
	if err != nil {
		return nil, err
	}

	post := &models.MatchmakingPost{
		PostedBy: author.ID,
		Text:     in.Text,
		Img:      img,
		TeamName: strings.TrimSpace(in.TeamName),
		Location: strings.TrimSpace(in.Location),
		Date:     date,
		Time:     strings.TrimSpace(in.Time),
		GameType: strings.TrimSpace(in.GameType),
		Payment:  strings.TrimSpace(in.Payment),
	}
	if err := s.matchRepo.Create(ctx, post); err != nil {
		s.media.Discard(ctx, img)
		return nil, err
	}
	return post, nil
}

func (s *MatchPostService) GetMatchPost(ctx context.Context, id uint) (*models.MatchmakingPost, error) {
	post, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFound("Matchmaking post not found")
	}
	return post, nil
}

func (s *MatchPostService) DeleteMatchPost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetMatchPost(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.PostedBy != in.ActorID {
		return models.NewUnauthorizedError("Unauthorized to delete post")
	}
	if err := s.media.Cleanup(ctx, post.Img); err != nil {
		return err
	}
	return s.matchRepo.Delete(ctx, post.ID)
}

// MatchFeed returns the matchmaking posts of everyone the viewer follows.
func (s *MatchPostService) MatchFeed(ctx context.Context, viewerID uint) ([]models.MatchmakingPost, error) {
	return followedContent(ctx, s.userRepo, viewerID, s.matchRepo.ListByAuthors)
}

func (s *MatchPostService) ListByUsername(ctx context.Context, username string) ([]models.MatchmakingPost, error) {
	return authoredContent(ctx, s.userRepo, username, s.matchRepo.ListByAuthor)
}
