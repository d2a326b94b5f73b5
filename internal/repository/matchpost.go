package repository

import (
	"context"

	"sportsync/internal/cache"
	"sportsync/internal/models"
	"sportsync/internal/observability"

	"gorm.io/gorm"
)

// MatchPostRepository defines persistence operations for matchmaking posts.
// GetByID returns (nil, nil) when the listing does not exist.
type MatchPostRepository interface {
	Create(ctx context.Context, post *models.MatchmakingPost) error
	GetByID(ctx context.Context, id uint) (*models.MatchmakingPost, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.MatchmakingPost, error)
	ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.MatchmakingPost, error)
	Delete(ctx context.Context, id uint) error
}

type matchPostRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewMatchPostRepository creates a new matchmaking post repository.
func NewMatchPostRepository(db *gorm.DB) MatchPostRepository {
	return &matchPostRepository{db: db, log: observability.NewRepoLogger("matchmaking_posts")}
}

func (r *matchPostRepository) Create(ctx context.Context, post *models.MatchmakingPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"matchpost_id": post.ID, "posted_by": post.PostedBy})
	return nil
}

func (r *matchPostRepository) GetByID(ctx context.Context, id uint) (*models.MatchmakingPost, error) {
	var post models.MatchmakingPost
	err := cache.MatchPosts.Load(ctx, id, &post, func() error {
		return readDB(r.db).WithContext(ctx).First(&post, id).Error
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *matchPostRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.MatchmakingPost, error) {
	return r.ListByAuthors(ctx, []uint{authorID})
}

func (r *matchPostRepository) ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.MatchmakingPost, error) {
	span, ctx := observability.StartRepoSpan(ctx, "matchmaking_posts", "ListByAuthors")
	defer span.End()
	defer observability.TrackQuery("list_by_authors", "matchmaking_posts")()

	posts := []models.MatchmakingPost{}
	err := newestFirst(readDB(r.db).WithContext(ctx)).
		Where("posted_by IN ?", authorIDs).
		Find(&posts).Error
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *matchPostRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.MatchmakingPost{}, id).Error; err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	cache.MatchPosts.Invalidate(ctx, id)
	r.log.LogDelete(ctx, map[string]any{"matchpost_id": id})
	return nil
}
