package repository

import (
	"context"

	"sportsync/internal/cache"
	"sportsync/internal/models"
	"sportsync/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations.
// GetByID returns (nil, nil) when the post does not exist.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error)
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	AddReply(ctx context.Context, reply *models.Reply) error
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

// withDetails preloads the like set and the reply thread in insertion order.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LikeRecords", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "posted_by": post.PostedBy})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	span, ctx := observability.StartRepoSpan(ctx, "posts", "GetByID")
	defer span.End()

	var post models.Post
	err := cache.Posts.Load(ctx, id, &post, func() error {
		return withDetails(readDB(r.db).WithContext(ctx)).First(&post, id).Error
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}
	if post.Replies == nil {
		post.Replies = []models.Reply{}
	}
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	return &post, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return r.ListByAuthors(ctx, []uint{authorID})
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error) {
	span, ctx := observability.StartRepoSpan(ctx, "posts", "ListByAuthors")
	defer span.End()
	defer observability.TrackQuery("list_by_authors", "posts")()

	posts := []models.Post{}
	err := newestFirst(withDetails(readDB(r.db).WithContext(ctx))).
		Where("posted_by IN ?", authorIDs).
		Find(&posts).Error
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Delete removes the post together with its likes and replies.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	cache.Posts.Invalidate(ctx, id)
	r.log.LogDelete(ctx, map[string]any{"post_id": id})
	return nil
}

// Like adds userID to the post's like set. It reports whether a like was
// actually inserted; a concurrent duplicate is absorbed by the unique index.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&models.Like{UserID: userID, PostID: postID})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	cache.Posts.Invalidate(ctx, postID)
	return res.RowsAffected > 0, nil
}

// Unlike removes userID from the post's like set and reports whether a like existed.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	cache.Posts.Invalidate(ctx, postID)
	return res.RowsAffected > 0, nil
}

func (r *postRepository) AddReply(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		r.log.LogError(ctx, err, "add_reply")
		return models.NewInternalError(err)
	}
	cache.Posts.Invalidate(ctx, reply.PostID)
	return nil
}
