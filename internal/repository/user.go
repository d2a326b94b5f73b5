// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"fmt"

	"sportsync/internal/cache"
	"sportsync/internal/database"
	"sportsync/internal/models"
	"sportsync/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users and the follow graph.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	Suggested(ctx context.Context, userID uint, limit int) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewValidationError("User already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	user.Following = []uint{}
	user.Followers = []uint{}
	r.log.LogCreate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Users.Load(ctx, id, &user, func() error {
		db := readDB(r.db).WithContext(ctx)
		if err := db.First(&user, id).Error; err != nil {
			return err
		}
		return r.loadFollowGraph(db, &user)
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return r.findOne(ctx, "username = ? OR email = ?", username, email)
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	db := readDB(r.db).WithContext(ctx)
	if err := db.Where(query, args...).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.loadFollowGraph(db, &user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) loadFollowGraph(db *gorm.DB, user *models.User) error {
	user.Following = []uint{}
	user.Followers = []uint{}
	if err := db.Model(&models.Follow{}).
		Where("follower_id = ?", user.ID).
		Order("created_at ASC").
		Pluck("followee_id", &user.Following).Error; err != nil {
		return fmt.Errorf("load following: %w", err)
	}
	if err := db.Model(&models.Follow{}).
		Where("followee_id = ?", user.ID).
		Order("created_at ASC").
		Pluck("follower_id", &user.Followers).Error; err != nil {
		return fmt.Errorf("load followers: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.User{ID: id}).Updates(fields).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewValidationError("User already exists")
		}
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	cache.Users.Invalidate(ctx, id)
	r.log.LogUpdate(ctx, map[string]any{"user_id": id})
	return nil
}

// ToggleFollow removes the edge when present and inserts it otherwise.
// It reports whether the follower now follows the followee.
func (r *userRepository) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	followed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		followed = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "toggle_follow")
		return false, models.NewInternalError(err)
	}
	cache.Users.Invalidate(ctx, followerID, followeeID)
	return followed, nil
}

func (r *userRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// Suggested returns up to limit random users that userID neither is nor follows.
func (r *userRepository) Suggested(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	db := readDB(r.db).WithContext(ctx)
	followed := db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", userID)

	users := []models.User{}
	if err := db.Where("id <> ?", userID).
		Where("id NOT IN (?)", followed).
		Order("RANDOM()").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range users {
		if err := r.loadFollowGraph(db, &users[i]); err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return users, nil
}
