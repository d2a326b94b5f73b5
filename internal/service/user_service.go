package service

import (
	"context"
	"strconv"
	"strings"

	"sportsync/internal/imagehost"
	"sportsync/internal/models"
	"sportsync/internal/repository"
	"sportsync/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// SuggestedLimit caps the users returned by SuggestedUsers.
const SuggestedLimit = 4

type UserService struct {
	userRepo   repository.UserRepository
	media      *Media
	bcryptCost int
}

type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// UpdateProfileInput carries the fields to change. Empty fields keep
// their current value.
type UpdateProfileInput struct {
	ActorID    uint
	UserID     uint
	Name       string
	Username   string
	Email      string
	Bio        string
	Password   string
	ProfilePic string
}

func NewUserService(userRepo repository.UserRepository, media *Media) *UserService {
	return &UserService{userRepo: userRepo, media: media, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *UserService) WithBcryptCost(cost int) *UserService {
	s.bcryptCost = cost
	return s
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Please fill in all fields")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user := &models.User{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials. Unknown users and wrong passwords share
// one message.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	invalid := models.NewValidationError("Invalid username or password")
	if in.Username == "" || in.Password == "" {
		return nil, invalid
	}
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFound("User not found")
	}
	return user, nil
}

// GetProfile resolves query as a numeric id first and as a username otherwise.
func (s *UserService) GetProfile(ctx context.Context, query string) (*models.User, error) {
	if id, err := strconv.ParseUint(query, 10, 64); err == nil {
		return s.GetUser(ctx, uint(id))
	}
	user, err := s.userRepo.GetByUsername(ctx, query)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFound("User not found")
	}
	return user, nil
}

// ToggleFollow follows targetID or stops following it. It reports whether
// the actor follows the target afterwards.
func (s *UserService) ToggleFollow(ctx context.Context, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, models.NewValidationError("You cannot follow/unfollow yourself")
	}
	if _, err := s.GetUser(ctx, targetID); err != nil {
		return false, err
	}
	if _, err := s.GetUser(ctx, actorID); err != nil {
		return false, err
	}
	return s.userRepo.ToggleFollow(ctx, actorID, targetID)
}

// UpdateProfile applies the non-empty fields. Reply snapshots written
// earlier keep the old username and picture.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.ActorID != in.UserID {
		return nil, models.NewUnauthorizedError("You cannot update other user's profile")
	}
	user, err := s.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if v := strings.TrimSpace(in.Name); v != "" {
		fields["name"] = v
	}
	if v := strings.TrimSpace(in.Username); v != "" && v != user.Username {
		if err := validation.ValidateUsername(v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["username"] = v
	}
	if v := strings.ToLower(strings.TrimSpace(in.Email)); v != "" && v != user.Email {
		if err := validation.ValidateEmail(v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["email"] = v
	}
	if in.Bio != "" {
		fields["bio"] = in.Bio
	}
	if in.Password != "" {
		if err := validation.ValidatePassword(in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		fields["password"] = string(hash)
	}

	previousPic := ""
	if in.ProfilePic != "" && in.ProfilePic != user.ProfilePic {
		pic, err := s.media.Store(ctx, in.ProfilePic, imagehost.FolderProfiles, "profile")
		if err != nil {
			return nil, err
		}
		fields["profile_pic"] = pic
		previousPic = user.ProfilePic
	}

	if err := s.userRepo.Update(ctx, user.ID, fields); err != nil {
		if pic, ok := fields["profile_pic"].(string); ok {
			s.media.Discard(ctx, pic)
		}
		return nil, err
	}
	s.media.Discard(ctx, previousPic)

	return s.GetUser(ctx, user.ID)
}

// SuggestedUsers returns a few random users the caller does not follow yet.
func (s *UserService) SuggestedUsers(ctx context.Context, userID uint) ([]models.User, error) {
	users, err := s.userRepo.Suggested(ctx, userID, SuggestedLimit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
