// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"sportsync/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the plain-text password of every seeded user.
const DefaultPassword = "password123"

var (
	usernameStrip = regexp.MustCompile(`[^a-z0-9_]`)

	gameTypes = []string{"5-a-side", "7-a-side", "11-a-side", "3x3 basketball", "doubles tennis", "pickup volleyball"}
	payments  = []string{"free", "split", "pay at the venue", "winner takes the pitch fee"}
	sports    = []string{"football", "basketball", "tennis", "volleyball", "futsal"}
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
	hash   string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, r: r, nextID: 1000}
}

func (f *Factory) password() string {
	if f.opts.SkipBcrypt {
		return DefaultPassword
	}
	if f.hash == "" {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		f.hash = string(hashed)
	}
	return f.hash
}

// backdate returns a creation time spread over the last MaxDays.
func (f *Factory) backdate() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.r.Intn(maxDays)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

func (f *Factory) assignID() uint {
	f.nextID++
	return f.nextID
}

// Username turns a fake handle into one that passes signup validation.
// The numeric suffix keeps seeded names unique within a run.
func Username(raw string, suffix int) string {
	base := usernameStrip.ReplaceAllString(strings.ToLower(raw), "")
	if base == "" {
		base = "player"
	}
	tail := fmt.Sprintf("_%d", suffix)
	if len(base)+len(tail) > 30 {
		base = base[:30-len(tail)]
	}
	return base + tail
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.nextID++
	username := Username(gofakeit.Username(), int(f.nextID))
	user := &models.User{
		Name:       gofakeit.Name(),
		Username:   username,
		Email:      username + "@example.com",
		Password:   f.password(),
		Bio:        fmt.Sprintf("%s player from %s.", capitalize(gofakeit.RandomString(sports)), gofakeit.City()),
		ProfilePic: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = f.assignID()
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post struct for the given author without
// persisting it. Useful for batching.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		PostedBy:  author.ID,
		Text:      truncate(gofakeit.Sentence(f.r.Intn(20)+4), models.MaxTextLength),
		CreatedAt: f.backdate(),
	}
	if f.r.Float32() < 0.4 {
		post.Img = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			p.ID = f.assignID()
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	size := f.opts.BatchSize
	if size <= 0 {
		size = 100
	}
	return f.db.CreateInBatches(posts, size).Error
}

// CreatePost constructs and persists a sample `models.Post` for the given user.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)
	if err := f.CreatePostsBatch([]*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// BuildMatchPost constructs a matchmaking post for a game in the next
// few weeks.
func (f *Factory) BuildMatchPost(author *models.User, overrides ...func(*models.MatchmakingPost)) *models.MatchmakingPost {
	gameType := gofakeit.RandomString(gameTypes)
	day := time.Now().AddDate(0, 0, f.r.Intn(28)+1)
	mp := &models.MatchmakingPost{
		PostedBy:  author.ID,
		Text:      fmt.Sprintf("Looking for players for %s. %s", gameType, gofakeit.Sentence(8)),
		TeamName:  fmt.Sprintf("%s %ss", gofakeit.City(), capitalize(gofakeit.Animal())),
		Location:  fmt.Sprintf("%s, %s", gofakeit.Street(), gofakeit.City()),
		Date:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		Time:      fmt.Sprintf("%02d:%02d", f.r.Intn(14)+8, []int{0, 15, 30, 45}[f.r.Intn(4)]),
		GameType:  gameType,
		Payment:   gofakeit.RandomString(payments),
		CreatedAt: f.backdate(),
	}

	for _, override := range overrides {
		override(mp)
	}
	return mp
}

// CreateMatchPost persists a sample matchmaking post for the given user.
func (f *Factory) CreateMatchPost(author *models.User, overrides ...func(*models.MatchmakingPost)) (*models.MatchmakingPost, error) {
	mp := f.BuildMatchPost(author, overrides...)
	if f.opts.DryRun {
		mp.ID = f.assignID()
		return mp, nil
	}
	if err := f.db.Create(mp).Error; err != nil {
		return nil, err
	}
	return mp, nil
}

// CreateFollow makes follower follow followee. Existing edges and self
// edges are ignored.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if follower.ID == followee.ID || f.opts.DryRun {
		return nil
	}
	edge := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error
}

// CreateLike persists a like from `user` on `post` and the owner's
// notification. Repeated likes are ignored.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	if f.opts.DryRun {
		post.Likes = append(post.Likes, user.ID)
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: user.ID, PostID: post.ID})
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		return createNotification(tx, user.ID, post.PostedBy, models.NotificationTypeLikes, post.ID)
	})
}

// CreateReply appends a reply by `user` to `post` with the author snapshot
// and the owner's notification.
func (f *Factory) CreateReply(user *models.User, post *models.Post, overrides ...func(*models.Reply)) (*models.Reply, error) {
	reply := &models.Reply{
		PostID:         post.ID,
		UserID:         user.ID,
		Text:           truncate(gofakeit.Sentence(f.r.Intn(10)+2), models.MaxTextLength),
		Username:       user.Username,
		UserProfilePic: user.ProfilePic,
	}

	for _, override := range overrides {
		override(reply)
	}

	if f.opts.DryRun {
		reply.ID = f.assignID()
		return reply, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		return createNotification(tx, user.ID, post.PostedBy, models.NotificationTypeReply, post.ID)
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func createNotification(tx *gorm.DB, fromID, toID uint, kind string, postID uint) error {
	if fromID == toID {
		return nil
	}
	return tx.Create(&models.Notification{FromID: fromID, ToID: toID, Type: kind, PostID: &postID}).Error
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
