package seed

import (
	"fmt"
	"log"

	"sportsync/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers      int
	NumPosts      int
	NumMatchPosts int
	// FollowsPerUser caps the outgoing follow edges per seeded user.
	FollowsPerUser int
	ShouldClean    bool
	SkipBcrypt     bool
	DryRun         bool
	MaxDays        int
	BatchSize      int
}

// Summary counts what a seeding run created.
type Summary struct {
	Users      int
	Follows    int
	Posts      int
	MatchPosts int
	Likes      int
	Replies    int
}

// baseUsernames are always created first so demo logins are predictable.
var baseUsernames = []string{"demo", "coach", "striker"}

// cleanOrder lists tables children first so deletes never violate a
// foreign key.
var cleanOrder = []string{
	"notifications", "likes", "replies", "posts", "matchmaking_posts",
	"messages", "conversation_participants", "conversations", "follows", "users",
}

// Seeder fills a database with a connected sample social graph.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder creates a seeder writing through db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	_, err := NewSeeder(db, opts).Run()
	return err
}

// Run seeds users, the follow mesh, posts, matchmaking posts, likes and
// replies in that order.
func (s *Seeder) Run() (Summary, error) {
	var sum Summary
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", s.opts.NumUsers, s.opts.NumPosts)

	// Clear existing data to avoid conflicts if requested
	if s.opts.ShouldClean && !s.opts.DryRun {
		if err := Clean(s.db); err != nil {
			return sum, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	users, err := s.createUsers(s.opts.NumUsers)
	if err != nil {
		return sum, fmt.Errorf("failed to create users: %w", err)
	}
	sum.Users = len(users)
	log.Printf("✓ %d users created", sum.Users)
	if len(users) == 0 {
		return sum, nil
	}

	if sum.Follows, err = s.createFollowMesh(users); err != nil {
		return sum, fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("✓ %d follow edges created", sum.Follows)

	posts, err := s.createPosts(users, s.opts.NumPosts)
	if err != nil {
		return sum, fmt.Errorf("failed to create posts: %w", err)
	}
	sum.Posts = len(posts)
	log.Printf("✓ %d posts created", sum.Posts)

	matchCount := s.opts.NumMatchPosts
	if matchCount == 0 {
		matchCount = s.opts.NumPosts / 4
	}
	for i := 0; i < matchCount; i++ {
		author := users[s.factory.r.Intn(len(users))]
		if _, err := s.factory.CreateMatchPost(author); err != nil {
			return sum, fmt.Errorf("failed to create matchmaking post: %w", err)
		}
		sum.MatchPosts++
	}
	log.Printf("✓ %d matchmaking posts created", sum.MatchPosts)

	if sum.Likes, sum.Replies, err = s.createEngagement(users, posts); err != nil {
		return sum, fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("✓ %d likes and %d replies created", sum.Likes, sum.Replies)

	log.Println("🎉 Database seeding completed successfully!")
	return sum, nil
}

// Clean deletes every application row.
func Clean(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		sql := "TRUNCATE TABLE "
		for i, table := range cleanOrder {
			if i > 0 {
				sql += ", "
			}
			sql += table
		}
		return db.Exec(sql + " RESTART IDENTITY CASCADE").Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range cleanOrder {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) createUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	for i := 0; i < count; i++ {
		var overrides []func(*models.User)
		if i < len(baseUsernames) {
			name := baseUsernames[i]
			overrides = append(overrides, func(u *models.User) {
				u.Username = name
				u.Email = name + "@example.com"
			})
		}

		user, err := s.factory.CreateUser(overrides...)
		if err != nil {
			// Base users survive a run without ShouldClean.
			if i < len(baseUsernames) {
				log.Printf("Skipping existing user %s: %v", baseUsernames[i], err)
				continue
			}
			return nil, err
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

// createFollowMesh gives every user a handful of followees. The first user
// follows everyone so the demo login has a populated feed.
func (s *Seeder) createFollowMesh(users []*models.User) (int, error) {
	perUser := s.opts.FollowsPerUser
	if perUser <= 0 {
		perUser = 5
	}

	edges := 0
	for i, follower := range users {
		targets := s.factory.r.Perm(len(users))
		limit := perUser
		if i == 0 {
			limit = len(users)
		}
		for _, j := range targets {
			if limit == 0 {
				break
			}
			if j == i {
				continue
			}
			if err := s.factory.CreateFollow(follower, users[j]); err != nil {
				return edges, err
			}
			edges++
			limit--
		}
	}
	return edges, nil
}

func (s *Seeder) createPosts(users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, s.factory.BuildPost(users[s.factory.r.Intn(len(users))]))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// createEngagement likes roughly a third of the posts per user and leaves
// up to two replies per post.
func (s *Seeder) createEngagement(users []*models.User, posts []*models.Post) (likes, replies int, err error) {
	r := s.factory.r
	for _, post := range posts {
		for _, user := range users {
			if r.Intn(3) != 0 {
				continue
			}
			if err := s.factory.CreateLike(user, post); err != nil {
				return likes, replies, err
			}
			likes++
		}

		for n := r.Intn(3); n > 0; n-- {
			author := users[r.Intn(len(users))]
			if _, err := s.factory.CreateReply(author, post); err != nil {
				return likes, replies, err
			}
			replies++
		}
	}
	return likes, replies, nil
}
