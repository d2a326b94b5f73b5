// Command main runs the database seeder for SportSync.
package main

import (
	"flag"
	"log"

	"sportsync/internal/config"
	"sportsync/internal/database"
	"sportsync/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	numMatchPosts := flag.Int("matchposts", 0, "Number of matchmaking posts to create (default: posts/4)")
	follows := flag.Int("follows", 5, "Follow edges per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build the data set without writing it")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:       *numUsers,
		NumPosts:       *numPosts,
		NumMatchPosts:  *numMatchPosts,
		FollowsPerUser: *follows,
		ShouldClean:    *shouldClean,
		DryRun:         *dryRun,
		BatchSize:      100,
	})
	sum, err := s.Run()
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! %d users, %d follows, %d posts, %d matchmaking posts, %d likes, %d replies.",
		sum.Users, sum.Follows, sum.Posts, sum.MatchPosts, sum.Likes, sum.Replies)
	log.Printf("📧 All seeded users have the password: %s", seed.DefaultPassword)
}
