// Command seed fills the blog database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"blog/internal/bootstrap"
	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 20, "Number of posts to create")
	comments := flag.Int("comments", 3, "Comments per post")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible content (0 = time based)")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		// ClearAll also removed a bootstrapped administrator.
		if err := bootstrap.EnsureAdmin(ctx, cfg, db); err != nil {
			log.Fatalf("Administrator bootstrap failed: %v", err)
		}
	}

	if _, err := s.Run(ctx, seed.Options{
		NumUsers:        *numUsers,
		NumPosts:        *numPosts,
		CommentsPerPost: *comments,
		RandSeed:        *randSeed,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All done. Seeded users share the password %q", seed.DefaultPassword)
}
