// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"commune/internal/database"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumGroups   int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users, %d posts and %d groups...",
		opts.NumUsers, opts.NumPosts, opts.NumGroups)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := newFactory(db)

	users, err := f.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	if err := f.createSocialMesh(users); err != nil {
		return fmt.Errorf("failed to create social mesh: %w", err)
	}
	log.Println("✓ friendships, follows and pending requests created")

	groups, err := f.createGroups(users, opts.NumGroups)
	if err != nil {
		return fmt.Errorf("failed to create groups: %w", err)
	}
	log.Printf("✓ %d groups created with memberships", len(groups))

	posts, err := f.createPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created with comments and likes", len(posts))

	if err := f.createGroupPosts(groups); err != nil {
		return fmt.Errorf("failed to create group posts: %w", err)
	}
	log.Println("✓ group posts created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	tables := database.AllModels()
	// Delete children before parents so FK constraints stay happy.
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(tables[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
