// Package main provides staff management utilities for Commune.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"commune/internal/config"
	"commune/internal/database"
	"commune/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/staff/main.go promote <user_id>   - Grant staff to a user")
		fmt.Println("  go run ./cmd/staff/main.go demote <user_id>    - Revoke staff from a user")
		fmt.Println("  go run ./cmd/staff/main.go list               - List all staff users")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/staff/main.go promote <user_id>")
			os.Exit(1)
		}
		setStaff(db, os.Args[2], true)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/staff/main.go demote <user_id>")
			os.Exit(1)
		}
		setStaff(db, os.Args[2], false)

	case "list":
		listStaff(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func setStaff(db *gorm.DB, userID string, staff bool) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}

	if err := db.Model(&user).Update("is_staff", staff).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	verb := "promoted to"
	if !staff {
		verb = "demoted from"
	}
	fmt.Printf("User %s (ID %d) %s staff\n", user.Username, user.ID, verb)
}

func listStaff(db *gorm.DB) {
	var staff []models.User
	if err := db.Where("is_staff = ?", true).Order("id").Find(&staff).Error; err != nil {
		log.Fatalf("Failed to list staff: %v", err)
	}

	if len(staff) == 0 {
		fmt.Println("No staff users found")
		return
	}

	fmt.Println("Staff users:")
	for _, u := range staff {
		fmt.Printf("  %d  %s  %s\n", u.ID, u.Username, u.Email)
	}
}
