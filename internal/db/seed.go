package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindredapp/kindred-backend/internal/adjectives"
)

// SeedTestData resets the database and populates it with demo users and
// adjective selections.
//
// Behavior:
//  1. Clears existing rows in all tables.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords.
//  3. Generates ~200 selections, and every 3rd ensures a reciprocal pick of
//     the same adjective plus the resulting Match row.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "interactions", "connections", "matches", "adjective_sessions", "adjective_selections", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'matches'")
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'users'")
	}

	log.Println("Cleared existing data")

	// --- Seed Users (10 male, 10 female) ---
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender := "male"
		if i > 10 {
			gender = "female"
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Gender:       gender,
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Println("Seeded 20 users.")

	// --- Seed Selections (~200), every 3rd reciprocal ---
	counter := 0
	for _, viewer := range users {
		for j := 0; j < 10; j++ {
			target := users[r.Intn(len(users))]
			if viewer.ID == target.ID {
				continue
			}

			pool := adjectives.ResolvePool(
				adjectives.ParseGender(viewer.Gender),
				adjectives.ParseGender(target.Gender),
			)
			adjective := pool[r.Intn(len(pool))]
			reciprocal := counter%3 == 0

			selection := AdjectiveSelection{
				ViewerID:  viewer.ID,
				TargetID:  target.ID,
				Adjective: adjective,
				Matched:   reciprocal,
			}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "viewer_id"}, {Name: "target_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"adjective", "matched", "updated_at"}),
			}).Create(&selection).Error; err != nil {
				return fmt.Errorf("failed to seed selection: %w", err)
			}

			if reciprocal {
				recip := AdjectiveSelection{
					ViewerID:  target.ID,
					TargetID:  viewer.ID,
					Adjective: adjective,
					Matched:   true,
				}
				db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "viewer_id"}, {Name: "target_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"adjective", "matched", "updated_at"}),
				}).Create(&recip)

				low, high := NormalizePair(viewer.ID, target.ID)
				match := Match{
					UserLowID:         low,
					UserHighID:        high,
					MutualAdjective:   adjective,
					IceBreakingPrompt: adjectives.PromptFor(adjective),
				}
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)

				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&Interaction{ActorID: viewer.ID, TargetID: target.ID})
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&Interaction{ActorID: target.ID, TargetID: viewer.ID})
			}

			counter++
		}
	}

	log.Printf("Seeded %d selections.", counter)
	return nil
}

// SeedMinimalTestData wipes the DB and inserts a deterministic minimal
// dataset for repeatable tests.
func SeedMinimalTestData(db *gorm.DB) error {
	for _, table := range []string{"messages", "interactions", "connections", "matches", "adjective_sessions", "adjective_selections", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	// Users
	users := []User{
		{ID: 1, Username: "user1", Email: "u1@test.com", PasswordHash: "x", Gender: "male"},
		{ID: 2, Username: "user2", Email: "u2@test.com", PasswordHash: "x", Gender: "female"},
		{ID: 3, Username: "user3", Email: "u3@test.com", PasswordHash: "x", Gender: "female"},
		{ID: 4, Username: "user4", Email: "u4@test.com", PasswordHash: "x", Gender: "male"},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	// user3 already picked an adjective about user1; nothing reciprocal yet.
	selections := []AdjectiveSelection{
		{ViewerID: 3, TargetID: 1, Adjective: "Kind"},
	}
	if err := db.Create(&selections).Error; err != nil {
		return err
	}

	return nil
}
