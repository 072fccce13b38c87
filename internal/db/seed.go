package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo users,
// locations, tags and match edges.
//
// Behavior:
//  1. Clears existing rows in matches, user_tags, tags, locations, users.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords and
//     coordinates scattered around a city center.
//  3. Attaches a couple of tags per user.
//  4. Generates like edges with ~70% coverage; every 3rd pair and any
//     reciprocal pick is committed mutual on both edges.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"matches", "user_tags", "tags", "locations", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	tags := []Tag{
		{Name: "hiking", Slug: "hiking"},
		{Name: "movies", Slug: "movies"},
		{Name: "cooking", Slug: "cooking"},
		{Name: "travel", Slug: "travel"},
	}
	if err := db.Create(&tags).Error; err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Q16werty!23"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Scatter users around a city center so distance filters have
	// something to bite on.
	const centerLat, centerLon = 52.52, 13.405

	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		sex := SexMale
		if i > 10 {
			sex = SexFemale
		}

		user := User{
			ID:           uuid.NewString(),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			FirstName:    fmt.Sprintf("user%d", i),
			LastName:     fmt.Sprintf("demo%d", i),
			Sex:          sex,
			BirthDate:    time.Date(1980+r.Intn(25), time.Month(1+r.Intn(12)), 1+r.Intn(28), 0, 0, 0, 0, time.UTC),
			Active:       true,
			LastOnline:   time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		loc := Location{
			UserID:    user.ID,
			Latitude:  centerLat + (r.Float64()-0.5)*2,
			Longitude: centerLon + (r.Float64()-0.5)*2,
		}
		if err := db.Create(&loc).Error; err != nil {
			return fmt.Errorf("failed to seed location: %w", err)
		}

		userTags := []Tag{tags[r.Intn(len(tags))], tags[r.Intn(len(tags))]}
		if err := db.Model(&user).Association("Tags").Append(userTags); err != nil {
			return fmt.Errorf("failed to seed tags for user: %w", err)
		}

		users = append(users, user)
	}
	log.Println("Seeded 20 users.")

	type pair struct{ from, to string }
	seen := make(map[pair]bool)
	counter := 0
	for i := range users {
		for j := 0; j < 6; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == users[i].ID || target.Sex == users[i].Sex {
				continue
			}
			if r.Intn(100) >= 70 {
				continue
			}

			forward := pair{users[i].ID, target.ID}
			if seen[forward] {
				continue
			}
			reverse := pair{target.ID, users[i].ID}

			// A reciprocal pick always commits both edges mutual, so the
			// seeded ledger never holds a pending pair in both directions
			// or a one-sided mutual flag.
			mutual := counter%3 == 0 || seen[reverse]

			if err := db.Create(&Match{
				UserID:        forward.from,
				MatchedUserID: forward.to,
				IsMutual:      mutual,
				MatchedAt:     time.Now().UTC(),
			}).Error; err != nil {
				return fmt.Errorf("failed to seed match: %w", err)
			}
			seen[forward] = true

			if mutual {
				if seen[reverse] {
					err := db.Model(&Match{}).
						Where("user_id = ? AND matched_user_id = ?", reverse.from, reverse.to).
						Update("is_mutual", true).Error
					if err != nil {
						return fmt.Errorf("failed to seed match: %w", err)
					}
				} else {
					if err := db.Create(&Match{
						UserID:        reverse.from,
						MatchedUserID: reverse.to,
						IsMutual:      true,
						MatchedAt:     time.Now().UTC(),
					}).Error; err != nil {
						return fmt.Errorf("failed to seed match: %w", err)
					}
					seen[reverse] = true
				}
			}
			counter++
		}
	}

	return nil
}
