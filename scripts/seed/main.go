// Seed loads a development database with demo users, preference
// categories and the embedded activity library.
//
// Usage:
//
//	go run ./scripts/seed -admin-password secret -user-password secret
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/library"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/repository"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/config"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/database"
)

var defaultCategories = []string{"sports", "music", "learning", "wellness", "social", "creative"}

func main() {
	var (
		adminEmail     string
		adminPassword  string
		userEmail      string
		userPassword   string
		skipActivities bool
		timeout        time.Duration
	)

	flag.StringVar(&adminEmail, "admin-email", "admin@example.com", "seeded admin account email")
	flag.StringVar(&adminPassword, "admin-password", "admin123", "seeded admin account password")
	flag.StringVar(&userEmail, "user-email", "demo@example.com", "seeded demo account email")
	flag.StringVar(&userPassword, "user-password", "demo123", "seeded demo account password")
	flag.BoolVar(&skipActivities, "skip-activities", false, "skip seeding the activity library")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall seeding timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	users := repository.NewUserRepository(db)
	preferences := repository.NewPreferenceRepository(db)
	activities := repository.NewActivityRepository(db)

	seedUser(ctx, users, adminEmail, adminPassword, "Administrator", models.RoleAdmin)
	seedUser(ctx, users, userEmail, userPassword, "Demo User", models.RoleUser)

	for _, name := range defaultCategories {
		exists, err := preferences.CategoryExistsByName(ctx, name)
		if err != nil {
			log.Fatalf("failed to check category %q: %v", name, err)
		}
		if exists {
			continue
		}
		if err := preferences.CreateCategory(ctx, &models.PreferenceCategory{Name: name}); err != nil {
			log.Fatalf("failed to create category %q: %v", name, err)
		}
		log.Printf("created category %q", name)
	}

	if !skipActivities {
		entries, err := library.Load()
		if err != nil {
			log.Fatalf("failed to load activity library: %v", err)
		}
		batch := make([]models.Activity, 0, len(entries))
		for _, entry := range entries {
			batch = append(batch, models.Activity{
				Title:       entry.Title,
				Description: entry.Description,
				Preference:  entry.Preference,
				Goal:        entry.Goal,
				Category:    entry.Category,
				Duration:    entry.Duration,
			})
		}
		if _, err := activities.InsertMany(ctx, batch); err != nil {
			log.Fatalf("failed to seed activities: %v", err)
		}
		log.Printf("seeded %d activities", len(batch))
	}

	log.Println("seeding complete")
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, password, fullName string, role models.UserRole) {
	if existing, err := users.FindByEmail(ctx, email); err == nil && existing != nil {
		log.Printf("user %q already present, skipping", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password for %q: %v", email, err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		Active:       true,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("failed to create user %q: %v", email, err)
	}
	log.Printf("created %s user %q", role, user.Email)
}
