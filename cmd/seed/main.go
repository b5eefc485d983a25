package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"artisthub/internal/config"
	"artisthub/internal/database"
	"artisthub/internal/domain"
	"artisthub/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	for _, table := range []string{"artist_genres", "artist_songs", "artist_photos", "artists", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s failed: %v", table, err)
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	artists := repository.NewArtistRepository(db)

	log.Println("Creating users...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	seeds := []struct {
		user   domain.User
		artist domain.Artist
		genres []string
	}{
		{
			user:   domain.User{Name: "Mira Sol", Email: "mira@artisthub.dev"},
			artist: domain.Artist{Name: "Mira Sol", Bio: strPtr("Singer-songwriter from the coast."), City: strPtr("Mobile"), Genre: strPtr("folk")},
			genres: []string{"folk", "acoustic"},
		},
		{
			user:   domain.User{Name: "Dax Ortega", Email: "dax@artisthub.dev"},
			artist: domain.Artist{Name: "DAX", Bio: strPtr("Producer and DJ."), City: strPtr("Houston"), Genre: strPtr("house")},
			genres: []string{"house", "electronic"},
		},
		{
			// a registered user without a profile yet
			user: domain.User{Name: "Lena Park", Email: "lena@artisthub.dev"},
		},
	}

	for _, s := range seeds {
		u := s.user
		u.PasswordHash = string(hash)
		if err := users.Create(ctx, &u); err != nil {
			log.Fatalf("create user %s failed: %v", u.Email, err)
		}
		if s.artist.Name == "" {
			continue
		}

		a := s.artist
		a.UserID = u.ID
		if err := artists.Create(ctx, &a); err != nil {
			log.Fatalf("create artist %s failed: %v", a.Name, err)
		}
		if err := artists.ReplaceGenres(ctx, a.ID, s.genres); err != nil {
			log.Fatalf("genres for %s failed: %v", a.Name, err)
		}
		log.Printf("seeded user_id=%d artist_id=%d email=%s", u.ID, a.ID, u.Email)
	}

	log.Println("Seed complete. Password for every user: password123")
}

func strPtr(s string) *string { return &s }
