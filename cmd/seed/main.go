package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/podtrail/podtrail-api/config"
	"github.com/podtrail/podtrail-api/internal/domain/entity"
	"github.com/podtrail/podtrail-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@podtrail.dev"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, is_verified)
		VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, "Admin", entity.RoleAdmin).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	var podcastID string
	err = db.QueryRow(`
		INSERT INTO podcasts (title, category, rating)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "The Daily Stack", "Technology", 5).Scan(&podcastID)
	if err != nil {
		log.Fatalf("failed to seed podcast: %v", err)
	}
	fmt.Printf("seeded podcast: id=%s\n", podcastID)

	episodes := []string{"Shipping on Fridays", "Postmortems Without Blame", "The Monorepo Question"}
	for _, title := range episodes {
		var episodeID string
		if err := db.QueryRow(`
			INSERT INTO episodes (podcast_id, title, category)
			VALUES ($1, $2, $3)
			RETURNING id
		`, podcastID, title, "Technology").Scan(&episodeID); err != nil {
			log.Fatalf("failed to seed episode: %v", err)
		}
		fmt.Printf("seeded episode: id=%s title=%q\n", episodeID, title)
	}
}
