package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"aiplus/internal/database"
	"aiplus/internal/repository"
)

// Scheduled job: removes refresh token records past their expiry and
// password reset records that were consumed or lapsed. Revoked but
// unexpired refresh rows are kept for audit.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()

	refreshRemoved, err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx)
	if err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}

	resetsRemoved, err := repository.NewPasswordResetTokenRepository(db).DeleteStale(ctx)
	if err != nil {
		log.Fatalf("cleanup password_reset_tokens failed: %v", err)
	}

	log.Printf("auth cleanup completed: refresh_tokens=%d password_reset_tokens=%d", refreshRemoved, resetsRemoved)
}
