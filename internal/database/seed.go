package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/taskhub/internal/auth"
)

// seedTags is the shared tag vocabulary made available to every client.
var seedTags = []string{
	"blocking",
	"fun",
	"important",
	"personal",
	"ponies",
	"urgent",
}

// Seed loads development fixtures: one test account to log in with and the
// tag vocabulary. Idempotent — rows that already exist are left alone, so
// it is safe to run on every startup when SEED_DB is set.
func Seed(ctx context.Context, db *sql.DB) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	// ON DUPLICATE KEY UPDATE id=id makes the insert a no-op when the
	// unique email already exists.
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE id = id`,
		uuid.NewString(), "test@platterz.ca", hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("seeding test user: %w", err)
	}

	for _, name := range seedTags {
		_, err := db.ExecContext(ctx,
			`INSERT INTO tags (id, name, created_at)
			 VALUES (?, ?, ?)
			 ON DUPLICATE KEY UPDATE id = id`,
			uuid.NewString(), name, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("seeding tag %q: %w", name, err)
		}
	}

	slog.Info("seed data loaded",
		slog.String("account", "test@platterz.ca"),
		slog.Int("tags", len(seedTags)),
	)

	return nil
}
