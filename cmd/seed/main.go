package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/expertlink/api/config"
	"github.com/expertlink/api/internal/domain/entity"
)

// Seeds a handful of demo accounts for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	demo := []struct {
		email, name, expertise string
		coins                  int
	}{
		{"ada@example.com", "Ada", "backend", 100},
		{"linus@example.com", "Linus", "systems", 480},
		{"grace@example.com", "Grace", "compilers", 1200},
	}

	for _, d := range demo {
		var id string
		err := db.QueryRow(`
			INSERT INTO accounts (email, name, areas_of_expertise, coins, tier)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, d.email, d.name, d.expertise, d.coins, entity.TierForCoins(d.coins)).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed account %s: %v", d.email, err)
		}
		fmt.Printf("seeded account: id=%s email=%s coins=%d\n", id, d.email, d.coins)
	}
}
