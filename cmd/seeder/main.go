package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rallyrank/rating-engine/internal/engine"
	"github.com/rallyrank/rating-engine/internal/players"
	"github.com/rallyrank/rating-engine/internal/rating"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	store := players.New(db)

	// Create a pool of dummy players spanning both genders and a shared club.
	type dummyPlayer struct {
		id, name, gender string
	}
	dummyPlayers := []dummyPlayer{
		{"player-1", "Seeder Player A", "male"},
		{"player-2", "Seeder Player B", "female"},
		{"player-3", "Seeder Player C", "male"},
		{"player-4", "Seeder Player D", "female"},
		{"player-5", "Seeder Player E", "male"},
		{"player-6", "Seeder Player F", "female"},
	}

	for _, p := range dummyPlayers {
		if err := store.EnsurePlayer(p.id, p.name, p.gender); err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const numMatches = 500
	matchTypes := []rating.MatchType{rating.MatchTypeSingles, rating.MatchTypeDoubles, rating.MatchTypeMixed}

	log.Info("Preparing to apply dummy match outcomes...", "total", numMatches)
	startTime := time.Now()

	for i := 0; i < numMatches; i++ {
		ia := rand.Intn(len(dummyPlayers))
		ib := rand.Intn(len(dummyPlayers) - 1)
		if ib >= ia {
			ib++
		}

		outcome := rating.MatchOutcome{
			MatchID:    uuid.NewString(),
			Context:    rating.ContextGlobal,
			MatchType:  matchTypes[rand.Intn(len(matchTypes))],
			PlayerA:    dummyPlayers[ia].id,
			PlayerB:    dummyPlayers[ib].id,
			Result:     rating.ResultAWins,
			Importance: 1.0,
			PlayedAt:   time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour).Unix(),
		}
		if rand.Intn(2) == 0 {
			outcome.Result = rating.ResultBWins
		}
		// A third of the matches are club matches so the club universe gets data too.
		if rand.Intn(3) == 0 {
			outcome.Context = rating.ContextClub
			outcome.ClubID = "seeder-club"
		}

		recA, err := store.GetPlayer(outcome.PlayerA)
		if err != nil {
			log.Fatalf("Failed to load player %s: %s", outcome.PlayerA, err)
		}
		recB, err := store.GetPlayer(outcome.PlayerB)
		if err != nil {
			log.Fatalf("Failed to load player %s: %s", outcome.PlayerB, err)
		}

		var clubA, clubB *rating.ClubStatRecord
		if outcome.Context == rating.ContextClub {
			if clubA, err = store.GetClubStat(outcome.PlayerA, outcome.ClubID); err != nil {
				log.Fatalf("Failed to load club stat: %s", err)
			}
			if clubB, err = store.GetClubStat(outcome.PlayerB, outcome.ClubID); err != nil {
				log.Fatalf("Failed to load club stat: %s", err)
			}
		}

		update, err := engine.ApplyMatch(outcome, *recA, *recB, clubA, clubB)
		if err != nil {
			log.Fatalf("Failed to compute rating update: %s", err)
		}
		if err := store.ApplyMatchUpdate(update); err != nil {
			log.Fatalf("Failed to persist rating update: %s", err)
		}

		if (i+1)%100 == 0 {
			log.Info("Applied outcomes", "completed", i+1, "total", numMatches)
		}
	}

	duration := time.Since(startTime)
	log.Info("Successfully applied all dummy match outcomes.", "duration", duration)
}
