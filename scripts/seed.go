package main

import (
	"context"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/clinvue/visitinsights/internal/adapters/csvstore"
	"github.com/clinvue/visitinsights/internal/infrastructure/clients/postgres"
	"github.com/clinvue/visitinsights/internal/infrastructure/observability"
	"github.com/clinvue/visitinsights/pkg/config"
)

// Loads the historical CSV exports into the PostgreSQL tables the database
// backend reads from. Run once to migrate a CSV deployment; the application
// itself never writes to these tables.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("visit-insights-seed", cfg.Environment)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := goqu.New("postgres", pgClient.DB())

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				visit_notes,
				visits,
				app_credentials
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	source := csvstore.NewDatasetAdapter(
		cfg.Dataset.VisitsPath, cfg.Dataset.NotesPath, cfg.Dataset.CredentialsPath)

	visits, err := source.LoadVisits(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read visits file")
	}
	for _, v := range visits {
		if _, err := db.Insert("visits").Rows(v).Executor().ExecContext(ctx); err != nil {
			log.Error().Err(err).Str("patient_id", v.PatientID).Str("visit_id", v.VisitID).
				Msg("failed to insert visit")
		}
	}
	log.Info().Int("count", len(visits)).Msg("seeded visits")

	notes, err := source.LoadNotes(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read notes file")
	}
	for _, n := range notes {
		if _, err := db.Insert("visit_notes").Rows(n).Executor().ExecContext(ctx); err != nil {
			log.Error().Err(err).Str("note_id", n.NoteID).Msg("failed to insert note")
		}
	}
	log.Info().Int("count", len(notes)).Msg("seeded notes")

	creds, err := source.LoadCredentials(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read credentials file")
	}
	for _, c := range creds {
		row := goqu.Record{
			"username": c.Username,
			"password": c.Password,
			"role":     c.Role.String(),
		}
		if _, err := db.Insert("app_credentials").Rows(row).Executor().ExecContext(ctx); err != nil {
			log.Error().Err(err).Str("username", c.Username).Msg("failed to insert credential")
		}
	}
	log.Info().Int("count", len(creds)).Msg("seeded credentials")
}
