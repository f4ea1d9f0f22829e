package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/rs/zerolog/log"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/repositories"
	"github.com/clinvue/visitinsights/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

// DatasetAdapter reads the visit, note, and credential datasets from
// PostgreSQL. Like every dataset source it is read-only: the tables are
// populated out of band and this adapter only SELECTs from them at startup.
type DatasetAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDatasetAdapter creates a PostgreSQL dataset adapter.
func NewDatasetAdapter(client *postgres.Client) repositories.DatasetSource {
	return &DatasetAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LoadVisits reads every row of the visits table ordered by patient and visit.
func (a *DatasetAdapter) LoadVisits(ctx context.Context) ([]entities.VisitRecord, error) {
	query, args, err := a.db.Select(
		"patient_id", "visit_id", "visit_time", "department", "race", "gender",
		"ethnicity", "age", "zip_code", "insurance", "chief_complaint",
	).From("visits").
		Order(goqu.I("patient_id").Asc(), goqu.I("visit_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build visits query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query visits", err)
	}
	defer rows.Close()

	visits := []entities.VisitRecord{}
	for rows.Next() {
		var v entities.VisitRecord
		if err := rows.Scan(
			&v.PatientID, &v.VisitID, &v.VisitTime, &v.Department, &v.Race,
			&v.Gender, &v.Ethnicity, &v.Age, &v.ZipCode, &v.Insurance,
			&v.ChiefComplaint,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan visit row", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read visit rows", err)
	}
	return visits, nil
}

// LoadNotes reads every row of the visit_notes table.
func (a *DatasetAdapter) LoadNotes(ctx context.Context) ([]entities.ClinicalNote, error) {
	query, args, err := a.db.Select(
		"patient_id", "visit_id", "note_id", "note_type", "note_text",
	).From("visit_notes").
		Order(goqu.I("patient_id").Asc(), goqu.I("visit_id").Asc(), goqu.I("note_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build notes query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query notes", err)
	}
	defer rows.Close()

	notes := []entities.ClinicalNote{}
	for rows.Next() {
		var n entities.ClinicalNote
		if err := rows.Scan(&n.PatientID, &n.VisitID, &n.NoteID, &n.NoteType, &n.Text); err != nil {
			return nil, apperrors.NewInternalError("failed to scan note row", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read note rows", err)
	}
	return notes, nil
}

// LoadCredentials reads the credential table. Rows with a role the system
// does not know are skipped with a warning.
func (a *DatasetAdapter) LoadCredentials(ctx context.Context) ([]entities.Credential, error) {
	query, args, err := a.db.Select("username", "password", "role").
		From("app_credentials").
		Order(goqu.I("username").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build credentials query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query credentials", err)
	}
	defer rows.Close()

	creds := []entities.Credential{}
	for rows.Next() {
		var username, password, roleName string
		if err := rows.Scan(&username, &password, &roleName); err != nil {
			return nil, apperrors.NewInternalError("failed to scan credential row", err)
		}
		role, err := entities.ParseRole(roleName)
		if err != nil {
			log.Warn().Str("username", username).Str("role", roleName).
				Msg("skipping credential with unsupported role")
			continue
		}
		creds = append(creds, entities.Credential{
			Username: username,
			Password: password,
			Role:     role,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read credential rows", err)
	}
	return creds, nil
}
