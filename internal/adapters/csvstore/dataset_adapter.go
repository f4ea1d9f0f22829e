package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/repositories"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

// DatasetAdapter reads the visit, note, and credential datasets from CSV files
// in the historical column layout. A missing visits or notes file yields an
// empty dataset; a missing credentials file is an error because nobody could
// log in.
type DatasetAdapter struct {
	visitsPath      string
	notesPath       string
	credentialsPath string
}

// NewDatasetAdapter creates a CSV dataset adapter over the three file paths.
func NewDatasetAdapter(visitsPath, notesPath, credentialsPath string) repositories.DatasetSource {
	return &DatasetAdapter{
		visitsPath:      visitsPath,
		notesPath:       notesPath,
		credentialsPath: credentialsPath,
	}
}

// LoadVisits reads the visit records file. Rows without a patient or visit ID
// are skipped.
func (a *DatasetAdapter) LoadVisits(ctx context.Context) ([]entities.VisitRecord, error) {
	rows, err := readAll(a.visitsPath)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read visits file", err)
	}

	visits := []entities.VisitRecord{}
	for _, row := range rows {
		pid, vid := row["Patient_ID"], row["Visit_ID"]
		if pid == "" || vid == "" {
			continue
		}
		visits = append(visits, entities.VisitRecord{
			PatientID:      pid,
			VisitID:        vid,
			VisitTime:      row["Visit_time"],
			Department:     row["Visit_department"],
			Race:           row["Race"],
			Gender:         row["Gender"],
			Ethnicity:      row["Ethnicity"],
			Age:            row["Age"],
			ZipCode:        row["Zip_code"],
			Insurance:      row["Insurance"],
			ChiefComplaint: row["Chief_complaint"],
		})
	}
	return visits, nil
}

// LoadNotes reads the notes file. The Note_type column is optional; legacy
// exports carry the type on the visit row instead, and those notes load with
// an empty type.
func (a *DatasetAdapter) LoadNotes(ctx context.Context) ([]entities.ClinicalNote, error) {
	rows, err := readAll(a.notesPath)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read notes file", err)
	}

	notes := []entities.ClinicalNote{}
	for _, row := range rows {
		pid, vid, nid := row["Patient_ID"], row["Visit_ID"], row["Note_ID"]
		if pid == "" || vid == "" || nid == "" {
			continue
		}
		notes = append(notes, entities.ClinicalNote{
			PatientID: pid,
			VisitID:   vid,
			NoteID:    nid,
			NoteType:  row["Note_type"],
			Text:      row["Note_text"],
		})
	}
	return notes, nil
}

// LoadCredentials reads the credentials file. The username, password, and
// role columns are required; rows with an unsupported role are skipped with a
// warning rather than failing the whole load.
func (a *DatasetAdapter) LoadCredentials(ctx context.Context) ([]entities.Credential, error) {
	f, err := os.Open(a.credentialsPath)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open credentials file", err)
	}
	defer f.Close()

	rows, header, err := readRows(f)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read credentials file", err)
	}
	for _, required := range []string{"username", "password", "role"} {
		if _, ok := header[required]; !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("credentials file is missing the %q column", required))
		}
	}

	creds := []entities.Credential{}
	for _, row := range rows {
		username, password := row["username"], row["password"]
		if username == "" || password == "" {
			continue
		}
		role, err := entities.ParseRole(row["role"])
		if err != nil {
			log.Warn().Str("username", username).Str("role", row["role"]).
				Msg("skipping credential with unsupported role")
			continue
		}
		creds = append(creds, entities.Credential{
			Username: username,
			Password: password,
			Role:     role,
		})
	}
	return creds, nil
}

// readAll reads a keyed CSV file, returning no rows when the file is absent.
func readAll(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, _, err := readRows(f)
	return rows, err
}

// readRows decodes a CSV stream into one map per row keyed by header name.
// Short rows are tolerated; extra columns are ignored.
func readRows(r io.Reader) ([]map[string]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, map[string]int{}, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[name] = i
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for name, i := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}
