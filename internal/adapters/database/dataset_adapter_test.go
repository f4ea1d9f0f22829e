package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

func newMockAdapter(t *testing.T) (*DatasetAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter := NewDatasetAdapter(postgres.NewClientFromDB(db)).(*DatasetAdapter)
	return adapter, mock
}

var visitColumns = []string{
	"patient_id", "visit_id", "visit_time", "department", "race", "gender",
	"ethnicity", "age", "zip_code", "insurance", "chief_complaint",
}

func TestLoadVisits(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT (.+) FROM "visits"`).
		WillReturnRows(sqlmock.NewRows(visitColumns).
			AddRow("P1", "V1", "03/15/2019", "Oncology", "White", "Female",
				"Non-Hispanic", "62", "30309", "Medicare", "Follow-up").
			AddRow("P2", "V2", "08/20/2021", "Pediatrics", "Black", "Male",
				"Non-Hispanic", "11", "02115", "Private", "Checkup"))

	visits, err := adapter.LoadVisits(context.Background())
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, entities.VisitRecord{
		PatientID: "P1", VisitID: "V1", VisitTime: "03/15/2019",
		Department: "Oncology", Race: "White", Gender: "Female",
		Ethnicity: "Non-Hispanic", Age: "62", ZipCode: "30309",
		Insurance: "Medicare", ChiefComplaint: "Follow-up",
	}, visits[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadVisits_QueryFailure(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT (.+) FROM "visits"`).
		WillReturnError(errors.New("connection reset"))

	_, err := adapter.LoadVisits(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestLoadNotes(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT (.+) FROM "visit_notes"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"patient_id", "visit_id", "note_id", "note_type", "note_text"}).
			AddRow("P1", "V1", "N1", "Progress", "stable"))

	notes, err := adapter.LoadNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "stable", notes[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCredentials(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT (.+) FROM "app_credentials"`).
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "role"}).
			AddRow("mona", "mgr-pw", "management").
			AddRow("ghost", "pw", "superuser").
			AddRow("nina", "nurse-pw", "nurse"))

	creds, err := adapter.LoadCredentials(context.Background())
	require.NoError(t, err)
	// The unsupported role is skipped, not fatal.
	require.Len(t, creds, 2)
	assert.Equal(t, entities.RoleManager, creds[0].Role)
	assert.Equal(t, entities.RoleNurse, creds[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCredentials_ScanFailure(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT (.+) FROM "app_credentials"`).
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "role"}).
			AddRow("mona", "mgr-pw", "manager").
			RowError(0, errors.New("read timeout")))

	_, err := adapter.LoadCredentials(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}
