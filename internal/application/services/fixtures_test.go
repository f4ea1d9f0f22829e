package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/policy"
	"github.com/clinvue/visitinsights/internal/infrastructure/observability"
)

// staticSource serves fixed slices through the dataset source interfaces.
type staticSource struct {
	visits      []entities.VisitRecord
	notes       []entities.ClinicalNote
	credentials []entities.Credential

	visitsErr      error
	notesErr       error
	credentialsErr error
}

func (s *staticSource) LoadVisits(ctx context.Context) ([]entities.VisitRecord, error) {
	return s.visits, s.visitsErr
}

func (s *staticSource) LoadNotes(ctx context.Context) ([]entities.ClinicalNote, error) {
	return s.notes, s.notesErr
}

func (s *staticSource) LoadCredentials(ctx context.Context) ([]entities.Credential, error) {
	return s.credentials, s.credentialsErr
}

// memorySink records appended audit events in order.
type memorySink struct {
	mu     sync.Mutex
	events []entities.AuditEvent
	err    error
}

func (s *memorySink) Append(ctx context.Context, event entities.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *memorySink) recorded() []entities.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

var errSinkDown = errors.New("disk full")

func testMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	m, err := observability.InitMetrics()
	require.NoError(t, err)
	return m
}

// testVisits spans two patients, three departments, and one unparseable date.
func testVisits() []entities.VisitRecord {
	return []entities.VisitRecord{
		{
			PatientID: "P1", VisitID: "V3", VisitTime: "07/04/2021",
			Department: "Cardiology", Race: "White", Gender: "Female",
			Ethnicity: "Non-Hispanic", Age: "64", ZipCode: "30309",
			Insurance: "Medicare", ChiefComplaint: "Chest pain",
		},
		{
			PatientID: "P1", VisitID: "V1", VisitTime: "03/15/2019",
			Department: "Oncology", Race: "White", Gender: "Female",
			Ethnicity: "Non-Hispanic", Age: "62", ZipCode: "30309",
			Insurance: "Medicare", ChiefComplaint: "Follow-up",
		},
		{
			PatientID: "P1", VisitID: "V2", VisitTime: "not-a-date",
			Department: "Oncology", Race: "White", Gender: "Female",
			Ethnicity: "Non-Hispanic", Age: "63", ZipCode: "30309",
			Insurance: "Medicare", ChiefComplaint: "Imaging",
		},
		{
			PatientID: "P2", VisitID: "V4", VisitTime: "03/15/2019",
			Department: "Pediatrics", Race: "Black", Gender: "Male",
			Ethnicity: "Non-Hispanic", Age: "9", ZipCode: "02115",
			Insurance: "Private", ChiefComplaint: "Fever",
		},
		{
			PatientID: "P2", VisitID: "V5", VisitTime: "08/20/2021",
			Department: "Pediatrics", Race: "Black", Gender: "Male",
			Ethnicity: "Non-Hispanic", Age: "11", ZipCode: "02115",
			Insurance: "Private", ChiefComplaint: "Checkup",
		},
	}
}

func testNotes() []entities.ClinicalNote {
	return []entities.ClinicalNote{
		{PatientID: "P1", VisitID: "V1", NoteID: "N1", NoteType: "Progress", Text: "stable"},
		{PatientID: "P1", VisitID: "V1", NoteID: "N2", NoteType: "Discharge", Text: "home"},
		{PatientID: "P2", VisitID: "V4", NoteID: "N3", NoteType: "Progress", Text: "fever resolving"},
	}
}

func testCredentials() []entities.Credential {
	return []entities.Credential{
		{Username: "nina", Password: "nurse-pw", Role: entities.RoleNurse},
		{Username: "carl", Password: "clin-pw", Role: entities.RoleClinician},
		{Username: "mona", Password: "mgr-pw", Role: entities.RoleManager},
		{Username: "ada", Password: "admin-pw", Role: entities.RoleAdmin},
	}
}

// harness wires the full service graph over the fixture data and an
// in-memory audit sink.
type harness struct {
	sink    *memorySink
	login   *LoginService
	records *RecordService
	trends  *TrendService
}

func newHarness(t *testing.T, visits []entities.VisitRecord, notes []entities.ClinicalNote) *harness {
	t.Helper()
	ctx := context.Background()

	source := &staticSource{visits: visits, notes: notes, credentials: testCredentials()}
	data, err := LoadDataset(ctx, source, source)
	require.NoError(t, err)
	auth, err := NewAuthService(ctx, source)
	require.NoError(t, err)

	metrics := testMetrics(t)
	sink := &memorySink{}
	audit := NewAuditService(sink, metrics)
	sessions := NewSessionService()
	fields := entities.DefaultFieldMap()
	pol := policy.Default(fields)

	return &harness{
		sink:    sink,
		login:   NewLoginService(auth, sessions, audit, metrics),
		records: NewRecordService(data, fields, pol, sessions, audit, metrics),
		trends:  NewTrendService(data, pol, sessions, audit, metrics),
	}
}

func (h *harness) loginAs(t *testing.T, username, password string) entities.Session {
	t.Helper()
	sess, err := h.login.Login(context.Background(), username, password)
	require.NoError(t, err)
	return sess
}
