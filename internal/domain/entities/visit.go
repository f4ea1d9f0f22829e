package entities

import (
	"time"
)

// DateLayout is the single date format accepted from users and matched against
// visit records.
const DateLayout = "01/02/2006"

// VisitRecord represents one patient visit as loaded from the backing store.
// Records are immutable after load.
type VisitRecord struct {
	PatientID      string `json:"patient_id" db:"patient_id"`
	VisitID        string `json:"visit_id" db:"visit_id"`
	VisitTime      string `json:"visit_time" db:"visit_time"` // MM/DD/YYYY as sourced
	Department     string `json:"department" db:"department"`
	Race           string `json:"race" db:"race"`
	Gender         string `json:"gender" db:"gender"`
	Ethnicity      string `json:"ethnicity" db:"ethnicity"`
	Age            string `json:"age" db:"age"`
	ZipCode        string `json:"zip_code" db:"zip_code"`
	Insurance      string `json:"insurance" db:"insurance"`
	ChiefComplaint string `json:"chief_complaint" db:"chief_complaint"`
}

// VisitDate parses the record's visit timestamp. The bool is false when the
// timestamp is absent or not in MM/DD/YYYY form; such records are still
// queryable by field but are skipped by date-keyed operations.
func (v *VisitRecord) VisitDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, v.VisitTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ClinicalNote represents one free-text note attached to a visit.
type ClinicalNote struct {
	PatientID string `json:"patient_id" db:"patient_id"`
	VisitID   string `json:"visit_id" db:"visit_id"`
	NoteID    string `json:"note_id" db:"note_id"`
	NoteType  string `json:"note_type" db:"note_type"`
	Text      string `json:"note_text" db:"note_text"`
}
