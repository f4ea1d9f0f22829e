package services

import (
	"context"
	"sort"
	"time"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/repositories"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

type visitKey struct {
	patientID string
	visitID   string
}

// Dataset is the in-memory snapshot of the backing store. It is loaded once at
// startup and read-only for the process lifetime; every query runs against it.
type Dataset struct {
	visits       []entities.VisitRecord
	byPatient    map[string][]entities.VisitRecord
	notesByVisit map[visitKey][]entities.ClinicalNote
	patientIDs   []string
}

// LoadDataset pulls the visit and note datasets through their read interfaces
// and indexes them for querying. Per-patient visit lists are ordered by visit
// date ascending; visits without a parseable date sort last, ties break on
// visit ID so the order is deterministic.
func LoadDataset(ctx context.Context, visits repositories.VisitSource, notes repositories.NoteSource) (*Dataset, error) {
	visitRows, err := visits.LoadVisits(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load visit records", err)
	}
	noteRows, err := notes.LoadNotes(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load clinical notes", err)
	}

	d := &Dataset{
		visits:       visitRows,
		byPatient:    make(map[string][]entities.VisitRecord),
		notesByVisit: make(map[visitKey][]entities.ClinicalNote),
	}

	for _, v := range visitRows {
		d.byPatient[v.PatientID] = append(d.byPatient[v.PatientID], v)
	}
	for pid, list := range d.byPatient {
		sortVisits(list)
		d.byPatient[pid] = list
		d.patientIDs = append(d.patientIDs, pid)
	}
	sort.Strings(d.patientIDs)

	for _, n := range noteRows {
		k := visitKey{patientID: n.PatientID, visitID: n.VisitID}
		d.notesByVisit[k] = append(d.notesByVisit[k], n)
	}

	return d, nil
}

func sortVisits(list []entities.VisitRecord) {
	sort.SliceStable(list, func(i, j int) bool {
		di, iOK := list[i].VisitDate()
		dj, jOK := list[j].VisitDate()
		switch {
		case iOK && jOK:
			if !di.Equal(dj) {
				return di.Before(dj)
			}
			return list[i].VisitID < list[j].VisitID
		case iOK:
			return true
		case jOK:
			return false
		default:
			return list[i].VisitID < list[j].VisitID
		}
	})
}

// Empty reports whether the store holds no visit records at all.
func (d *Dataset) Empty() bool {
	return len(d.visits) == 0
}

// Visits returns every loaded visit record. Callers must not mutate the
// returned slice.
func (d *Dataset) Visits() []entities.VisitRecord {
	return d.visits
}

// PatientVisits returns the patient's visits ordered by visit date ascending.
func (d *Dataset) PatientVisits(patientID string) []entities.VisitRecord {
	return d.byPatient[patientID]
}

// NotesOn returns every note attached to one of the patient's visits on the
// given date, in visit order. The result is empty, never nil, when nothing
// matches.
func (d *Dataset) NotesOn(patientID string, date time.Time) []entities.ClinicalNote {
	notes := []entities.ClinicalNote{}
	for _, v := range d.byPatient[patientID] {
		visitDate, ok := v.VisitDate()
		if !ok || !visitDate.Equal(date) {
			continue
		}
		notes = append(notes, d.notesByVisit[visitKey{patientID: patientID, visitID: v.VisitID}]...)
	}
	return notes
}

// PatientIDs returns all patient identifiers, sorted.
func (d *Dataset) PatientIDs() []string {
	ids := make([]string, len(d.patientIDs))
	copy(ids, d.patientIDs)
	return ids
}
