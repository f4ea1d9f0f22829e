package repositories

import (
	"context"
	"time"

	"github.com/clinvue/visitinsights/internal/domain/entities"
)

// VisitFilter narrows a record scan. Zero values mean "no constraint"; the
// date range is inclusive on both ends.
type VisitFilter struct {
	Department string
	From       *time.Time
	To         *time.Time
}

// VisitSource loads the patient-visit dataset. Implementations are read-only:
// the dataset is fetched once at startup and treated as static afterwards.
type VisitSource interface {
	LoadVisits(ctx context.Context) ([]entities.VisitRecord, error)
}

// NoteSource loads the clinical notes dataset.
type NoteSource interface {
	LoadNotes(ctx context.Context) ([]entities.ClinicalNote, error)
}

// CredentialSource loads the login credentials dataset.
type CredentialSource interface {
	LoadCredentials(ctx context.Context) ([]entities.Credential, error)
}

// DatasetSource bundles the three read interfaces a backing store must serve.
type DatasetSource interface {
	VisitSource
	NoteSource
	CredentialSource
}
