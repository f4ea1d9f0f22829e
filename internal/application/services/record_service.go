package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/policy"
	"github.com/clinvue/visitinsights/internal/domain/repositories"
	"github.com/clinvue/visitinsights/internal/infrastructure/observability"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

// RecordService answers field-projection and note-lookup queries over the
// loaded dataset. Every public method requires an active session, is gated by
// the authorization policy, and journals its outcome.
//
// When a query succeeds but the audit append fails, the method returns the
// query result together with the audit error; callers may still use the data.
type RecordService struct {
	gate
	data   *Dataset
	fields *entities.FieldMap
}

// NewRecordService wires the record store.
func NewRecordService(data *Dataset, fields *entities.FieldMap, pol *policy.Policy, sessions *SessionService, audit *AuditService, metrics *observability.Metrics) *RecordService {
	return &RecordService{
		gate:   gate{sessions: sessions, policy: pol, audit: audit, metrics: metrics},
		data:   data,
		fields: fields,
	}
}

// GetField returns the named field's value from every visit of the patient,
// ordered by visit date ascending. A patient with no visits yields an empty
// slice, which is a normal empty result, not an error. Field names with no
// registered mapping fail before the policy is consulted: an unknown field is
// a field error, a known-but-restricted field is a permission error.
func (s *RecordService) GetField(ctx context.Context, patientID, field string) ([]string, error) {
	if _, err := s.sessions.Current(); err != nil {
		return nil, err
	}
	accessor, ok := s.fields.Resolve(field)
	if !ok {
		return nil, apperrors.NewUnknownFieldError(field)
	}

	operation := policy.FieldOp(field)
	sess, err := s.authorize(ctx, operation)
	if err != nil {
		return nil, err
	}

	values := []string{}
	for _, v := range s.data.PatientVisits(patientID) {
		values = append(values, accessor(&v))
	}

	if auditErr := s.recordSuccess(ctx, sess, operation,
		fmt.Sprintf("%s patient=%s", operation, patientID)); auditErr != nil {
		return values, auditErr
	}
	return values, nil
}

// GetNotes returns every clinical note attached to the patient's visits on
// the given date. The date must be MM/DD/YYYY; anything else is an invalid
// date error. No matching notes is an empty slice, not an error.
func (s *RecordService) GetNotes(ctx context.Context, patientID, dateStr string) ([]entities.ClinicalNote, error) {
	sess, err := s.authorize(ctx, policy.OpViewNotes)
	if err != nil {
		return nil, err
	}

	date, err := parseUserDate(dateStr)
	if err != nil {
		return nil, err
	}

	notes := s.data.NotesOn(patientID, date)

	if auditErr := s.recordSuccess(ctx, sess, policy.OpViewNotes,
		fmt.Sprintf("%s patient=%s date=%s", policy.OpViewNotes, patientID, dateStr)); auditErr != nil {
		return notes, auditErr
	}
	return notes, nil
}

// ListRecords returns the visits matching the filter. Each call is a fresh
// scan over the static dataset, so repeated calls with the same filter yield
// identical sequences. Records whose visit timestamp cannot be parsed are
// excluded only when a date bound is set.
func (s *RecordService) ListRecords(ctx context.Context, filter repositories.VisitFilter) ([]entities.VisitRecord, error) {
	sess, err := s.authorize(ctx, policy.OpListRecords)
	if err != nil {
		return nil, err
	}

	matched := []entities.VisitRecord{}
	for _, v := range s.data.Visits() {
		if filter.Department != "" && !strings.EqualFold(filter.Department, v.Department) {
			continue
		}
		if filter.From != nil || filter.To != nil {
			date, ok := v.VisitDate()
			if !ok {
				continue
			}
			if filter.From != nil && date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && date.After(*filter.To) {
				continue
			}
		}
		matched = append(matched, v)
	}

	if auditErr := s.recordSuccess(ctx, sess, policy.OpListRecords, policy.OpListRecords); auditErr != nil {
		return matched, auditErr
	}
	return matched, nil
}

// ListPatients returns all patient IDs, sorted.
func (s *RecordService) ListPatients(ctx context.Context) ([]string, error) {
	sess, err := s.authorize(ctx, policy.OpListPatients)
	if err != nil {
		return nil, err
	}

	ids := s.data.PatientIDs()

	if auditErr := s.recordSuccess(ctx, sess, policy.OpListPatients, policy.OpListPatients); auditErr != nil {
		return ids, auditErr
	}
	return ids, nil
}

// CountVisitsOnDay counts visits across all patients on one MM/DD/YYYY date.
func (s *RecordService) CountVisitsOnDay(ctx context.Context, dateStr string) (int, error) {
	sess, err := s.authorize(ctx, policy.OpCountVisits)
	if err != nil {
		return 0, err
	}

	date, err := parseUserDate(dateStr)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, v := range s.data.Visits() {
		if visitDate, ok := v.VisitDate(); ok && visitDate.Equal(date) {
			count++
		}
	}

	if auditErr := s.recordSuccess(ctx, sess, policy.OpCountVisits,
		fmt.Sprintf("%s date=%s", policy.OpCountVisits, dateStr)); auditErr != nil {
		return count, auditErr
	}
	return count, nil
}

// parseUserDate parses user-supplied MM/DD/YYYY input.
func parseUserDate(s string) (time.Time, error) {
	t, err := time.Parse(entities.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperrors.NewInvalidDateError(s)
	}
	return t, nil
}
