package policy

import (
	"github.com/clinvue/visitinsights/internal/domain/entities"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

// Operation names gated by the policy. Field reads are keyed per field so a
// single field can be restricted independently of the rest.
const (
	OpViewNotes       = "view_notes"
	OpListRecords     = "list_records"
	OpListPatients    = "list_patients"
	OpCountVisits     = "count_visits"
	OpAggregateTrends = "aggregate_trends"

	fieldOpPrefix = "get_field:"
)

// FieldOp returns the operation name gating reads of one logical field.
func FieldOp(field string) string {
	return fieldOpPrefix + field
}

// Policy is the single source of truth for what each role may do. It is a
// static table: a per-operation minimum role (the default ladder) plus
// explicit per-operation role sets that always override the ladder. An
// operation absent from both tables is denied.
type Policy struct {
	minRole  map[string]entities.Role
	explicit map[string]map[entities.Role]bool
}

// New returns an empty policy that denies everything.
func New() *Policy {
	return &Policy{
		minRole:  make(map[string]entities.Role),
		explicit: make(map[string]map[entities.Role]bool),
	}
}

// AllowFrom grants an operation to every role at or above min.
func (p *Policy) AllowFrom(operation string, min entities.Role) {
	p.minRole[operation] = min
}

// AllowOnly grants an operation to exactly the listed roles, overriding any
// ladder entry for the same operation.
func (p *Policy) AllowOnly(operation string, roles ...entities.Role) {
	set := make(map[entities.Role]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	p.explicit[operation] = set
}

// Can reports whether role may perform operation. Pure and deterministic.
func (p *Policy) Can(role entities.Role, operation string) bool {
	if set, ok := p.explicit[operation]; ok {
		return set[role]
	}
	if min, ok := p.minRole[operation]; ok {
		return role.AtLeast(min)
	}
	return false
}

// Authorize fails with a permission error when Can is false. Core entry
// points call it before doing any work, so a denied call has no partial
// side effects.
func (p *Policy) Authorize(role entities.Role, operation string) error {
	if !p.Can(role, operation) {
		return apperrors.NewPermissionError(operation, role.String())
	}
	return nil
}

// Default builds the shipped policy over the registered fields:
//
//   - every field read is open from nurse up, except insurance and zip code
//     which only managers and admins may read
//   - note viewing, record listing, patient listing and daily counts are open
//     from nurse up
//   - trend aggregation is manager and up
func Default(fields *entities.FieldMap) *Policy {
	p := New()
	for _, name := range fields.Names() {
		p.AllowFrom(FieldOp(name), entities.RoleNurse)
	}
	p.AllowOnly(FieldOp("insurance"), entities.RoleManager, entities.RoleAdmin)
	p.AllowOnly(FieldOp("zip_code"), entities.RoleManager, entities.RoleAdmin)

	p.AllowFrom(OpViewNotes, entities.RoleNurse)
	p.AllowFrom(OpListRecords, entities.RoleNurse)
	p.AllowFrom(OpListPatients, entities.RoleNurse)
	p.AllowFrom(OpCountVisits, entities.RoleNurse)
	p.AllowFrom(OpAggregateTrends, entities.RoleManager)
	return p
}
