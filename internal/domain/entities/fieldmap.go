package entities

import (
	"fmt"
	"sort"
)

// FieldAccessor extracts one logical field value from a visit record.
type FieldAccessor func(*VisitRecord) string

// FieldMap maps logical field names to their accessors on VisitRecord. It is
// built once at startup and read-only afterwards; the query layer resolves
// field names through it and the authorization policy keys field operations by
// the same names, so a field exposed anywhere has exactly one entry here.
type FieldMap struct {
	accessors map[string]FieldAccessor
}

// NewFieldMap returns an empty registry.
func NewFieldMap() *FieldMap {
	return &FieldMap{accessors: make(map[string]FieldAccessor)}
}

// Register adds a field. Registering the same name twice is a programming
// error and is rejected.
func (m *FieldMap) Register(name string, accessor FieldAccessor) error {
	if _, exists := m.accessors[name]; exists {
		return fmt.Errorf("field %q already registered", name)
	}
	m.accessors[name] = accessor
	return nil
}

// Resolve returns the accessor for a logical field name.
func (m *FieldMap) Resolve(name string) (FieldAccessor, bool) {
	a, ok := m.accessors[name]
	return a, ok
}

// Names returns all registered field names, sorted.
func (m *FieldMap) Names() []string {
	names := make([]string, 0, len(m.accessors))
	for name := range m.accessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultFieldMap registers every field the record store exposes.
func DefaultFieldMap() *FieldMap {
	m := NewFieldMap()
	fields := map[string]FieldAccessor{
		"visit_time":      func(v *VisitRecord) string { return v.VisitTime },
		"department":      func(v *VisitRecord) string { return v.Department },
		"race":            func(v *VisitRecord) string { return v.Race },
		"gender":          func(v *VisitRecord) string { return v.Gender },
		"ethnicity":       func(v *VisitRecord) string { return v.Ethnicity },
		"age":             func(v *VisitRecord) string { return v.Age },
		"zip_code":        func(v *VisitRecord) string { return v.ZipCode },
		"insurance":       func(v *VisitRecord) string { return v.Insurance },
		"chief_complaint": func(v *VisitRecord) string { return v.ChiefComplaint },
	}
	for name, accessor := range fields {
		// Names are unique by construction of the map literal.
		_ = m.Register(name, accessor)
	}
	return m
}
