package domain

// Record is a dynamic field map. A DesiredRecord carries only fields the
// caller explicitly set: a key that is absent means "unmanaged", which is
// distinct from a key explicitly set to nil. An ExistingRecord is a read-only
// snapshot of what the middleware returned from a query.
type Record map[string]any

// Has reports whether the field was explicitly provided, even as nil.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a shallow copy; nested containers are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ChangeSet is the minimal field-level patch required to converge existing
// state to desired state. An empty ChangeSet is a valid outcome (no-op).
type ChangeSet map[string]any

// Mode selects what the caller wants done with the resource.
type Mode string

const (
	ModePresent Mode = "present"
	ModeAbsent  Mode = "absent"
	ModeQuery   Mode = "query"
)

func (m Mode) Valid() bool {
	switch m {
	case ModePresent, ModeAbsent, ModeQuery:
		return true
	}
	return false
}
