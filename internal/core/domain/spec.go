package domain

import (
	"context"

	"github.com/nasadm/truenasctl/pkg/canon"
)

// Filter is one conjunctive term of a middleware query expression, rendered
// on the wire as a [field, operator, value] triple.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Lookup is the narrow read-only view of the gateway that spec hooks may use
// to resolve references (for example a group name to its numeric id).
type Lookup interface {
	Find(ctx context.Context, resource string, filters []Filter) ([]Record, error)
}

// FieldSpec describes one managed field of a resource type.
type FieldSpec struct {
	// Policy selects the normalization applied before comparison.
	Policy canon.Policy

	// Remote renames the field on the wire; empty means the same name.
	Remote string

	// RequiredOnCreate fields must be present in the desired record when the
	// reconciliation has to create the resource.
	RequiredOnCreate bool

	// CreateOnly fields are sent on create but never diffed into an update.
	CreateOnly bool

	// Secret fields are elided from messages and logs.
	Secret bool

	// Boolean fields require the existing value to be a strict boolean (or a
	// boolean-spelled rawvalue string); anything else is a remote type error.
	Boolean bool

	// ExtractExisting, when set, pulls the comparable value out of the
	// existing record instead of a plain field access (ZFS datasets report
	// properties as {rawvalue: ...} envelopes).
	ExtractExisting func(existing Record) (any, bool)
}

// RemoteName returns the wire-level field name.
func (f FieldSpec) RemoteName(local string) string {
	if f.Remote != "" {
		return f.Remote
	}
	return local
}

// ResourceSpec is the static description of a resource type: identity
// strategy, field table, and the per-resource hooks the originals hand-wrote.
// Specs are built once at startup and never mutated.
type ResourceSpec struct {
	Kind   ResourceKind
	Prefix string // middleware method prefix, e.g. "iscsi.portal"

	// IDField is the integer identifier used for lookup; never a diff target.
	IDField string

	// NaturalKeys are alternate unique fields, in lookup priority order.
	NaturalKeys []string

	// AddressField names the existing-record field whose value addresses
	// update and delete calls. Defaults to IDField; datasets address by name.
	AddressField string

	// Singleton resources have exactly one remote instance reached through
	// config/update methods, with no identity resolution or create/delete.
	Singleton bool

	Fields map[string]FieldSpec

	// Meta fields ride along in the desired record for hooks and delete
	// argument builders but never participate in diffing (force, remove,
	// delete_group and similar).
	Meta map[string]struct{}

	// CreateDefaults are merged into the create payload for fields the
	// caller left unset.
	CreateDefaults Record

	// DeleteArgs builds the positional argument list for the delete call.
	// Nil means [address].
	DeleteArgs func(address any, desired Record) []any

	// Fold rewrites user-facing fields into their remote shape before
	// validation and diffing (initscript source folding, enum upcasing).
	Fold func(desired Record) (Record, error)

	// Resolve replaces reference-typed values with canonical ids using
	// remote lookups, keeping the diff engine type-uniform.
	Resolve func(ctx context.Context, lk Lookup, desired Record) (Record, error)

	// Validate enforces cross-field rules (secret lengths, mutual
	// exclusivity). creating distinguishes create-time from update-time.
	Validate func(desired Record, creating bool) error
}

// Address returns the field whose value addresses updates and deletes.
func (s *ResourceSpec) Address() string {
	if s.AddressField != "" {
		return s.AddressField
	}
	return s.IDField
}

// IsMeta reports whether the field is an option carrier rather than managed
// state.
func (s *ResourceSpec) IsMeta(field string) bool {
	_, ok := s.Meta[field]
	return ok
}
