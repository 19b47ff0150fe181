package domain

import (
	"fmt"

	"github.com/nasadm/truenasctl/pkg/convert"
)

// Ref is a tagged reference to another record, expressible either by numeric
// id or by name. Specs resolve refs to canonical ids before diffing so the
// diff engine only ever sees one shape.
type Ref struct {
	ID   int64
	Name string
}

func RefByID(id int64) Ref { return Ref{ID: id} }

func RefByName(name string) Ref { return Ref{Name: name} }

// ByName reports whether the reference still needs a name lookup.
func (r Ref) ByName() bool {
	return r.Name != ""
}

func (r Ref) String() string {
	if r.ByName() {
		return r.Name
	}
	return fmt.Sprintf("%d", r.ID)
}

// ParseRef accepts the loose value shapes a plan document can carry: an
// integer id, a numeric string, or a name.
func ParseRef(v any) (Ref, error) {
	switch t := v.(type) {
	case Ref:
		return t, nil
	case string:
		return RefByName(t), nil
	}
	id, err := convert.ToInt64(v)
	if err != nil {
		return Ref{}, fmt.Errorf("reference must be an integer id or a name, got %T", v)
	}
	return RefByID(id), nil
}
