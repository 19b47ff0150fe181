package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/pkg/convert"
)

// buildChangeSet computes the minimal patch converging existing to desired.
// Only fields explicitly present in desired participate; ignore carves fields
// out of update-time diffing without affecting create-time requirements. The
// raw desired value, not its canonical form, lands in the patch.
func buildChangeSet(spec *domain.ResourceSpec, existing, desired domain.Record, ignore map[string]struct{}) (domain.ChangeSet, error) {
	patch := make(domain.ChangeSet)

	for field, desiredVal := range desired {
		if field == spec.IDField || spec.IsMeta(field) {
			continue
		}
		if _, skip := ignore[field]; skip {
			continue
		}
		fs, known := spec.Fields[field]
		if !known {
			return nil, errors.Newf(errors.CodeUsageError,
				"unknown field %q for resource %s", field, spec.Kind)
		}
		if fs.CreateOnly {
			continue
		}

		remote := fs.RemoteName(field)
		existingVal, exists := lookupExisting(fs, existing, remote)

		if fs.Boolean {
			desiredBool, ok := desiredVal.(bool)
			if !ok {
				return nil, errors.Newf(errors.CodeUsageError,
					"desired value for boolean field %q of %s is not a boolean", field, spec.Kind)
			}
			if exists {
				existingBool, err := convert.ToBool(existingVal)
				if err != nil {
					return nil, errors.Newf(errors.CodeTypeMismatch,
						"remote value for boolean field %q of %s is %T, expected bool",
						field, spec.Kind, existingVal)
				}
				if existingBool != desiredBool {
					patch[remote] = desiredVal
				}
				continue
			}
			patch[remote] = desiredVal
			continue
		}

		equal, err := fs.Policy.Equal(existingVal, desiredVal)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal,
				fmt.Sprintf("comparing field %q of %s", field, spec.Kind))
		}
		if !equal {
			patch[remote] = desiredVal
		}
	}

	return patch, nil
}

func lookupExisting(fs domain.FieldSpec, existing domain.Record, remote string) (any, bool) {
	if fs.ExtractExisting != nil {
		return fs.ExtractExisting(existing)
	}
	v, ok := existing[remote]
	return v, ok
}

// renderChangeSet formats a patch for messages, eliding secret values and
// keeping a stable field order.
func renderChangeSet(spec *domain.ResourceSpec, patch domain.ChangeSet) string {
	secretRemote := make(map[string]struct{})
	for field, fs := range spec.Fields {
		if fs.Secret {
			secretRemote[fs.RemoteName(field)] = struct{}{}
		}
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		if _, secret := secretRemote[k]; secret {
			fmt.Fprintf(&b, "%s: ********", k)
		} else {
			fmt.Fprintf(&b, "%s: %v", k, patch[k])
		}
	}
	b.WriteString("}")
	return b.String()
}
