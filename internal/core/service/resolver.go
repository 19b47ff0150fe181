package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// errUnidentified signals that the desired record carried no identifying
// field at all. Whether that is fatal depends on the mode: creation can
// proceed without one, deletion and query cannot.
var errUnidentified = errors.New(errors.CodeUsageError, "no identifier or natural key supplied")

// resolveIdentity locates the existing record the desired record refers to.
// Identifier lookup wins when present and is unambiguous by construction.
// Natural keys are tried in declared priority order with whitespace-trimmed
// exact matching; more than one match is always an error, never a silent
// first pick.
func (e *Engine) resolveIdentity(ctx context.Context, spec *domain.ResourceSpec, desired domain.Record) (domain.Record, error) {
	if idVal, ok := desired[spec.IDField]; ok && idVal != nil {
		records, err := e.gateway.Find(ctx, spec.Prefix, []domain.Filter{
			{Field: spec.IDField, Op: "=", Value: idVal},
		})
		if err != nil {
			return nil, errors.WrapOp(err, errors.CodeRemoteAPIError,
				spec.Prefix+".query", fmt.Sprintf("%s=%v", spec.IDField, idVal),
				"error querying by identifier")
		}
		if len(records) == 0 {
			return nil, nil
		}
		return records[0], nil
	}

	keySupplied := false
	for _, key := range spec.NaturalKeys {
		raw, ok := desired[key]
		if !ok || raw == nil {
			continue
		}
		keySupplied = true
		want := trimString(raw)
		remote := key
		policy := canon.Exact()
		if fs, ok := spec.Fields[key]; ok {
			remote = fs.RemoteName(key)
			policy = fs.Policy
		}
		records, err := e.gateway.Find(ctx, spec.Prefix, []domain.Filter{
			{Field: remote, Op: "=", Value: want},
		})
		if err != nil {
			return nil, errors.WrapOp(err, errors.CodeRemoteAPIError,
				spec.Prefix+".query", fmt.Sprintf("%s=%v", key, raw),
				"error querying by natural key")
		}

		matches := make([]domain.Record, 0, len(records))
		for _, rec := range records {
			equal, err := policy.Equal(trimString(rec[remote]), want)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInternal,
					fmt.Sprintf("comparing natural key %q of %s", key, spec.Kind))
			}
			if equal {
				matches = append(matches, rec)
			}
		}
		if len(matches) > 1 {
			return nil, ambiguityError(spec, key, want, matches)
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
		// Zero matches: fall through to the next declared natural key.
	}

	if keySupplied {
		return nil, nil
	}
	return nil, errUnidentified
}

// trimString strips surrounding whitespace from string values and leaves
// every other type untouched, so numeric keys keep their wire type.
func trimString(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

func ambiguityError(spec *domain.ResourceSpec, key string, value any, matches []domain.Record) error {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, fmt.Sprintf("%v", m[spec.IDField]))
	}
	sort.Strings(ids)
	return errors.Newf(errors.CodeAmbiguousIdentity,
		"%d %s records match %s=%v (ids %s); supply %s to disambiguate",
		len(matches), spec.Kind, key, value, strings.Join(ids, ", "), spec.IDField)
}
