// Package pool describes ZFS pool resources: datasets and zvols.
package pool

import (
	"strings"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/internal/resources/helper"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// DatasetSpec manages ZFS datasets and volumes. Datasets are addressed by
// their full name rather than a numeric id, and the middleware reports each
// property as a {rawvalue, value, source} envelope; comparisons unwrap the
// rawvalue and fold case so "LZ4" and "lz4" do not read as drift.
func DatasetSpec() *domain.ResourceSpec {
	fields := map[string]domain.FieldSpec{
		"name":             {Policy: canon.Exact(), RequiredOnCreate: true},
		"type":             {Policy: canon.Exact(), CreateOnly: true},
		"create_ancestors": {Policy: canon.Exact(), CreateOnly: true},
		"volblocksize":     {Policy: canon.Exact(), CreateOnly: true},

		"volsize": {Policy: canon.FoldCase(), ExtractExisting: rawValue("volsize")},
		"sparse":  {Policy: canon.Exact(), Boolean: true, ExtractExisting: rawValue("sparse")},

		// force_size is an apply option the middleware wants repeated on
		// every sizing call, so it never reads as converged.
		"force_size": {Policy: canon.Exact(), Boolean: true, ExtractExisting: alwaysApply},

		"user_properties":        {Policy: canon.DeepUnordered(), ExtractExisting: alwaysApply},
		"user_properties_update": {Policy: canon.DeepUnordered(), ExtractExisting: alwaysApply},
	}
	for _, prop := range datasetProperties {
		fields[prop] = domain.FieldSpec{Policy: canon.FoldCase(), ExtractExisting: rawValue(prop)}
	}

	return &domain.ResourceSpec{
		Kind:         domain.KindDataset,
		Prefix:       "pool.dataset",
		IDField:      "id",
		NaturalKeys:  []string{"name"},
		AddressField: "name",
		Fields:       fields,
		CreateDefaults: domain.Record{
			"type": "FILESYSTEM",
		},
		DeleteArgs: func(address any, _ domain.Record) []any {
			return []any{address, map[string]any{"recursive": true}}
		},
		Fold:     foldUserPropertiesUpdate,
		Validate: validateDataset,
	}
}

// datasetProperties are the ZFS properties updatable on either dataset type,
// all reported through rawvalue envelopes.
var datasetProperties = []string{
	"comments",
	"sync",
	"snapdev",
	"compression",
	"atime",
	"exec",
	"managedby",
	"quota",
	"quota_warning",
	"quota_critical",
	"refquota",
	"refquota_warning",
	"refquota_critical",
	"reservation",
	"refreservation",
	"special_small_block_size",
	"copies",
	"snapdir",
	"deduplication",
	"checksum",
	"readonly",
	"recordsize",
	"aclmode",
	"acltype",
	"xattr",
}

// rawValue unwraps the {rawvalue: ...} property envelope, trimming the
// whitespace some middleware versions leave on numeric rawvalues.
func rawValue(prop string) func(domain.Record) (any, bool) {
	return func(existing domain.Record) (any, bool) {
		env, ok := existing[prop].(map[string]any)
		if !ok {
			return nil, false
		}
		rv, ok := env["rawvalue"]
		if !ok || rv == nil {
			return nil, false
		}
		if s, isStr := rv.(string); isStr {
			return strings.TrimSpace(s), true
		}
		return rv, true
	}
}

// alwaysApply makes a field patch whenever the caller supplies it.
func alwaysApply(domain.Record) (any, bool) {
	return nil, false
}

// foldUserPropertiesUpdate normalizes user_properties_update entries: a
// remove=true entry drops any stale value, otherwise the value is kept.
func foldUserPropertiesUpdate(desired domain.Record) (domain.Record, error) {
	raw, ok := desired["user_properties_update"]
	if !ok || raw == nil {
		return desired, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, errors.New(errors.CodeUsageError,
			"user_properties_update must be a list of {key, value, remove} entries")
	}
	folded := make([]any, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, errors.New(errors.CodeUsageError,
				"user_properties_update entries must be maps")
		}
		entry := map[string]any{"key": m["key"]}
		if rm, _ := m["remove"].(bool); rm {
			entry["remove"] = true
		} else if v, ok := m["value"]; ok && v != nil {
			entry["value"] = v
		}
		folded = append(folded, entry)
	}
	desired["user_properties_update"] = folded
	return desired, nil
}

func validateDataset(desired domain.Record, creating bool) error {
	if err := helper.OneOf("type", desired["type"], "FILESYSTEM", "VOLUME"); err != nil {
		return err
	}
	if err := helper.OneOf("volblocksize", desired["volblocksize"],
		"512", "512B", "1K", "2K", "4K", "8K", "16K", "32K", "64K", "128K"); err != nil {
		return err
	}
	if creating {
		if t, _ := desired["type"].(string); t == "VOLUME" && !desired.Has("volsize") {
			return errors.New(errors.CodeUsageError, "volsize is required when creating a volume")
		}
		if desired.Has("user_properties_update") {
			return errors.New(errors.CodeUsageError,
				"user_properties_update only applies to an existing dataset")
		}
	}
	return nil
}
