package iscsi

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/resources/helper"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// TargetSpec manages iSCSI targets. Targets are found by id or by name
// (usually an IQN); group membership compares as an unordered list of
// {portal, initiator, authmethod, auth} dicts.
func TargetSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:        domain.KindISCSITarget,
		Prefix:      "iscsi.target",
		IDField:     "id",
		NaturalKeys: []string{"name"},
		Fields: map[string]domain.FieldSpec{
			"name":   {Policy: canon.Exact(), RequiredOnCreate: true},
			"alias":  {Policy: canon.Exact()},
			"mode":   {Policy: canon.Exact()},
			"groups": {Policy: canon.DeepUnordered()},
		},
		Meta: map[string]struct{}{"force": {}},
		DeleteArgs: func(address any, desired domain.Record) []any {
			force := false
			if v, ok := desired["force"].(bool); ok {
				force = v
			}
			return []any{address, map[string]any{"force": force}}
		},
		Validate: func(desired domain.Record, _ bool) error {
			return helper.OneOf("mode", desired["mode"], "ISCSI", "FC", "BOTH")
		},
	}
}
