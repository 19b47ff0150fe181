package iscsi

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// TargetExtentSpec manages the target-to-extent associations that expose an
// extent as a LUN. Associations have no natural key.
func TargetExtentSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:    domain.KindISCSITargetExtent,
		Prefix:  "iscsi.targetextent",
		IDField: "id",
		Fields: map[string]domain.FieldSpec{
			"target": {Policy: canon.Exact(), RequiredOnCreate: true},
			"extent": {Policy: canon.Exact(), RequiredOnCreate: true},
			"lunid":  {Policy: canon.Exact()},
		},
		Meta: map[string]struct{}{"force": {}},
		DeleteArgs: func(address any, desired domain.Record) []any {
			force, _ := desired["force"].(bool)
			return []any{address, force}
		},
	}
}
