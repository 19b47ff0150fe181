// Package iscsi describes the iSCSI resource family: portals, targets,
// extents, initiator groups, authorized access records, target/extent
// associations, and the global service configuration.
package iscsi

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/resources/helper"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// PortalSpec manages iSCSI portals. Portals have no natural key; without an
// id a present-mode run creates a new portal.
func PortalSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:    domain.KindISCSIPortal,
		Prefix:  "iscsi.portal",
		IDField: "id",
		Fields: map[string]domain.FieldSpec{
			"comment":              {Policy: canon.Exact()},
			"discovery_authmethod": {Policy: canon.Exact()},
			"discovery_authgroup":  {Policy: canon.Exact()},
			"listen":               {Policy: canon.DeepUnordered()},
		},
		CreateDefaults: domain.Record{
			"listen": []any{map[string]any{"ip": "0.0.0.0", "port": 3260}},
		},
		Validate: func(desired domain.Record, _ bool) error {
			return helper.OneOf("discovery_authmethod", desired["discovery_authmethod"],
				"NONE", "CHAP", "CHAP_MUTUAL")
		},
	}
}
