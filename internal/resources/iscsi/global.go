package iscsi

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// GlobalSpec manages the service-wide iSCSI configuration, a singleton
// reached through iscsi.global.config and iscsi.global.update.
func GlobalSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:      domain.KindISCSIGlobal,
		Prefix:    "iscsi.global",
		Singleton: true,
		Fields: map[string]domain.FieldSpec{
			"basename":             {Policy: canon.Exact()},
			"isns_servers":         {Policy: canon.Exact()},
			"pool_avail_threshold": {Policy: canon.Exact()},
			"alua":                 {Policy: canon.Exact(), Boolean: true},
		},
	}
}
