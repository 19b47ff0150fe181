package iscsi

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// InitiatorSpec manages iSCSI initiator groups. Both list fields compare as
// sets; an empty list means "allow all". Initiator groups have no natural
// key, so updates and deletes need the id.
func InitiatorSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:    domain.KindISCSIInitiator,
		Prefix:  "iscsi.initiator",
		IDField: "id",
		Fields: map[string]domain.FieldSpec{
			"initiators":   {Policy: canon.Set()},
			"auth_network": {Policy: canon.Set()},
			"comment":      {Policy: canon.Exact()},
		},
	}
}
