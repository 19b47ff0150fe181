package iscsi

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/internal/resources/helper"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// AuthSpec manages iSCSI authorized access (CHAP) records. The tag is unique
// among auth records and doubles as the natural key. Secrets never appear in
// logs or messages.
func AuthSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:        domain.KindISCSIAuth,
		Prefix:      "iscsi.auth",
		IDField:     "id",
		NaturalKeys: []string{"tag"},
		Fields: map[string]domain.FieldSpec{
			"tag":        {Policy: canon.Exact(), RequiredOnCreate: true},
			"user":       {Policy: canon.Exact(), RequiredOnCreate: true},
			"secret":     {Policy: canon.Exact(), RequiredOnCreate: true, Secret: true},
			"peeruser":   {Policy: canon.Exact()},
			"peersecret": {Policy: canon.Exact(), Secret: true},
		},
		Validate: validateAuthSecrets,
	}
}

func validateAuthSecrets(desired domain.Record, _ bool) error {
	secret := helper.StringValue(desired["secret"])
	if desired.Has("secret") && !chapSecretLength(secret) {
		return errors.New(errors.CodeUsageError, "secret must be 12-16 characters")
	}
	if desired.Has("peersecret") {
		peer := helper.StringValue(desired["peersecret"])
		if !chapSecretLength(peer) {
			return errors.New(errors.CodeUsageError, "peersecret must be 12-16 characters")
		}
		if secret != "" && peer == secret {
			return errors.New(errors.CodeUsageError, "peersecret must not match secret")
		}
	}
	return nil
}

func chapSecretLength(s string) bool {
	return len(s) >= 12 && len(s) <= 16
}
