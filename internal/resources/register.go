// Package resources wires every supported resource description into the
// reconciliation engine's registry.
package resources

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/core/service"
	"github.com/nasadm/truenasctl/internal/resources/account"
	"github.com/nasadm/truenasctl/internal/resources/iscsi"
	"github.com/nasadm/truenasctl/internal/resources/pool"
	"github.com/nasadm/truenasctl/internal/resources/sharing"
	"github.com/nasadm/truenasctl/internal/resources/system"
)

// All returns the full resource catalogue.
func All() []*domain.ResourceSpec {
	return []*domain.ResourceSpec{
		iscsi.PortalSpec(),
		iscsi.TargetSpec(),
		iscsi.ExtentSpec(),
		iscsi.InitiatorSpec(),
		iscsi.AuthSpec(),
		iscsi.TargetExtentSpec(),
		iscsi.GlobalSpec(),
		sharing.NFSSpec(),
		account.UserSpec(),
		system.InitScriptSpec(),
		pool.DatasetSpec(),
	}
}

// RegisterAll populates the registry with every supported resource kind.
func RegisterAll(reg *service.SpecRegistry) error {
	for _, spec := range All() {
		if err := reg.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
