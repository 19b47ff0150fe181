package ports

import (
	"context"

	"github.com/nasadm/truenasctl/internal/core/domain"
)

// Request is one reconciliation invocation: converge a single resource
// instance to the desired record under the given mode.
type Request struct {
	Kind           domain.ResourceKind
	Mode           domain.Mode
	Desired        domain.Record
	IgnoreOnUpdate []string
	DryRun         bool
}

type Reconciler interface {
	Reconcile(ctx context.Context, req Request) (domain.Outcome, error)
}
