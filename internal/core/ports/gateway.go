package ports

import (
	"context"

	"github.com/nasadm/truenasctl/internal/core/domain"
)

// Gateway is the reconciler's view of the remote middleware API. One
// implementation speaks JSON-RPC to a live TrueNAS host; tests substitute
// scripted fakes.
type Gateway interface {
	domain.Lookup

	// Create invokes <resource>.create with the payload and returns the new
	// record as reported by the middleware.
	Create(ctx context.Context, resource string, payload map[string]any) (domain.Record, error)

	// Update invokes <resource>.update addressed by id with the given patch.
	Update(ctx context.Context, resource string, id any, patch map[string]any) (domain.Record, error)

	// Delete invokes <resource>.delete with resource-specific trailing
	// arguments (force and cascade flags vary per resource).
	Delete(ctx context.Context, resource string, args []any) error

	// Config fetches a singleton resource's configuration record.
	Config(ctx context.Context, resource string) (domain.Record, error)

	// UpdateConfig patches a singleton resource's configuration.
	UpdateConfig(ctx context.Context, resource string, patch map[string]any) (domain.Record, error)

	// Call invokes an arbitrary middleware method; the generic query
	// passthrough uses it directly.
	Call(ctx context.Context, method string, args ...any) (any, error)
}
