package plan

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/core/ports"
	"github.com/nasadm/truenasctl/internal/errors"
)

// Runner applies plan documents with bounded concurrency. Entries are
// independent reconciliations; one entry failing does not stop the others,
// it becomes a failed outcome in the report.
type Runner struct {
	engine      ports.Reconciler
	logger      ports.Logger
	concurrency int
}

func NewRunner(engine ports.Reconciler, logger ports.Logger, concurrency int) (*Runner, error) {
	if engine == nil {
		return nil, errors.New(errors.CodeInternal, "reconciler cannot be nil")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeInternal, "logger cannot be nil")
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{engine: engine, logger: logger, concurrency: concurrency}, nil
}

// Apply reconciles every entry and returns one outcome per entry, in
// document order.
func (r *Runner) Apply(ctx context.Context, doc *Document, dryRun bool) ([]domain.Outcome, error) {
	if doc == nil || len(doc.Resources) == 0 {
		return nil, errors.New(errors.CodeUsageError, "plan document has no resources")
	}

	outcomes := make([]domain.Outcome, len(doc.Resources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range doc.Resources {
		i := i
		entry := &doc.Resources[i]
		g.Go(func() error {
			out, err := r.engine.Reconcile(gctx, entry.Request(dryRun))
			if err != nil {
				r.logger.Errorf(gctx, err, "plan entry %s failed", entry.Label())
				outcomes[i] = failedOutcome(entry, err)
				return nil
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func failedOutcome(entry *Entry, err error) domain.Outcome {
	msg := err.Error()
	if userMsg, suggestion, ok := errors.GetUserFacingMessage(err); ok {
		msg = userMsg
		if suggestion != "" {
			msg = fmt.Sprintf("%s (%s)", userMsg, suggestion)
		}
	}
	return domain.Outcome{
		Kind:    domain.ResourceKind(entry.Kind),
		Action:  domain.ActionFailed,
		Changed: false,
		Message: fmt.Sprintf("%s: %s", entry.Label(), msg),
	}
}
