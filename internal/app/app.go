package app

import (
	"context"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/nasadm/truenasctl/internal/config"
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/core/ports"
	"github.com/nasadm/truenasctl/internal/core/service"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/internal/plan"
)

// Application holds the assembled components for one CLI invocation.
type Application struct {
	Engine   *service.Engine
	Runner   *plan.Runner
	Reporter ports.Reporter
	Gateway  ports.Gateway
	Logger   ports.Logger
	Config   *config.Config
}

// ApplyPlan loads a plan document, reconciles every entry, and reports the
// outcomes. A failed entry makes the whole run fail after the report is
// written so partial progress is still visible.
func (a *Application) ApplyPlan(ctx context.Context, path string, dryRun bool) error {
	a.Logger.Infof(ctx, "Applying plan %s (dry_run=%t)", path, dryRun)

	doc, err := plan.ParseFile(path)
	if err != nil {
		return err
	}

	outcomes, err := a.Runner.Apply(ctx, doc, dryRun)
	if err != nil {
		return err
	}
	if err := a.Reporter.Report(ctx, outcomes); err != nil {
		return err
	}

	for _, out := range outcomes {
		if out.Action == domain.ActionFailed {
			return errors.New(errors.CodeRemoteAPIError, "one or more plan entries failed")
		}
	}
	a.Logger.Infof(ctx, "Plan applied: %d resources", len(outcomes))
	return nil
}

// Query invokes an arbitrary middleware query method and prints the raw JSON
// result, the escape hatch for resources the catalogue does not model.
func (a *Application) Query(ctx context.Context, method string, filters []domain.Filter, options map[string]any) error {
	triples := make([]any, 0, len(filters))
	for _, f := range filters {
		triples = append(triples, []any{f.Field, f.Op, f.Value})
	}
	if options == nil {
		options = map[string]any{}
	}

	result, err := a.Gateway.Call(ctx, method, triples, options)
	if err != nil {
		return err
	}

	enc := jsoniter.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "encoding query result")
	}
	return nil
}
