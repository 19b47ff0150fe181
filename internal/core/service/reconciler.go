package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/core/ports"
	apperrors "github.com/nasadm/truenasctl/internal/errors"
)

// Engine is the generic reconciler: given a desired record and a mode it
// resolves identity, diffs, and applies the minimal create/update/delete
// through the gateway. One call manages exactly one resource instance; the
// read-decide-write sequence is strictly sequential and unlocked, so
// convergence is best-effort against concurrent third-party edits.
type Engine struct {
	registry *SpecRegistry
	gateway  ports.Gateway
	logger   ports.Logger
}

func NewEngine(registry *SpecRegistry, gateway ports.Gateway, logger ports.Logger) (*Engine, error) {
	if registry == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "spec registry cannot be nil")
	}
	if gateway == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "gateway cannot be nil")
	}
	if logger == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "logger cannot be nil")
	}
	return &Engine{registry: registry, gateway: gateway, logger: logger}, nil
}

func (e *Engine) Reconcile(ctx context.Context, req ports.Request) (domain.Outcome, error) {
	if !req.Mode.Valid() {
		return domain.Outcome{}, apperrors.Newf(apperrors.CodeUsageError, "invalid mode %q", req.Mode)
	}
	spec, err := e.registry.Get(req.Kind)
	if err != nil {
		return domain.Outcome{}, err
	}

	log := e.logger.WithFields(map[string]any{"kind": spec.Kind, "mode": req.Mode})
	log.Debugf(ctx, "starting reconciliation (dry_run=%t)", req.DryRun)

	desired := req.Desired.Clone()
	if desired == nil {
		desired = domain.Record{}
	}
	if spec.Fold != nil {
		desired, err = spec.Fold(desired)
		if err != nil {
			return domain.Outcome{}, err
		}
	}
	if err := checkKnownFields(spec, desired); err != nil {
		return domain.Outcome{}, err
	}

	if spec.Singleton {
		return e.reconcileSingleton(ctx, log, spec, req, desired)
	}

	existing, err := e.resolveIdentity(ctx, spec, desired)
	if err != nil && !errors.Is(err, errUnidentified) {
		return domain.Outcome{}, err
	}
	unidentified := errors.Is(err, errUnidentified)

	switch req.Mode {
	case domain.ModeQuery:
		if unidentified {
			return domain.Outcome{}, apperrors.Newf(apperrors.CodeUsageError,
				"an identifier or natural key is required to query a %s", spec.Kind)
		}
		if existing == nil {
			return domain.Outcome{}, apperrors.Newf(apperrors.CodeResourceNotFound,
				"no %s found matching %s", spec.Kind, identityString(spec, desired))
		}
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionNoop, Changed: false,
			Record: existing, Message: fmt.Sprintf("Found %s %v.", spec.Kind, existing[spec.Address()]),
		}, nil

	case domain.ModeAbsent:
		if unidentified {
			return domain.Outcome{}, apperrors.Newf(apperrors.CodeUsageError,
				"an identifier or natural key is required to delete a %s", spec.Kind)
		}
		return e.delete(ctx, log, spec, req, desired, existing)

	case domain.ModePresent:
		if spec.Resolve != nil {
			desired, err = spec.Resolve(ctx, e.gateway, desired)
			if err != nil {
				return domain.Outcome{}, err
			}
		}
		if existing == nil {
			return e.create(ctx, log, spec, req, desired)
		}
		return e.update(ctx, log, spec, req, desired, existing)
	}

	return domain.Outcome{}, apperrors.Newf(apperrors.CodeInternal, "unreachable mode %q", req.Mode)
}

// delete converges toward absence. Deleting something that is already gone is
// a no-op, never an error.
func (e *Engine) delete(ctx context.Context, log ports.Logger, spec *domain.ResourceSpec, req ports.Request, desired, existing domain.Record) (domain.Outcome, error) {
	if existing == nil {
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionNoop, Changed: false,
			Message: fmt.Sprintf("%s %s does not exist.", spec.Kind, identityString(spec, desired)),
		}, nil
	}

	address := existing[spec.Address()]
	if req.DryRun {
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionWouldDelete, Changed: true, Record: existing,
			Message: fmt.Sprintf("Would have deleted %s %v.", spec.Kind, address),
		}, nil
	}

	args := []any{address}
	if spec.DeleteArgs != nil {
		args = spec.DeleteArgs(address, desired)
	}
	if err := e.gateway.Delete(ctx, spec.Prefix, args); err != nil {
		return domain.Outcome{}, apperrors.WrapOp(err, apperrors.CodeRemoteAPIError,
			spec.Prefix+".delete", fmt.Sprintf("%v", address), "error deleting resource")
	}
	log.Infof(ctx, "deleted %s %v", spec.Kind, address)
	return domain.Outcome{
		Kind: spec.Kind, Action: domain.ActionDeleted, Changed: true,
		Message: fmt.Sprintf("Deleted %s %v.", spec.Kind, address),
	}, nil
}

func (e *Engine) create(ctx context.Context, log ports.Logger, spec *domain.ResourceSpec, req ports.Request, desired domain.Record) (domain.Outcome, error) {
	for field, fs := range spec.Fields {
		if fs.RequiredOnCreate && !desired.Has(field) {
			return domain.Outcome{}, apperrors.Newf(apperrors.CodeUsageError,
				"%s is required to create a %s", field, spec.Kind)
		}
	}
	if spec.Validate != nil {
		if err := spec.Validate(desired, true); err != nil {
			return domain.Outcome{}, err
		}
	}

	payload := make(map[string]any, len(desired)+len(spec.CreateDefaults))
	for field, value := range desired {
		if field == spec.IDField || spec.IsMeta(field) {
			continue
		}
		fs := spec.Fields[field]
		payload[fs.RemoteName(field)] = value
	}
	for field, value := range spec.CreateDefaults {
		if _, set := payload[field]; !set {
			payload[field] = value
		}
	}

	if req.DryRun {
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionWouldCreate, Changed: true,
			Diff:    domain.ChangeSet(payload),
			Message: fmt.Sprintf("Would have created %s: %s", spec.Kind, renderChangeSet(spec, domain.ChangeSet(payload))),
		}, nil
	}

	created, err := e.gateway.Create(ctx, spec.Prefix, payload)
	if err != nil {
		return domain.Outcome{}, apperrors.WrapOp(err, apperrors.CodeRemoteAPIError,
			spec.Prefix+".create", identityString(spec, desired), "error creating resource")
	}
	log.Infof(ctx, "created %s %v", spec.Kind, created[spec.Address()])
	return domain.Outcome{
		Kind: spec.Kind, Action: domain.ActionCreated, Changed: true, Record: created,
		Message: fmt.Sprintf("Created new %s.", spec.Kind),
	}, nil
}

func (e *Engine) update(ctx context.Context, log ports.Logger, spec *domain.ResourceSpec, req ports.Request, desired, existing domain.Record) (domain.Outcome, error) {
	if spec.Validate != nil {
		if err := spec.Validate(desired, false); err != nil {
			return domain.Outcome{}, err
		}
	}

	ignore := make(map[string]struct{}, len(req.IgnoreOnUpdate))
	for _, f := range req.IgnoreOnUpdate {
		ignore[f] = struct{}{}
	}

	patch, err := buildChangeSet(spec, existing, desired, ignore)
	if err != nil {
		return domain.Outcome{}, err
	}

	address := existing[spec.Address()]
	if len(patch) == 0 {
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionNoop, Changed: false, Record: existing,
			Message: "No changes needed.",
		}, nil
	}

	if req.DryRun {
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionWouldUpdate, Changed: true, Record: existing, Diff: patch,
			Message: fmt.Sprintf("Would have updated %s %v with %s", spec.Kind, address, renderChangeSet(spec, patch)),
		}, nil
	}

	updated, err := e.gateway.Update(ctx, spec.Prefix, address, patch)
	if err != nil {
		return domain.Outcome{}, apperrors.WrapOp(err, apperrors.CodeRemoteAPIError,
			spec.Prefix+".update", fmt.Sprintf("%v", address), "error updating resource")
	}
	log.Infof(ctx, "updated %s %v (%d fields)", spec.Kind, address, len(patch))
	return domain.Outcome{
		Kind: spec.Kind, Action: domain.ActionUpdated, Changed: true, Record: updated, Diff: patch,
		Message: fmt.Sprintf("Updated %s %v.", spec.Kind, address),
	}, nil
}

// reconcileSingleton handles config/update resources (nfs, iscsi.global):
// there is exactly one remote instance, so no identity resolution, creation,
// or deletion applies.
func (e *Engine) reconcileSingleton(ctx context.Context, log ports.Logger, spec *domain.ResourceSpec, req ports.Request, desired domain.Record) (domain.Outcome, error) {
	if req.Mode == domain.ModeAbsent {
		return domain.Outcome{}, apperrors.Newf(apperrors.CodeUsageError,
			"%s is a singleton configuration and cannot be deleted", spec.Kind)
	}

	current, err := e.gateway.Config(ctx, spec.Prefix)
	if err != nil {
		return domain.Outcome{}, apperrors.WrapOp(err, apperrors.CodeRemoteAPIError,
			spec.Prefix+".config", string(spec.Kind), "error fetching configuration")
	}

	if req.Mode == domain.ModeQuery {
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionNoop, Changed: false, Record: current,
			Message: fmt.Sprintf("Fetched %s configuration.", spec.Kind),
		}, nil
	}

	if spec.Validate != nil {
		if err := spec.Validate(desired, false); err != nil {
			return domain.Outcome{}, err
		}
	}

	ignore := make(map[string]struct{}, len(req.IgnoreOnUpdate))
	for _, f := range req.IgnoreOnUpdate {
		ignore[f] = struct{}{}
	}
	patch, err := buildChangeSet(spec, current, desired, ignore)
	if err != nil {
		return domain.Outcome{}, err
	}

	if len(patch) == 0 {
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionNoop, Changed: false, Record: current,
			Message: "No changes needed.",
		}, nil
	}

	if req.DryRun {
		return domain.Outcome{
			Kind: spec.Kind, Action: domain.ActionWouldUpdate, Changed: true, Record: current, Diff: patch,
			Message: fmt.Sprintf("Would have updated %s configuration with %s", spec.Kind, renderChangeSet(spec, patch)),
		}, nil
	}

	updated, err := e.gateway.UpdateConfig(ctx, spec.Prefix, patch)
	if err != nil {
		return domain.Outcome{}, apperrors.WrapOp(err, apperrors.CodeRemoteAPIError,
			spec.Prefix+".update", string(spec.Kind), "error updating configuration")
	}
	log.Infof(ctx, "updated %s configuration (%d fields)", spec.Kind, len(patch))
	return domain.Outcome{
		Kind: spec.Kind, Action: domain.ActionUpdated, Changed: true, Record: updated, Diff: patch,
		Message: fmt.Sprintf("Updated %s configuration.", spec.Kind),
	}, nil
}

func checkKnownFields(spec *domain.ResourceSpec, desired domain.Record) error {
	for field := range desired {
		if field == spec.IDField || spec.IsMeta(field) {
			continue
		}
		if _, known := spec.Fields[field]; !known {
			return apperrors.Newf(apperrors.CodeUsageError,
				"unknown field %q for resource %s", field, spec.Kind)
		}
	}
	return nil
}

// identityString names the identifying value(s) the invocation carried, for
// error and outcome messages.
func identityString(spec *domain.ResourceSpec, desired domain.Record) string {
	if v, ok := desired[spec.IDField]; ok && v != nil {
		return fmt.Sprintf("%s=%v", spec.IDField, v)
	}
	for _, key := range spec.NaturalKeys {
		if v, ok := desired[key]; ok && v != nil {
			return fmt.Sprintf("%s=%v", key, v)
		}
	}
	return "(unidentified)"
}
