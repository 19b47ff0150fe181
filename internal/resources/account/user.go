// Package account describes user management.
package account

import (
	"context"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/pkg/canon"
	"github.com/nasadm/truenasctl/pkg/convert"
)

// UserSpec manages local users. The primary group and supplemental groups
// accept either numeric gids or group names; names are resolved through
// group.query before diffing so the engine only ever compares ids.
func UserSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:        domain.KindUser,
		Prefix:      "user",
		IDField:     "id",
		NaturalKeys: []string{"username"},
		Fields: map[string]domain.FieldSpec{
			"username":          {Policy: canon.Exact(), RequiredOnCreate: true},
			"uid":               {Policy: canon.Exact()},
			"group":             {Policy: canon.Exact()},
			"group_create":      {Policy: canon.Exact(), CreateOnly: true},
			"full_name":         {Policy: canon.Exact()},
			"home":              {Policy: canon.Exact()},
			"home_mode":         {Policy: canon.Exact()},
			"shell":             {Policy: canon.Exact()},
			"email":             {Policy: canon.Exact()},
			"password":          {Policy: canon.Exact(), Secret: true},
			"password_disabled": {Policy: canon.Exact(), Boolean: true},
			"locked":            {Policy: canon.Exact(), Boolean: true},
			"microsoft_account": {Policy: canon.Exact(), Boolean: true},
			"smb":               {Policy: canon.Exact(), Boolean: true},
			"sudo":              {Policy: canon.Exact(), Boolean: true},
			"sudo_nopasswd":     {Policy: canon.Exact(), Boolean: true},
			"sudo_commands":     {Policy: canon.Set()},
			"sshpubkey":         {Policy: canon.Exact(), Secret: true},
			"groups":            {Policy: canon.Set()},
			"attributes":        {Policy: canon.Exact()},
		},
		Meta: map[string]struct{}{"delete_group": {}},
		DeleteArgs: func(address any, desired domain.Record) []any {
			deleteGroup, _ := desired["delete_group"].(bool)
			return []any{address, map[string]any{"delete_group": deleteGroup}}
		},
		Resolve: resolveUserGroups,
		Validate: func(desired domain.Record, creating bool) error {
			if v, ok := desired["password_disabled"].(bool); ok && !v && !desired.Has("password") {
				return errors.New(errors.CodeUsageError,
					"password is required if password_disabled=false")
			}
			if creating {
				if v, ok := desired["group_create"].(bool); ok && !v && !desired.Has("group") {
					return errors.New(errors.CodeUsageError,
						"group is required if group_create=false when creating a new user")
				}
			}
			return nil
		},
	}
}

func resolveUserGroups(ctx context.Context, lk domain.Lookup, desired domain.Record) (domain.Record, error) {
	if v, ok := desired["group"]; ok && v != nil {
		gid, err := lookupGroupID(ctx, lk, v)
		if err != nil {
			return nil, err
		}
		desired["group"] = gid
	}
	if v, ok := desired["groups"]; ok && v != nil {
		names, err := convert.ToAnySlice(v)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUsageError, "groups must be a list of ids or names")
		}
		gids := make([]any, 0, len(names))
		for _, g := range names {
			gid, err := lookupGroupID(ctx, lk, g)
			if err != nil {
				return nil, err
			}
			gids = append(gids, gid)
		}
		desired["groups"] = gids
	}
	return desired, nil
}

// lookupGroupID maps a group reference (numeric gid or group name) to the
// numeric id the middleware expects.
func lookupGroupID(ctx context.Context, lk domain.Lookup, v any) (int64, error) {
	ref, err := domain.ParseRef(v)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeUsageError, "invalid group reference")
	}
	if !ref.ByName() {
		return ref.ID, nil
	}
	recs, err := lk.Find(ctx, "group", []domain.Filter{{Field: "group", Op: "=", Value: ref.Name}})
	if err != nil {
		return 0, errors.WrapOp(err, errors.CodeRemoteAPIError,
			"group.query", ref.Name, "error looking up group")
	}
	if len(recs) == 0 {
		return 0, errors.Newf(errors.CodeResourceNotFound, "group %q not found", ref.Name)
	}
	id, err := convert.ToInt64(recs[0]["id"])
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeRemoteAPIError, "group record has a non-integer id")
	}
	return id, nil
}
