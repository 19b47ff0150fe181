package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasadm/truenasctl/internal/core/domain"
	apperrors "github.com/nasadm/truenasctl/internal/errors"
)

type groupLookup struct {
	groups map[string]int64
}

func (g groupLookup) Find(_ context.Context, resource string, filters []domain.Filter) ([]domain.Record, error) {
	if resource != "group" || len(filters) != 1 || filters[0].Field != "group" {
		return nil, nil
	}
	name, _ := filters[0].Value.(string)
	id, ok := g.groups[name]
	if !ok {
		return nil, nil
	}
	return []domain.Record{{"id": id, "group": name}}, nil
}

func TestResolveGroupRefs(t *testing.T) {
	spec := UserSpec()
	lk := groupLookup{groups: map[string]int64{"wheel": 1, "staff": 20}}

	desired, err := spec.Resolve(context.Background(), lk, domain.Record{
		"username": "alice",
		"group":    "wheel",
		"groups":   []any{"staff", 45},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), desired["group"])
	assert.Equal(t, []any{int64(20), int64(45)}, desired["groups"])
}

func TestResolveGroupRefsNumericPassThrough(t *testing.T) {
	spec := UserSpec()

	desired, err := spec.Resolve(context.Background(), groupLookup{}, domain.Record{
		"group": 17,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(17), desired["group"])
}

func TestResolveUnknownGroupName(t *testing.T) {
	spec := UserSpec()

	_, err := spec.Resolve(context.Background(), groupLookup{}, domain.Record{
		"group": "nonesuch",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeResourceNotFound, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "nonesuch")
}

func TestUserValidation(t *testing.T) {
	spec := UserSpec()

	err := spec.Validate(domain.Record{"password_disabled": false}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")

	assert.NoError(t, spec.Validate(domain.Record{
		"password_disabled": false, "password": "hunter2hunter2",
	}, true))

	assert.NoError(t, spec.Validate(domain.Record{"password_disabled": true}, true))

	err = spec.Validate(domain.Record{"group_create": false}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group is required")

	// Update-time invocations never need group.
	assert.NoError(t, spec.Validate(domain.Record{"group_create": false}, false))
}

func TestUserDeleteArgs(t *testing.T) {
	spec := UserSpec()

	args := spec.DeleteArgs(int64(42), domain.Record{"delete_group": true})
	assert.Equal(t, []any{int64(42), map[string]any{"delete_group": true}}, args)

	args = spec.DeleteArgs(int64(42), domain.Record{})
	assert.Equal(t, []any{int64(42), map[string]any{"delete_group": false}}, args)
}
