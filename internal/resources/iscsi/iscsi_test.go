package iscsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasadm/truenasctl/internal/core/domain"
	apperrors "github.com/nasadm/truenasctl/internal/errors"
)

func TestAuthSecretValidation(t *testing.T) {
	spec := AuthSpec()

	tests := []struct {
		name    string
		desired domain.Record
		wantErr string
	}{
		{
			name:    "valid mutual chap",
			desired: domain.Record{"secret": "abcdefgh1234", "peersecret": "zyxwvuts9876"},
		},
		{
			name:    "secret too short",
			desired: domain.Record{"secret": "short"},
			wantErr: "secret must be 12-16 characters",
		},
		{
			name:    "secret too long",
			desired: domain.Record{"secret": "12345678901234567"},
			wantErr: "secret must be 12-16 characters",
		},
		{
			name:    "peersecret equals secret",
			desired: domain.Record{"secret": "abcdefgh1234", "peersecret": "abcdefgh1234"},
			wantErr: "peersecret must not match secret",
		},
		{
			name:    "no secrets supplied",
			desired: domain.Record{"user": "chap_user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := spec.Validate(tt.desired, false)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeUsageError, apperrors.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSecretFieldsMarkedSecret(t *testing.T) {
	spec := AuthSpec()
	assert.True(t, spec.Fields["secret"].Secret)
	assert.True(t, spec.Fields["peersecret"].Secret)
	assert.False(t, spec.Fields["user"].Secret)
}

func TestTargetDeleteArgs(t *testing.T) {
	spec := TargetSpec()

	args := spec.DeleteArgs(int64(10), domain.Record{})
	assert.Equal(t, []any{int64(10), map[string]any{"force": false}}, args)

	args = spec.DeleteArgs(int64(10), domain.Record{"force": true})
	assert.Equal(t, []any{int64(10), map[string]any{"force": true}}, args)
}

func TestExtentDeleteArgsPositional(t *testing.T) {
	spec := ExtentSpec()

	args := spec.DeleteArgs(int64(5), domain.Record{"remove": true, "force": false})
	assert.Equal(t, []any{int64(5), true, false}, args)

	args = spec.DeleteArgs(int64(5), domain.Record{})
	assert.Equal(t, []any{int64(5), false, false}, args)
}

func TestTargetExtentDeleteArgs(t *testing.T) {
	spec := TargetExtentSpec()
	args := spec.DeleteArgs(int64(2), domain.Record{"force": true})
	assert.Equal(t, []any{int64(2), true}, args)
}

func TestPortalCreateDefaultListen(t *testing.T) {
	spec := PortalSpec()
	listen, ok := spec.CreateDefaults["listen"].([]any)
	require.True(t, ok)
	require.Len(t, listen, 1)
	assert.Equal(t, map[string]any{"ip": "0.0.0.0", "port": 3260}, listen[0])
}

func TestEnumValidation(t *testing.T) {
	err := PortalSpec().Validate(domain.Record{"discovery_authmethod": "KERBEROS"}, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUsageError, apperrors.GetCode(err))

	assert.NoError(t, TargetSpec().Validate(domain.Record{"mode": "ISCSI"}, true))
	assert.Error(t, TargetSpec().Validate(domain.Record{"mode": "iscsi"}, true))

	assert.NoError(t, ExtentSpec().Validate(domain.Record{"type": "FILE", "rpm": "SSD"}, true))
	assert.Error(t, ExtentSpec().Validate(domain.Record{"type": "TAPE"}, true))
}
