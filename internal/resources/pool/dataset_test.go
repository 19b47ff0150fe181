package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasadm/truenasctl/internal/core/domain"
	apperrors "github.com/nasadm/truenasctl/internal/errors"
)

func TestRawValueExtraction(t *testing.T) {
	spec := DatasetSpec()
	existing := domain.Record{
		"name": "tank/data",
		"compression": map[string]any{
			"rawvalue": "LZ4", "value": "LZ4", "source": "LOCAL",
		},
		"quota": map[string]any{"rawvalue": " 1073741824 "},
	}

	v, ok := spec.Fields["compression"].ExtractExisting(existing)
	require.True(t, ok)
	assert.Equal(t, "LZ4", v)

	v, ok = spec.Fields["quota"].ExtractExisting(existing)
	require.True(t, ok)
	assert.Equal(t, "1073741824", v)

	_, ok = spec.Fields["sync"].ExtractExisting(existing)
	assert.False(t, ok)
}

func TestCaseFoldedPropertyComparison(t *testing.T) {
	spec := DatasetSpec()

	equal, err := spec.Fields["compression"].Policy.Equal("LZ4", "lz4")
	require.NoError(t, err)
	assert.True(t, equal)

	// Numeric rawvalues compare against integer desired values.
	equal, err = spec.Fields["quota"].Policy.Equal("1073741824", 1073741824)
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = spec.Fields["compression"].Policy.Equal("lz4", "zstd")
	require.NoError(t, err)
	assert.False(t, equal)
}

func TestDatasetAddressedByName(t *testing.T) {
	spec := DatasetSpec()
	assert.Equal(t, "name", spec.Address())

	args := spec.DeleteArgs("tank/data", domain.Record{})
	assert.Equal(t, []any{"tank/data", map[string]any{"recursive": true}}, args)
}

func TestFoldUserPropertiesUpdate(t *testing.T) {
	spec := DatasetSpec()

	desired, err := spec.Fold(domain.Record{
		"name": "tank/data",
		"user_properties_update": []any{
			map[string]any{"key": "org:owner", "value": "storage-team"},
			map[string]any{"key": "org:stale", "value": "x", "remove": true},
		},
	})
	require.NoError(t, err)
	folded := desired["user_properties_update"].([]any)
	assert.Equal(t, map[string]any{"key": "org:owner", "value": "storage-team"}, folded[0])
	assert.Equal(t, map[string]any{"key": "org:stale", "remove": true}, folded[1])
}

func TestDatasetValidation(t *testing.T) {
	spec := DatasetSpec()

	err := spec.Validate(domain.Record{"type": "VOLUME"}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "volsize is required")

	assert.NoError(t, spec.Validate(domain.Record{"type": "VOLUME", "volsize": 1 << 30}, true))

	err = spec.Validate(domain.Record{"type": "ZVOL"}, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUsageError, apperrors.GetCode(err))

	err = spec.Validate(domain.Record{
		"user_properties_update": []any{map[string]any{"key": "k"}},
	}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing dataset")
}
