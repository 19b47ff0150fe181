package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactPolicy(t *testing.T) {
	tests := []struct {
		name  string
		a     any
		b     any
		equal bool
	}{
		{"identical strings", "hello", "hello", true},
		{"different strings", "hello", "world", false},
		{"int vs float same value", 3260, float64(3260), true},
		{"int vs float different value", 3260, float64(9999), false},
		{"bools", true, true, true},
		{"bool mismatch", true, false, false},
		{"ordered slices equal", []any{1, 2}, []any{float64(1), float64(2)}, true},
		{"ordered slices order matters", []any{1, 2}, []any{2, 1}, false},
		{"nil vs nil", nil, nil, true},
		{"nil vs empty string", nil, "", false},
		{"maps equal regardless of entry order", map[string]any{"a": 1, "b": 2}, map[string]any{"b": float64(2), "a": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equal, err := Exact().Equal(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.equal, equal)
		})
	}
}

func TestSetPolicy(t *testing.T) {
	tests := []struct {
		name  string
		a     any
		b     any
		equal bool
	}{
		{"order irrelevant", []any{1, 2}, []any{2, 1}, true},
		{"duplicates irrelevant", []any{"a", "a", "b"}, []any{"b", "a"}, true},
		{"different members", []string{"10.0.0.0/24"}, []string{"10.1.0.0/24"}, false},
		{"nil equals empty", nil, []any{}, true},
		{"string slice types mix", []string{"x", "y"}, []any{"y", "x"}, true},
		{"number and its rendering differ", []any{1}, []any{"1"}, false},
		{"mixed members keep both", []any{1, "1"}, []any{"1", 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equal, err := Set().Equal(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.equal, equal)
		})
	}

	t.Run("rejects scalar input", func(t *testing.T) {
		_, err := Set().Canonical("not-a-sequence")
		assert.Error(t, err)
	})
}

func TestDeepUnorderedPolicy(t *testing.T) {
	groupsA := []any{
		map[string]any{"portal": 1, "initiator": 2},
		map[string]any{"portal": 3, "initiator": 4},
	}
	groupsB := []any{
		map[string]any{"initiator": float64(4), "portal": float64(3)},
		map[string]any{"initiator": float64(2), "portal": float64(1)},
	}

	equal, err := DeepUnordered().Equal(groupsA, groupsB)
	require.NoError(t, err)
	assert.True(t, equal, "element order and key order must be irrelevant")

	groupsC := []any{
		map[string]any{"portal": 1, "initiator": 9},
		map[string]any{"portal": 3, "initiator": 4},
	}
	equal, err = DeepUnordered().Equal(groupsA, groupsC)
	require.NoError(t, err)
	assert.False(t, equal)
}

func TestDeepUnorderedExcluding(t *testing.T) {
	listenA := []any{map[string]any{"ip": "0.0.0.0", "port": 3260}}
	listenB := []any{map[string]any{"ip": "0.0.0.0", "port": 9999}}
	listenC := []any{map[string]any{"ip": "10.0.0.1", "port": 3260}}

	policy := DeepUnorderedExcluding("port")

	equal, err := policy.Equal(listenA, listenB)
	require.NoError(t, err)
	assert.True(t, equal, "differences confined to excluded keys must not register")

	equal, err = policy.Equal(listenA, listenC)
	require.NoError(t, err)
	assert.False(t, equal, "differences in other keys must register")
}

func TestFoldCasePolicy(t *testing.T) {
	tests := []struct {
		name  string
		a     any
		b     any
		equal bool
	}{
		{"case folds", "NFSV4", "nfsv4", true},
		{"whitespace trims", " lz4 ", "LZ4", true},
		{"distinct values", "on", "off", false},
		{"number vs numeric string", 128, "128", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equal, err := FoldCase().Equal(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.equal, equal)
		})
	}
}

func TestCanonicalIsPure(t *testing.T) {
	original := []any{map[string]any{"ip": "::", "port": 3260}, map[string]any{"ip": "0.0.0.0", "port": 3260}}
	_, err := DeepUnorderedExcluding("port").Canonical(original)
	require.NoError(t, err)

	assert.Equal(t, "::", original[0].(map[string]any)["ip"], "input must not be mutated")
	assert.Equal(t, 3260, original[0].(map[string]any)["port"])
}
