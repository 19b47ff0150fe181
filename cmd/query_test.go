package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasadm/truenasctl/internal/core/domain"
)

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{
		"username=alice",
		"tag=1",
		"locked=false",
		"quota=1.5",
		"shell=null",
		`comment="1"`,
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Filter{
		{Field: "username", Op: "=", Value: "alice"},
		{Field: "tag", Op: "=", Value: int64(1)},
		{Field: "locked", Op: "=", Value: false},
		{Field: "quota", Op: "=", Value: 1.5},
		{Field: "shell", Op: "=", Value: nil},
		{Field: "comment", Op: "=", Value: "1"},
	}, filters)
}

func TestParseFiltersRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"no-equals", "=value"} {
		_, err := parseFilters([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestParseOptions(t *testing.T) {
	options, err := parseOptions([]string{"count=true", "limit=50"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": true, "limit": int64(50)}, options)

	options, err = parseOptions(nil)
	require.NoError(t, err)
	assert.Nil(t, options)

	_, err = parseOptions([]string{"=oops"})
	assert.Error(t, err)
}
