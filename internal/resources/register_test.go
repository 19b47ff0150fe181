package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasadm/truenasctl/internal/core/service"
)

func TestRegisterAll(t *testing.T) {
	reg := service.NewSpecRegistry()
	require.NoError(t, RegisterAll(reg))
	assert.Len(t, reg.Kinds(), len(All()))
}

func TestSpecWellFormedness(t *testing.T) {
	for _, spec := range All() {
		t.Run(string(spec.Kind), func(t *testing.T) {
			assert.NotEmpty(t, spec.Prefix)
			if !spec.Singleton {
				assert.NotEmpty(t, spec.IDField)
			}
			for field, fs := range spec.Fields {
				assert.NotEmpty(t, fs.Policy.Kind, "field %s has no policy", field)
			}
			for _, key := range spec.NaturalKeys {
				_, ok := spec.Fields[key]
				assert.True(t, ok, "natural key %s is not a declared field", key)
			}
		})
	}
}
