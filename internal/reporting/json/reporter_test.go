package json

import (
	"bytes"
	"context"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/log"
)

func TestReportEncodesSummaryAndOutcomes(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporterTo(&buf, log.Nop())

	err := r.Report(context.Background(), []domain.Outcome{
		{Kind: domain.KindUser, Action: domain.ActionUpdated, Changed: true, Diff: domain.ChangeSet{"shell": "/bin/zsh"}},
		{Kind: domain.KindNFS, Action: domain.ActionNoop},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &decoded))

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["total"])
	assert.Equal(t, float64(1), summary["changed"])
	assert.Equal(t, float64(1), summary["unchanged"])

	outcomes := decoded["outcomes"].([]any)
	require.Len(t, outcomes, 2)
	first := outcomes[0].(map[string]any)
	assert.Equal(t, "updated", first["action"])
	assert.Equal(t, map[string]any{"shell": "/bin/zsh"}, first["diff"])
}
