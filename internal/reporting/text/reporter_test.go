package text

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/log"
)

func TestReportRendersSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporterTo(Config{NoColor: true}, &buf, log.Nop())

	err := r.Report(context.Background(), []domain.Outcome{
		{Kind: domain.KindISCSIPortal, Action: domain.ActionCreated, Changed: true, Message: "Created new iscsi-portal."},
		{Kind: domain.KindUser, Action: domain.ActionNoop, Message: "No changes needed."},
		{Kind: domain.KindDataset, Action: domain.ActionWouldUpdate, Changed: true, Message: "Would have updated dataset tank/data with {compression: zstd}"},
		{Kind: domain.KindNFS, Action: domain.ActionFailed, Message: "error updating configuration"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Created new iscsi-portal.")
	assert.Contains(t, out, "would-update")
	assert.Contains(t, out, "Summary: 1 changed, 1 planned, 1 unchanged, 1 failed")
}

func TestReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporterTo(Config{NoColor: true}, &buf, log.Nop())

	require.NoError(t, r.Report(context.Background(), nil))
	assert.Contains(t, buf.String(), "No resources processed.")
}
