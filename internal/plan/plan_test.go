package plan

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/core/ports"
	apperrors "github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/internal/log"
)

const samplePlan = `
resources:
  - name: storage portal
    kind: iscsi-portal
    fields:
      comment: "san1"
      listen:
        - ip: "0.0.0.0"
          port: 3260
  - kind: user
    state: present
    ignore_on_update: [password_disabled]
    fields:
      username: alice
      group: wheel
  - kind: dataset
    state: absent
    fields:
      name: tank/scratch
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(samplePlan))
	require.NoError(t, err)
	require.Len(t, doc.Resources, 3)

	first := doc.Resources[0]
	assert.Equal(t, "storage portal", first.Name)
	assert.Equal(t, "present", first.State)

	listen, ok := first.Fields["listen"].([]any)
	require.True(t, ok)
	entry, ok := listen[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0", entry["ip"])
	assert.Equal(t, 3260, entry["port"])

	assert.Equal(t, []string{"password_disabled"}, doc.Resources[1].IgnoreOnUpdate)
	assert.Equal(t, "absent", doc.Resources[2].State)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no resources", "resources: []"},
		{"missing kind", "resources:\n  - state: present"},
		{"bad state", "resources:\n  - kind: user\n    state: maybe"},
		{"unknown top level key", "resourcez:\n  - kind: user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)
		})
	}
}

func TestEntryRequest(t *testing.T) {
	doc, err := Parse(strings.NewReader(samplePlan))
	require.NoError(t, err)

	req := doc.Resources[1].Request(true)
	assert.Equal(t, domain.ResourceKind("user"), req.Kind)
	assert.Equal(t, domain.ModePresent, req.Mode)
	assert.True(t, req.DryRun)
	assert.Equal(t, "alice", req.Desired["username"])
	assert.Equal(t, []string{"password_disabled"}, req.IgnoreOnUpdate)
}

type scriptedReconciler struct {
	mu       sync.Mutex
	requests []ports.Request
	failKind domain.ResourceKind
}

func (s *scriptedReconciler) Reconcile(_ context.Context, req ports.Request) (domain.Outcome, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if req.Kind == s.failKind {
		return domain.Outcome{}, apperrors.Newf(apperrors.CodeRemoteAPIError,
			"middleware unreachable")
	}
	return domain.Outcome{Kind: req.Kind, Action: domain.ActionNoop, Message: "No changes needed."}, nil
}

func TestRunnerApplyPreservesOrder(t *testing.T) {
	doc, err := Parse(strings.NewReader(samplePlan))
	require.NoError(t, err)

	rec := &scriptedReconciler{}
	runner, err := NewRunner(rec, log.Nop(), 2)
	require.NoError(t, err)

	outcomes, err := runner.Apply(context.Background(), doc, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, domain.ResourceKind("iscsi-portal"), outcomes[0].Kind)
	assert.Equal(t, domain.ResourceKind("user"), outcomes[1].Kind)
	assert.Equal(t, domain.ResourceKind("dataset"), outcomes[2].Kind)
}

func TestRunnerApplyCollectsFailures(t *testing.T) {
	doc, err := Parse(strings.NewReader(samplePlan))
	require.NoError(t, err)

	rec := &scriptedReconciler{failKind: "user"}
	runner, err := NewRunner(rec, log.Nop(), 1)
	require.NoError(t, err)

	outcomes, err := runner.Apply(context.Background(), doc, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, domain.ActionFailed, outcomes[1].Action)
	assert.Contains(t, outcomes[1].Message, "middleware unreachable")
	assert.Equal(t, domain.ActionNoop, outcomes[0].Action)
	assert.Equal(t, domain.ActionNoop, outcomes[2].Action)
}
