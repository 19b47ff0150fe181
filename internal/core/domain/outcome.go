package domain

type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionDeleted     Action = "deleted"
	ActionNoop        Action = "noop"
	ActionWouldCreate Action = "would-create"
	ActionWouldUpdate Action = "would-update"
	ActionWouldDelete Action = "would-delete"
	ActionFailed      Action = "failed"
)

// Outcome is the result of one reconciliation invocation.
type Outcome struct {
	Kind    ResourceKind `json:"kind"`
	Action  Action       `json:"action"`
	Changed bool         `json:"changed"`
	Record  Record       `json:"record,omitempty"`
	Diff    ChangeSet    `json:"diff,omitempty"`
	Message string       `json:"message"`
}
