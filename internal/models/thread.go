package models

// RunStatus is the lifecycle state of a run
type RunStatus string

const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunRequiresAction RunStatus = "requires_action"
	RunCancelling     RunStatus = "cancelling"
	RunCancelled      RunStatus = "cancelled"
	RunFailed         RunStatus = "failed"
	RunCompleted      RunStatus = "completed"
	RunIncomplete     RunStatus = "incomplete"
	RunExpired        RunStatus = "expired"
)

// Thread is a conversation held by the assistant service
type Thread struct {
	ID        string
	CreatedAt int64
}

// Run is one asynchronous invocation of an assistant against a thread
type Run struct {
	ID          string
	ThreadID    string
	AssistantID string
	Status      RunStatus
	LastError   string
}

// InProgress reports whether the run is still being processed.
// Only in_progress counts; queued and requires_action do not.
func (r *Run) InProgress() bool {
	return r != nil && r.Status == RunInProgress
}

// ThreadMessage is a message stored on a thread
type ThreadMessage struct {
	ID       string
	ThreadID string
	Role     Role
	RunID    string
	// Texts holds the text content parts in order
	Texts []string
}

// Text returns the first text content part, or ""
func (m ThreadMessage) Text() string {
	if len(m.Texts) == 0 {
		return ""
	}
	return m.Texts[0]
}
