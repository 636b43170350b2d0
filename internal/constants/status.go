package constants

// TaskStatus is the lifecycle state of a labeling task.
//
// unclaimed -> in_progress -> submitted -> approved, with submitted ->
// in_progress when a reviewer rejects the submission.
type TaskStatus string

const (
	StatusUnclaimed  TaskStatus = "unclaimed"
	StatusInProgress TaskStatus = "in_progress"
	StatusSubmitted  TaskStatus = "submitted"
	StatusApproved   TaskStatus = "approved"
)
