package model

// ProgressStatus is the derived completion state of one phase. It is
// recomputed on every interaction and never persisted independently.
type ProgressStatus struct {
	Phase           Phase    `json:"phase"`
	CompletedFields []string `json:"completed_fields"`
	MissingFields   []string `json:"missing_fields"`
	Progress        int      `json:"progress"` // 0-100
	CanProceed      bool     `json:"can_proceed"`
	NextPhase       Phase    `json:"next_phase,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
}
