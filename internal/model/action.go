package model

// ActionType enumerates the UI-facing instructions the coordinator emits.
type ActionType string

const (
	ActionProceedPhase ActionType = "proceed_phase"
	ActionShowForm     ActionType = "show_form"
	ActionUpdateStatus ActionType = "update_status"
)

// Action is one instruction for the calling UI/persistence layer.
type Action struct {
	Type    ActionType `json:"type"`
	Payload any        `json:"payload,omitempty"`
}

// ProceedPayload names the next phase after a threshold is first met.
type ProceedPayload struct {
	NextPhase Phase `json:"next_phase"`
}

// FormField describes one input in a dynamically generated form.
type FormField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Question string   `json:"question,omitempty"`
	Category Category `json:"category"`
}

// ShowFormPayload lists the still-missing required fields to render.
type ShowFormPayload struct {
	Phase  Phase       `json:"phase"`
	Fields []FormField `json:"fields"`
}

// StatusPayload carries the merged field set and progress so callers can
// synchronize their own state after every interaction.
type StatusPayload struct {
	Fields   []ExtractedField `json:"fields"`
	Progress ProgressStatus   `json:"progress"`
}
