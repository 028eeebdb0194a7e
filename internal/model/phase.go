package model

// Phase identifies one stage of the intake workflow. Phases form a fixed
// linear sequence p1 → p8; only p1-p3 carry extraction requirements.
type Phase string

const (
	PhaseBasicInfo      Phase = "p1"
	PhaseTankSpec       Phase = "p2"
	PhaseDesignCriteria Phase = "p3"
	PhaseSoilData       Phase = "p4"
	PhasePileCatalog    Phase = "p5"
	PhaseCalculation    Phase = "p6"
	PhaseReview         Phase = "p7"
	PhaseReport         Phase = "p8"
)

// Sequence is the fixed phase order. The coordinator never skips or
// re-orders phases.
var Sequence = []Phase{
	PhaseBasicInfo,
	PhaseTankSpec,
	PhaseDesignCriteria,
	PhaseSoilData,
	PhasePileCatalog,
	PhaseCalculation,
	PhaseReview,
	PhaseReport,
}

// Next returns the phase after p, or p itself when p is last or unknown.
func (p Phase) Next() Phase {
	for i, ph := range Sequence {
		if ph == p && i < len(Sequence)-1 {
			return Sequence[i+1]
		}
	}
	return p
}

// PhaseDefinition declares which fields gate progression through a phase.
type PhaseDefinition struct {
	Phase               Phase    `json:"phase" yaml:"phase"`
	RequiredFields      []string `json:"required_fields" yaml:"required_fields"`
	OptionalFields      []string `json:"optional_fields" yaml:"optional_fields"`
	CompletionThreshold float64  `json:"completion_threshold" yaml:"completion_threshold"`
}
