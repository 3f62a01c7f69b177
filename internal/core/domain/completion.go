package domain

// Phase is the ballot lifecycle of a voter session.
type Phase string

const (
	PhaseAwaitingCategories Phase = "awaiting_categories"
	PhaseCompleted          Phase = "completed"
)

// UnknownCandidateLabel replaces names of candidates that no longer exist.
const UnknownCandidateLabel = "Candidato desconocido"

type SummaryItem struct {
	Category      Category `json:"category"`
	CategoryLabel string   `json:"category_label"`
	CandidateName string   `json:"candidate_name"`
	Resolved      bool     `json:"resolved"`
}

// Completion is the outcome of checking a voter's records against every category.
type Completion struct {
	Phase   Phase         `json:"phase"`
	Missing []Category    `json:"missing,omitempty"`
	Summary []SummaryItem `json:"summary,omitempty"`
}

func (c *Completion) Completed() bool {
	return c != nil && c.Phase == PhaseCompleted
}
