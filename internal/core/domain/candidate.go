package domain

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	PhotoURL               string    `json:"photo_url"`
	Description            string    `json:"description"`
	PartyName              string    `json:"party_name"`
	PartyLogoURL           *string   `json:"party_logo_url,omitempty"`
	PartyDescription       *string   `json:"party_description,omitempty"`
	AcademicFormation      *string   `json:"academic_formation,omitempty"`
	ProfessionalExperience *string   `json:"professional_experience,omitempty"`
	CampaignProposal       *string   `json:"campaign_proposal,omitempty"`
	Category               Category  `json:"category"`
	VoteCount              int64     `json:"vote_count"`
	CreatedAt              time.Time `json:"created_at"`
}

// CandidateStanding is a candidate together with its share of its category's votes.
type CandidateStanding struct {
	Candidate
	Percentage float64 `json:"percentage"`
}

type CategoryStandings struct {
	Category   Category            `json:"category"`
	Label      string              `json:"label"`
	TotalVotes int64               `json:"total_votes"`
	Candidates []CandidateStanding `json:"candidates"`
}

// Board is the results view of every category.
type Board struct {
	TotalVotes     int64               `json:"total_votes"`
	CandidateCount int                 `json:"candidate_count"`
	Categories     []CategoryStandings `json:"categories"`
}

// Percentage returns count as a share of total, 0 when total is 0.
func Percentage(count, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return (float64(count) / float64(total)) * 100
}
