package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteRecord is a persisted vote. The store keeps at most one per (VoterDNI, Category).
type VoteRecord struct {
	ID          uuid.UUID `json:"id"`
	VoterDNI    string    `json:"voter_dni"`
	Category    Category  `json:"category"`
	CandidateID uuid.UUID `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Selection is a tentative, unpersisted choice within one category.
type Selection struct {
	CandidateID   uuid.UUID `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	Category      Category  `json:"category"`
}

func NewVoteRecord(dni string, sel Selection) VoteRecord {
	return VoteRecord{
		ID:          uuid.New(),
		VoterDNI:    dni,
		Category:    sel.Category,
		CandidateID: sel.CandidateID,
		CreatedAt:   time.Now().UTC(),
	}
}
