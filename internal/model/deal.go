package model

import "time"

// Pipeline stages for a deal, in progression order.
const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"
)

// Stages lists all pipeline stages. Stats responses always include
// every stage, zero-filled when no deals exist in it.
var Stages = []string{
	StageLead, StageQualified, StageProposal,
	StageNegotiation, StageClosedWon, StageClosedLost,
}

// ValidStage reports whether s is a known pipeline stage.
func ValidStage(s string) bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// Deal mirrors the `deals` table. Value is a positive monetary
// amount; ContactID/CompanyID optionally link the deal to other
// records owned by the same user.
type Deal struct {
	ID                uint64     `json:"id"`
	UserID            uint64     `json:"userId"`
	Title             string     `json:"title"`
	Value             float64    `json:"value"`
	Stage             string     `json:"stage"`
	ContactID         *uint64    `json:"contactId,omitempty"`
	CompanyID         *uint64    `json:"companyId,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// DealPatch carries a partial update; nil fields are skipped.
type DealPatch struct {
	Title             *string    `json:"title"`
	Value             *float64   `json:"value"`
	Stage             *string    `json:"stage"`
	ContactID         *uint64    `json:"contactId"`
	CompanyID         *uint64    `json:"companyId"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
}

func (p DealPatch) Empty() bool {
	return p.Title == nil && p.Value == nil && p.Stage == nil &&
		p.ContactID == nil && p.CompanyID == nil && p.ExpectedCloseDate == nil
}

// DealStats aggregates the value of all deals owned by one user.
type DealStats struct {
	TotalValue   float64            `json:"totalValue"`
	TotalDeals   int                `json:"totalDeals"`
	ValueByStage map[string]float64 `json:"valueByStage"`
}
