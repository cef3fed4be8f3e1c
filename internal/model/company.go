package model

import "time"

// Company mirrors the `companies` table. Website, industry and
// size are optional free-text columns.
type Company struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Name      string    `json:"name"`
	Website   *string   `json:"website,omitempty"`
	Industry  *string   `json:"industry,omitempty"`
	Size      *string   `json:"size,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompanyPatch carries a partial update; nil fields are skipped.
type CompanyPatch struct {
	Name     *string `json:"name"`
	Website  *string `json:"website"`
	Industry *string `json:"industry"`
	Size     *string `json:"size"`
}

func (p CompanyPatch) Empty() bool {
	return p.Name == nil && p.Website == nil && p.Industry == nil && p.Size == nil
}
