package model

import "time"

// Contact mirrors the `contacts` table. Every contact belongs to
// exactly one user (UserID); the repository layer filters all
// queries by that column. CompanyID optionally links the contact
// to a company record.
type Contact struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CompanyID *uint64   `json:"companyId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactPatch carries a partial update. A nil field means the
// caller did not supply that key, and the column is left untouched.
type ContactPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	CompanyID *uint64 `json:"companyId"`
}

// Empty reports whether the patch carries no fields at all.
func (p ContactPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.CompanyID == nil
}
