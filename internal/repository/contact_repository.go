package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/maxcrm/maxcrm-api/internal/model"
)

// ErrContactNotFound covers both an absent row and a row owned by
// a different user; callers must not distinguish the two.
var ErrContactNotFound = errors.New("contact not found")

const contactCols = "id, user_id, first_name, last_name, email, phone, company_id, created_at, updated_at"

// ContactRepo encapsulates all queries against the `contacts` table.
type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

func scanContact(row interface{ Scan(...any) error }) (*model.Contact, error) {
	var c model.Contact
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email,
		&c.Phone, &c.CompanyID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new contact. The caller stamps UserID from the
// authenticated identity before calling; the DB assigns id and
// timestamps, which a follow-up SELECT copies back into c.
func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO contacts (user_id, first_name, last_name, email, phone, company_id) VALUES (?,?,?,?,?,?)",
		c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.CompanyID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByIDAndOwner(ctx, uint64(id), c.UserID)
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByIDAndOwner fetches a contact only when both the id and the
// owner match.
func (r *ContactRepo) GetByIDAndOwner(ctx context.Context, id, uid uint64) (*model.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		"SELECT "+contactCols+" FROM contacts WHERE id = ? AND user_id = ?", id, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByOwner returns every contact owned by uid, newest first.
func (r *ContactRepo) ListByOwner(ctx context.Context, uid uint64) ([]*model.Contact, error) {
	return r.list(ctx,
		"SELECT "+contactCols+" FROM contacts WHERE user_id = ? ORDER BY created_at DESC, id DESC", uid)
}

// ListByCompanyAndOwner returns the contacts linked to a company,
// still restricted to the owner's rows.
func (r *ContactRepo) ListByCompanyAndOwner(ctx context.Context, companyID, uid uint64) ([]*model.Contact, error) {
	return r.list(ctx,
		"SELECT "+contactCols+" FROM contacts WHERE company_id = ? AND user_id = ? ORDER BY created_at DESC, id DESC",
		companyID, uid)
}

// Search performs a case-insensitive substring match over first
// name, last name and email within the owner's contacts.
func (r *ContactRepo) Search(ctx context.Context, q string, uid uint64) ([]*model.Contact, error) {
	pat := "%" + strings.ToLower(q) + "%"
	return r.list(ctx,
		"SELECT "+contactCols+` FROM contacts
		 WHERE user_id = ? AND (LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?)
		 ORDER BY created_at DESC, id DESC`,
		uid, pat, pat, pat)
}

// Update applies only the fields present in the patch. An empty
// patch is a plain read and does not touch updated_at. The WHERE
// clause carries both id and owner, so an update aimed at another
// user's row changes nothing and the follow-up read reports
// ErrContactNotFound.
func (r *ContactRepo) Update(ctx context.Context, id, uid uint64, p model.ContactPatch) (*model.Contact, error) {
	if p.Empty() {
		return r.GetByIDAndOwner(ctx, id, uid)
	}
	set := []string{}
	args := []any{}
	if p.FirstName != nil {
		set = append(set, "first_name = ?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		set = append(set, "last_name = ?")
		args = append(args, *p.LastName)
	}
	if p.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *p.Email)
	}
	if p.Phone != nil {
		set = append(set, "phone = ?")
		args = append(args, *p.Phone)
	}
	if p.CompanyID != nil {
		set = append(set, "company_id = ?")
		args = append(args, *p.CompanyID)
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, uid)

	if _, err := r.db.ExecContext(ctx,
		"UPDATE contacts SET "+strings.Join(set, ", ")+" WHERE id = ? AND user_id = ?", args...); err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, id, uid)
}

// DeleteByIDAndOwner removes the contact and reports whether a row
// matching both id and owner was actually deleted.
func (r *ContactRepo) DeleteByIDAndOwner(ctx context.Context, id, uid uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM contacts WHERE id = ? AND user_id = ?", id, uid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ContactRepo) list(ctx context.Context, query string, args ...any) ([]*model.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
