package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/maxcrm/maxcrm-api/internal/model"
)

// ErrCompanyNotFound covers both an absent row and a row owned by
// a different user.
var ErrCompanyNotFound = errors.New("company not found")

const companyCols = "id, user_id, name, website, industry, size, created_at, updated_at"

// CompanyRepo encapsulates all queries against the `companies` table.
type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

func scanCompany(row interface{ Scan(...any) error }) (*model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Website, &c.Industry, &c.Size,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new company owned by c.UserID and reads back
// the DB-assigned id and timestamps.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO companies (user_id, name, website, industry, size) VALUES (?,?,?,?,?)",
		c.UserID, c.Name, c.Website, c.Industry, c.Size)
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

// GetByIDAndOwner fetches a company only when both the id and the
// owner match.
func (r *CompanyRepo) GetByIDAndOwner(ctx context.Context, id, uid uint64) (*model.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx,
		"SELECT "+companyCols+" FROM companies WHERE id = ? AND user_id = ?", id, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByOwner returns every company owned by uid, newest first.
func (r *CompanyRepo) ListByOwner(ctx context.Context, uid uint64) ([]*model.Company, error) {
	return r.list(ctx,
		"SELECT "+companyCols+" FROM companies WHERE user_id = ? ORDER BY created_at DESC, id DESC", uid)
}

// Search performs a case-insensitive substring match over name,
// website and industry within the owner's companies.
func (r *CompanyRepo) Search(ctx context.Context, q string, uid uint64) ([]*model.Company, error) {
	pat := "%" + strings.ToLower(q) + "%"
	return r.list(ctx,
		"SELECT "+companyCols+` FROM companies
		 WHERE user_id = ? AND (LOWER(name) LIKE ? OR LOWER(website) LIKE ? OR LOWER(industry) LIKE ?)
		 ORDER BY created_at DESC, id DESC`,
		uid, pat, pat, pat)
}

// Update applies only the fields present in the patch; see
// ContactRepo.Update for the contract.
func (r *CompanyRepo) Update(ctx context.Context, id, uid uint64, p model.CompanyPatch) (*model.Company, error) {
	if p.Empty() {
		return r.GetByIDAndOwner(ctx, id, uid)
	}
	set := []string{}
	args := []any{}
	if p.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Website != nil {
		set = append(set, "website = ?")
		args = append(args, *p.Website)
	}
	if p.Industry != nil {
		set = append(set, "industry = ?")
		args = append(args, *p.Industry)
	}
	if p.Size != nil {
		set = append(set, "size = ?")
		args = append(args, *p.Size)
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, uid)

	if _, err := r.db.ExecContext(ctx,
		"UPDATE companies SET "+strings.Join(set, ", ")+" WHERE id = ? AND user_id = ?", args...); err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, id, uid)
}

// DeleteByIDAndOwner removes the company and reports whether a row
// matching both id and owner was actually deleted.
func (r *CompanyRepo) DeleteByIDAndOwner(ctx context.Context, id, uid uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM companies WHERE id = ? AND user_id = ?", id, uid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CompanyRepo) list(ctx context.Context, query string, args ...any) ([]*model.Company, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
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
