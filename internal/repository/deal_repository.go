package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/maxcrm/maxcrm-api/internal/model"
)

// ErrDealNotFound covers both an absent row and a row owned by a
// different user.
var ErrDealNotFound = errors.New("deal not found")

const dealCols = "id, user_id, title, value, stage, contact_id, company_id, expected_close_date, created_at, updated_at"

// DealRepo encapsulates all queries against the `deals` table,
// including the per-stage aggregates behind /deals/stats.
type DealRepo struct {
	db *sql.DB
}

func NewDealRepo(db *sql.DB) *DealRepo { return &DealRepo{db: db} }

func scanDeal(row interface{ Scan(...any) error }) (*model.Deal, error) {
	var d model.Deal
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Value, &d.Stage,
		&d.ContactID, &d.CompanyID, &d.ExpectedCloseDate, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new deal owned by d.UserID and reads back the
// DB-assigned id and timestamps.
func (r *DealRepo) Create(ctx context.Context, d *model.Deal) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO deals (user_id, title, value, stage, contact_id, company_id, expected_close_date) VALUES (?,?,?,?,?,?,?)",
		d.UserID, d.Title, d.Value, d.Stage, d.ContactID, d.CompanyID, d.ExpectedCloseDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByIDAndOwner(ctx, uint64(id), d.UserID)
	if err != nil {
		return err
	}
	*d = *got
	return nil
}

// GetByIDAndOwner fetches a deal only when both the id and the
// owner match.
func (r *DealRepo) GetByIDAndOwner(ctx context.Context, id, uid uint64) (*model.Deal, error) {
	d, err := scanDeal(r.db.QueryRowContext(ctx,
		"SELECT "+dealCols+" FROM deals WHERE id = ? AND user_id = ?", id, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByOwner returns every deal owned by uid, newest first.
func (r *DealRepo) ListByOwner(ctx context.Context, uid uint64) ([]*model.Deal, error) {
	return r.list(ctx,
		"SELECT "+dealCols+" FROM deals WHERE user_id = ? ORDER BY created_at DESC, id DESC", uid)
}

// ListByStageAndOwner returns the owner's deals in a given stage.
func (r *DealRepo) ListByStageAndOwner(ctx context.Context, stage string, uid uint64) ([]*model.Deal, error) {
	return r.list(ctx,
		"SELECT "+dealCols+" FROM deals WHERE stage = ? AND user_id = ? ORDER BY created_at DESC, id DESC",
		stage, uid)
}

// ListByContactAndOwner returns the owner's deals linked to a contact.
func (r *DealRepo) ListByContactAndOwner(ctx context.Context, contactID, uid uint64) ([]*model.Deal, error) {
	return r.list(ctx,
		"SELECT "+dealCols+" FROM deals WHERE contact_id = ? AND user_id = ? ORDER BY created_at DESC, id DESC",
		contactID, uid)
}

// ListByCompanyAndOwner returns the owner's deals linked to a company.
func (r *DealRepo) ListByCompanyAndOwner(ctx context.Context, companyID, uid uint64) ([]*model.Deal, error) {
	return r.list(ctx,
		"SELECT "+dealCols+" FROM deals WHERE company_id = ? AND user_id = ? ORDER BY created_at DESC, id DESC",
		companyID, uid)
}

// Search performs a case-insensitive substring match over deal
// titles within the owner's deals.
func (r *DealRepo) Search(ctx context.Context, q string, uid uint64) ([]*model.Deal, error) {
	pat := "%" + strings.ToLower(q) + "%"
	return r.list(ctx,
		"SELECT "+dealCols+" FROM deals WHERE user_id = ? AND LOWER(title) LIKE ? ORDER BY created_at DESC, id DESC",
		uid, pat)
}

// SumValueByOwner totals the value of every deal owned by uid.
func (r *DealRepo) SumValueByOwner(ctx context.Context, uid uint64) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(value), 0) FROM deals WHERE user_id = ?", uid).Scan(&sum)
	return sum, err
}

// SumValueByStageAndOwner totals the value of the owner's deals in
// one stage; stages with no deals total zero.
func (r *DealRepo) SumValueByStageAndOwner(ctx context.Context, stage string, uid uint64) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(value), 0) FROM deals WHERE stage = ? AND user_id = ?", stage, uid).Scan(&sum)
	return sum, err
}

// CountByOwner returns how many deals uid owns.
func (r *DealRepo) CountByOwner(ctx context.Context, uid uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM deals WHERE user_id = ?", uid).Scan(&n)
	return n, err
}

// Update applies only the fields present in the patch; see
// ContactRepo.Update for the contract.
func (r *DealRepo) Update(ctx context.Context, id, uid uint64, p model.DealPatch) (*model.Deal, error) {
	if p.Empty() {
		return r.GetByIDAndOwner(ctx, id, uid)
	}
	set := []string{}
	args := []any{}
	if p.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Value != nil {
		set = append(set, "value = ?")
		args = append(args, *p.Value)
	}
	if p.Stage != nil {
		set = append(set, "stage = ?")
		args = append(args, *p.Stage)
	}
	if p.ContactID != nil {
		set = append(set, "contact_id = ?")
		args = append(args, *p.ContactID)
	}
	if p.CompanyID != nil {
		set = append(set, "company_id = ?")
		args = append(args, *p.CompanyID)
	}
	if p.ExpectedCloseDate != nil {
		set = append(set, "expected_close_date = ?")
		args = append(args, *p.ExpectedCloseDate)
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, uid)

	if _, err := r.db.ExecContext(ctx,
		"UPDATE deals SET "+strings.Join(set, ", ")+" WHERE id = ? AND user_id = ?", args...); err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, id, uid)
}

// DeleteByIDAndOwner removes the deal and reports whether a row
// matching both id and owner was actually deleted.
func (r *DealRepo) DeleteByIDAndOwner(ctx context.Context, id, uid uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM deals WHERE id = ? AND user_id = ?", id, uid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *DealRepo) list(ctx context.Context, query string, args ...any) ([]*model.Deal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
