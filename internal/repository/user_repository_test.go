package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/utils"
)

func newUserMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func userRows(id uint64, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "role", "created_at", "updated_at",
	}).AddRow(id, email, "$2a$04$fakefakefakefakefakefake", "Alice", "Smith", model.RoleUser, now, now)
}

func TestUserCreateNormalizesEmailAndHashes(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO users (email, password_hash, first_name, last_name, role) VALUES (?,?,?,?,?)")).
		WithArgs("alice@x.com", sqlmock.AnyArg(), "Alice", "Smith", model.RoleUser).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ? LIMIT 1")).
		WithArgs(1).
		WillReturnRows(userRows(1, "alice@x.com"))

	u, err := repo.Create(context.Background(), "  Alice@X.com ", "secret123", "Alice", "Smith", model.RoleUser, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice@x.com' for key 'users.email'"))

	_, err := repo.Create(context.Background(), "alice@x.com", "secret123", "Alice", "Smith", model.RoleUser, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNormalizesLookup(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ? LIMIT 1")).
		WithArgs("alice@x.com").
		WillReturnRows(userRows(1, "alice@x.com"))

	u, err := repo.GetByEmail(context.Background(), " ALICE@x.com ")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDMiss(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ? LIMIT 1")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateStoresVerifiableHash(t *testing.T) {
	repo, mock := newUserMock(t)

	var stored string
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("bob@x.com", hashCapture{&stored}, "Bob", "Jones", model.RoleSalesRep).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ? LIMIT 1")).
		WithArgs(2).
		WillReturnRows(userRows(2, "bob@x.com"))

	_, err := repo.Create(context.Background(), "bob@x.com", "hunter2secret", "Bob", "Jones", model.RoleSalesRep, bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(stored, "hunter2secret"))
	assert.False(t, utils.VerifyPassword(stored, "wrong"))
	require.NoError(t, mock.ExpectationsWereMet())
}

// hashCapture records the bcrypt hash passed to the INSERT so the
// test can verify it instead of comparing an unstable value.
type hashCapture struct{ dst *string }

func (h hashCapture) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	*h.dst = s
	return true
}
