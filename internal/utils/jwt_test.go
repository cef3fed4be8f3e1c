package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxcrm/maxcrm-api/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	u := &model.User{ID: 42, Email: "alice@x.com", Role: model.RoleSalesRep}

	tok, err := NewAccessToken("secret", u, 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, model.RoleSalesRep, claims.Role)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	u := &model.User{ID: 1, Email: "a@b.c", Role: model.RoleUser}
	tok, err := NewAccessToken("secret", u, 7)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessTokenExpired(t *testing.T) {
	u := &model.User{ID: 1, Email: "a@b.c", Role: model.RoleUser}
	tok, err := NewAccessToken("secret", u, -1)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken("secret", "not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
