package services

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/database/testdb"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIdentity(t *testing.T) *Identity {
	t.Helper()
	id, err := NewIdentity(testdb.New(t), "test-secret", time.Hour)
	require.NoError(t, err)
	created, err := id.SeedAdmin(context.Background(), "admin@example.com", "Secret123", "Admin")
	require.NoError(t, err)
	require.True(t, created)
	return id
}

func TestIdentity_LoginAndValidate(t *testing.T) {
	id := newTestIdentity(t)
	ctx := context.Background()

	session, err := id.Login(ctx, "Admin@Example.com", "Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Empty(t, session.User.Password)
	assert.NotNil(t, session.User.LastLogin)

	subject, err := id.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, subject)

	user, err := id.CurrentUser(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
}

func TestIdentity_BadCredentialsLookTheSame(t *testing.T) {
	id := newTestIdentity(t)
	ctx := context.Background()

	_, wrongPassword := id.Login(ctx, "admin@example.com", "nope")
	_, unknownEmail := id.Login(ctx, "ghost@example.com", "Secret123")

	assert.True(t, errs.IsInvalidCredentialsError(wrongPassword))
	assert.True(t, errs.IsInvalidCredentialsError(unknownEmail))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestIdentity_ExpiredAndTamperedTokens(t *testing.T) {
	id := newTestIdentity(t)
	session, err := id.Login(context.Background(), "admin@example.com", "Secret123")
	require.NoError(t, err)

	id.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = id.ValidateToken(session.Token)
	assert.True(t, errs.IsExpiredTokenError(err))

	id.now = time.Now
	_, err = id.ValidateToken(session.Token + "x")
	assert.True(t, errs.IsInvalidTokenError(err))

	other, err := NewIdentity(testdb.New(t), "another-secret", time.Hour)
	require.NoError(t, err)
	_, err = other.ValidateToken(session.Token)
	assert.True(t, errs.IsInvalidTokenError(err))
}

func TestIdentity_ChangePassword(t *testing.T) {
	id := newTestIdentity(t)
	ctx := context.Background()
	session, err := id.Login(ctx, "admin@example.com", "Secret123")
	require.NoError(t, err)
	userID := session.User.ID

	_, err = id.ChangePassword(ctx, userID, "wrong", "NewSecret123")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = id.ChangePassword(ctx, userID, "Secret123", "Secret123")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = id.ChangePassword(ctx, userID, "Secret123", "alllowercase1")
	assert.ErrorIs(t, err, errs.ErrValidation)

	token, err := id.ChangePassword(ctx, userID, "Secret123", "NewSecret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = id.Login(ctx, "admin@example.com", "NewSecret123")
	assert.NoError(t, err)
}

func TestIdentity_SeedAdminOnlyOnce(t *testing.T) {
	id := newTestIdentity(t)

	created, err := id.SeedAdmin(context.Background(), "admin@example.com", "Other123", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = id.SeedAdmin(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestNewIdentity_RequiresSecret(t *testing.T) {
	_, err := NewIdentity(testdb.New(t), "", time.Hour)
	assert.True(t, errs.IsConfigError(err))
}

func TestPasswordStrengthProblem(t *testing.T) {
	assert.NotEmpty(t, PasswordStrengthProblem("Ab1"))
	assert.NotEmpty(t, PasswordStrengthProblem("abcdefgh1"))
	assert.NotEmpty(t, PasswordStrengthProblem("ABCDEFGH1"))
	assert.NotEmpty(t, PasswordStrengthProblem("Abcdefghi"))
	assert.Empty(t, PasswordStrengthProblem("Abcdefgh1"))
}
