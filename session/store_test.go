package session

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumekit/plume/mocks"
	"github.com/plumekit/plume/models"
	"github.com/plumekit/plume/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "session-test-secret")
	os.Exit(m.Run())
}

func newTestStore() (*Store, *mocks.MockCredentialStore, *mocks.MockUserStore) {
	creds := mocks.NewMockCredentialStore()
	users := mocks.NewMockUserStore()
	return New(creds, users), creds, users
}

func TestSignup(t *testing.T) {
	s, _, users := newTestStore()
	ctx := context.Background()

	user, token, err := s.Signup(ctx, "Alice@Example.com", "secret123", "Alice", "Smith")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotEmpty(t, token)

	// Email is normalized to lower case.
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.FirstName)
	assert.Equal(t, "Smith", user.LastName)

	// The profile row exists under the credential id.
	stored, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)

	// The token encodes the user identity.
	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	_, _, err := s.Signup(ctx, "dup@example.com", "secret123", "", "")
	require.NoError(t, err)

	_, _, err = s.Signup(ctx, "dup@example.com", "other-password", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupWeakPassword(t *testing.T) {
	s, _, _ := newTestStore()

	_, _, err := s.Signup(context.Background(), "weak@example.com", "abc", "", "")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	signedUp, _, err := s.Signup(ctx, "login@example.com", "secret123", "", "")
	require.NoError(t, err)

	user, token, err := s.Login(ctx, "login@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, signedUp.ID, user.ID)

	_, _, err = s.Login(ctx, "login@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginProvisionsMissingProfile(t *testing.T) {
	s, creds, users := newTestStore()
	ctx := context.Background()

	// A credential without a profile row, as left behind by an interrupted
	// signup or an account imported from elsewhere.
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	cred := models.Credential{
		Email:        "orphan@example.com",
		PasswordHash: hash,
		FirstName:    "Orphan",
		LastName:     "Account",
	}
	require.NoError(t, creds.Create(ctx, &cred))

	user, _, err := s.Login(ctx, "orphan@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, cred.ID, user.ID)
	assert.Equal(t, "Orphan", user.FirstName)
	assert.Equal(t, "Account", user.LastName)

	// The provisioned row persists.
	stored, err := users.Get(ctx, cred.ID)
	require.NoError(t, err)
	assert.Equal(t, "orphan@example.com", stored.Email)
}

func TestLogoutRevokesToken(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	_, token, err := s.Signup(ctx, "bye@example.com", "secret123", "", "")
	require.NoError(t, err)
	require.False(t, utils.IsTokenBlacklisted(token))

	require.NoError(t, s.Logout(token))
	assert.True(t, utils.IsTokenBlacklisted(token))
}

func TestLogoutInvalidToken(t *testing.T) {
	s, _, _ := newTestStore()
	assert.Error(t, s.Logout("not-a-token"))
}

func TestSubscribe(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	var events []*models.User
	cancel := s.Subscribe(func(u *models.User) {
		events = append(events, u)
	})

	user, token, err := s.Signup(ctx, "sub@example.com", "secret123", "", "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, user.ID, events[0].ID)

	_, _, err = s.Login(ctx, "sub@example.com", "secret123")
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.NoError(t, s.Logout(token))
	require.Len(t, events, 3)
	assert.Nil(t, events[2])

	// After unsubscribing no further events arrive.
	cancel()
	_, _, err = s.Login(ctx, "sub@example.com", "secret123")
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestFailedLoginDoesNotNotify(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	_, _, err := s.Signup(ctx, "quiet@example.com", "secret123", "", "")
	require.NoError(t, err)

	var notified int
	defer s.Subscribe(func(*models.User) { notified++ })()

	_, _, err = s.Login(ctx, "quiet@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Zero(t, notified)
}
