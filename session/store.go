// Package session mediates signup, login and logout against the credential
// and profile stores, and broadcasts current-user changes to registered
// subscribers.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/plumekit/plume/models"
	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// TokenDuration controls how long issued JWTs stay valid.
const TokenDuration = 72 * time.Hour

var (
	// ErrInvalidCredentials is returned on a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up with an already registered email.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrWeakPassword is returned when the password does not meet the minimum length.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

const minPasswordLen = 6

// Store moves accounts between the anonymous and authenticated states. On any
// failure the stored state is left unchanged and no subscriber is notified.
type Store struct {
	creds store.CredentialStore
	users store.UserStore

	mu      sync.Mutex
	subs    map[int]func(*models.User)
	nextSub int
}

// New creates a session store over the given credential and profile stores.
func New(creds store.CredentialStore, users store.UserStore) *Store {
	return &Store{
		creds: creds,
		users: users,
		subs:  map[int]func(*models.User){},
	}
}

// Signup registers a new credential, provisions the profile row and issues a
// token.
func (s *Store) Signup(ctx context.Context, email, password, firstName, lastName string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return nil, "", ErrWeakPassword
	}

	if _, err := s.creds.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	cred := models.Credential{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
	}
	if err := s.creds.Create(ctx, &cred); err != nil {
		return nil, "", err
	}

	user := models.User{
		ID:        cred.ID,
		Email:     cred.Email,
		FirstName: cred.FirstName,
		LastName:  cred.LastName,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, TokenDuration)
	if err != nil {
		return nil, "", err
	}

	s.notify(&user)
	return &user, token, nil
}

// Login verifies the credential and loads the profile row. When an identity
// authenticates before its profile row exists, the row is provisioned from
// the signup-time name metadata (first-login provisioning).
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPassword(cred.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.Get(ctx, cred.ID)
	if errors.Is(err, store.ErrNotFound) {
		user = &models.User{
			ID:        cred.ID,
			Email:     cred.Email,
			FirstName: cred.FirstName,
			LastName:  cred.LastName,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, TokenDuration)
	if err != nil {
		return nil, "", err
	}

	s.notify(user)
	return user, token, nil
}

// Logout revokes the token until its natural expiry and notifies subscribers
// with a nil current user.
func (s *Store) Logout(token string) error {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(TokenDuration)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)

	s.notify(nil)
	return nil
}

// Subscribe registers fn to be called with each current-user change (nil on
// logout). The returned function unsubscribes.
func (s *Store) Subscribe(fn func(*models.User)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(u *models.User) {
	s.mu.Lock()
	fns := make([]func(*models.User), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}
