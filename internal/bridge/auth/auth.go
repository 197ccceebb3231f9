// Package auth implements the bridge dashboard's single-operator session
// guard: a bcrypt password check and an opaque UUID session token with a
// TTL, gating the command-issuing endpoints.
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login on a bad password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ErrInvalidSession is returned by Authorize on an unknown/expired token.
var ErrInvalidSession = errors.New("auth: invalid session")

// DefaultSessionTTL is an arbitrary, generous default for a single
// trusted operator's dashboard session.
const DefaultSessionTTL = 12 * time.Hour

// Guard gates dashboard command endpoints behind a single operator
// password.
type Guard struct {
	passwordHash []byte
	sessionTTL   time.Duration

	mu       sync.Mutex
	sessions map[string]time.Time
}

// NewGuard hashes password with bcrypt and returns a ready Guard.
func NewGuard(password string) (*Guard, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Guard{
		passwordHash: hash,
		sessionTTL:   DefaultSessionTTL,
		sessions:     make(map[string]time.Time),
	}, nil
}

// Login checks password and, on success, mints a new session token.
func (g *Guard) Login(password string) (string, error) {
	if bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	token := uuid.NewString()
	g.mu.Lock()
	g.sessions[token] = time.Now().Add(g.sessionTTL)
	g.mu.Unlock()
	return token, nil
}

// Authorize validates a session token, evicting it if expired.
func (g *Guard) Authorize(token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	exp, ok := g.sessions[token]
	if !ok {
		return ErrInvalidSession
	}
	if time.Now().After(exp) {
		delete(g.sessions, token)
		return ErrInvalidSession
	}
	return nil
}

// Logout invalidates a session token immediately.
func (g *Guard) Logout(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}
