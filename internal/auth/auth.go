// Package auth provides password authentication and in-memory session
// state for the bot. Sessions live for the process lifetime only; a
// restart logs everyone out and that is accepted behavior.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	. "voxgram/internal/logging"
)

// Brute-force lockout: after maxFailures wrong passwords the user is
// locked out for lockoutPeriod.
const (
	maxFailures   = 5
	lockoutPeriod = 10 * time.Minute
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrNoPassword      = errors.New("no password provided")
)

// LockedOutError reports an active brute-force lockout.
type LockedOutError struct {
	Remaining time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("locked out for another %s", e.Remaining.Round(time.Second))
}

// Session records that a user authenticated during this process lifetime.
type Session struct {
	UserID          int64
	AuthenticatedAt time.Time
}

type failureState struct {
	count        int
	lockoutUntil time.Time
}

// Authenticator holds the shared secret and the session map. All methods
// are safe for concurrent use; two users may authenticate simultaneously.
type Authenticator struct {
	secret   string
	mu       sync.RWMutex
	sessions map[int64]Session
	failures map[int64]*failureState
	now      func() time.Time // swapped out in tests
}

// New creates an Authenticator for the given shared secret. The secret
// may be plaintext or a bcrypt hash ($2a$/$2b$/$2y$ prefix).
func New(secret string) *Authenticator {
	return &Authenticator{
		secret:   secret,
		sessions: make(map[int64]Session),
		failures: make(map[int64]*failureState),
		now:      time.Now,
	}
}

// Authenticate checks the supplied password and, on success, marks the
// user authenticated for the remainder of the process lifetime.
// Returns ErrInvalidPassword on mismatch and *LockedOutError while a
// brute-force lockout is active.
func (a *Authenticator) Authenticate(userID int64, supplied string) error {
	supplied = strings.TrimSpace(supplied)
	if supplied == "" {
		return ErrNoPassword
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if fs := a.failures[userID]; fs != nil && now.Before(fs.lockoutUntil) {
		return &LockedOutError{Remaining: fs.lockoutUntil.Sub(now)}
	}

	if !verifySecret(a.secret, supplied) {
		fs := a.failures[userID]
		if fs == nil || (!fs.lockoutUntil.IsZero() && now.After(fs.lockoutUntil)) {
			fs = &failureState{}
			a.failures[userID] = fs
		}
		fs.count++
		if fs.count >= maxFailures {
			fs.lockoutUntil = now.Add(lockoutPeriod)
			fs.count = 0
			L_warn("auth: user locked out", "userID", userID, "period", lockoutPeriod)
		}
		return ErrInvalidPassword
	}

	delete(a.failures, userID)
	a.sessions[userID] = Session{UserID: userID, AuthenticatedAt: now}
	L_info("auth: user authenticated", "userID", userID)
	return nil
}

// IsAuthenticated reports whether the user logged in during this
// process lifetime.
func (a *Authenticator) IsAuthenticated(userID int64) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.sessions[userID]
	return ok
}

// SessionCount returns the number of authenticated users.
func (a *Authenticator) SessionCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sessions)
}

// verifySecret checks the supplied password against the configured secret.
// A bcrypt-formatted secret is verified with bcrypt; anything else is
// compared byte-for-byte in constant time. Plain string equality would
// leak the mismatch position through timing.
func verifySecret(secret, supplied string) bool {
	if isBcryptHash(secret) {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(supplied)) == 1
}

// isBcryptHash reports whether s looks like a bcrypt hash.
func isBcryptHash(s string) bool {
	if len(s) < 4 || s[0] != '$' {
		return false
	}
	prefix := s[:4]
	return prefix == "$2a$" || prefix == "$2b$" || prefix == "$2y$"
}

// HashPassword creates a bcrypt hash of a password. Useful for
// generating a hashed BOT_PASSWORD value.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
