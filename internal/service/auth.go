package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xiaoyibao/medassist/internal/domain"
)

// Authenticator implements the web front-end's login gate: password checked
// against the configured login policy, bearer tokens valid for the policy's
// expiry duration. With no password configured the gate is disabled.
// Tokens live in memory only, like the sessions they guard.
type Authenticator struct {
	password string
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewAuthenticator(password string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		password: password,
		ttl:      ttl,
		now:      time.Now,
		tokens:   make(map[string]time.Time),
	}
}

// Enabled reports whether a login password is configured.
func (a *Authenticator) Enabled() bool {
	return a.password != ""
}

// Login checks the password and issues a token with the configured expiry.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if password != a.password {
		return "", time.Time{}, domain.ErrWrongPassword
	}
	token := uuid.NewString()
	expiry := a.now().Add(a.ttl)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = expiry
	return token, expiry, nil
}

// Validate reports whether the token exists and has not expired. Expired
// tokens are pruned on sight.
func (a *Authenticator) Validate(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	expiry, ok := a.tokens[token]
	if !ok {
		return false
	}
	if a.now().After(expiry) {
		delete(a.tokens, token)
		return false
	}
	return true
}
