package auth

import (
	"time"

	"kopikeliling/internal/core/apperror"
)

// Owner is the single dashboard account. The password hash is bcrypt.
type Owner struct {
	Username     string
	PasswordHash string

	failedAttempts int
	lockedUntil    time.Time
}

// IsLocked reports whether the account is locked at now.
func (o *Owner) IsLocked(now time.Time) bool {
	return now.Before(o.lockedUntil)
}

// CanLogin checks if the owner can log in at now.
func (o *Owner) CanLogin(now time.Time) error {
	if o.PasswordHash == "" {
		return apperror.NewForbidden("login is not configured")
	}
	if o.IsLocked(now) {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failure counter and locks after maxAttempts.
func (o *Owner) RecordFailedLogin(now time.Time, maxAttempts int, lockDuration time.Duration) {
	o.failedAttempts++
	if o.failedAttempts >= maxAttempts {
		o.lockedUntil = now.Add(lockDuration)
		o.failedAttempts = 0
	}
}

// RecordSuccessfulLogin resets the failure counter.
func (o *Owner) RecordSuccessfulLogin() {
	o.failedAttempts = 0
	o.lockedUntil = time.Time{}
}

// Token is the login response.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

// Credentials for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
