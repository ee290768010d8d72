package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoCredentials is returned when no bearer credential is stored.
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is the bearer credential persisted after login. The file lives
// next to the data dir with 0600 permissions; the token inside is opaque to
// us except for display-only claim decoding.
type Credentials struct {
	AccessToken string    `json:"access_token"`
	Username    string    `json:"username,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

func credentialsFilePath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "documind", "credentials.json")
}

// SaveCredentials persists the credential after a successful login.
func SaveCredentials(c Credentials) error {
	p := credentialsFilePath()
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

// LoadCredentials reads the stored credential, returning ErrNoCredentials
// when none exists.
func LoadCredentials() (Credentials, error) {
	data, err := os.ReadFile(credentialsFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, fmt.Errorf("reading credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials: %w", err)
	}
	if c.AccessToken == "" {
		return Credentials{}, ErrNoCredentials
	}
	return c, nil
}

// ClearCredentials removes the stored credential. Missing file is not an
// error; logout is idempotent.
func ClearCredentials() error {
	err := os.Remove(credentialsFilePath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}

// TokenClaims is the display-only view of the bearer token. The claims are
// decoded without signature verification; the backend is the authority,
// this is just for `whoami` and expiry warnings.
type TokenClaims struct {
	Subject   string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// DecodeClaims extracts claims from a JWT without verifying it.
func DecodeClaims(token string) (TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, fmt.Errorf("decoding token: %w", err)
	}

	tc := TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		tc.Subject = sub
	}
	if v, ok := claims["username"].(string); ok {
		tc.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		tc.Role = v
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	return tc, nil
}

// Expired reports whether the token carries an exp claim in the past.
func (tc TokenClaims) Expired() bool {
	return !tc.ExpiresAt.IsZero() && time.Now().After(tc.ExpiresAt)
}
