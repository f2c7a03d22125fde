package adminauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrNotConfigured indicates the session secret or admin password is missing.
// Callers must treat it as fatal and keep admin routes unmounted (fail closed).
var ErrNotConfigured = errors.New("admin auth not configured")

// Config carries the secrets injected at construction. PasswordHash (bcrypt)
// wins over the plaintext Password fallback when both are set.
type Config struct {
	Secret       []byte
	Password     string
	PasswordHash string
	TTL          time.Duration
}

// Service issues and verifies stateless signed session tokens of the form
// base64url(JSON{exp}) + "." + signature. New tokens sign with hex; the
// verifier also accepts base64url signatures issued by older builds.
type Service struct {
	cfg Config
	now func() time.Time
}

// New validates cfg and builds a Service. The clock defaults to time.Now and
// is swappable via WithClock for deterministic expiry tests.
func New(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNotConfigured
	}
	if cfg.Password == "" && cfg.PasswordHash == "" {
		return nil, ErrNotConfigured
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

// WithClock replaces the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TTL is the session lifetime, exposed for cookie max-age.
func (s *Service) TTL() time.Duration {
	return s.cfg.TTL
}

type tokenPayload struct {
	Exp int64 `json:"exp"`
}

// CreateToken issues a token expiring TTL from now. There is no renewal
// transition; a session simply expires and requires re-login.
func (s *Service) CreateToken() (string, error) {
	payload, err := json.Marshal(tokenPayload{Exp: s.now().Unix() + int64(s.cfg.TTL.Seconds())})
	if err != nil {
		return "", err
	}
	part := base64.RawURLEncoding.EncodeToString(payload)
	return part + "." + hex.EncodeToString(s.sign(part)), nil
}

// VerifyToken reports whether token carries a valid signature and an
// unexpired exp claim. Every failure mode collapses to false; callers never
// learn whether the token was malformed, forged, or stale.
func (s *Service) VerifyToken(token string) bool {
	part, sigPart, ok := strings.Cut(token, ".")
	if !ok || part == "" || sigPart == "" || strings.Contains(sigPart, ".") {
		return false
	}

	// Signature over the encoded payload string, not the decoded JSON.
	want := s.sign(part)
	got, err := hex.DecodeString(sigPart)
	if err != nil {
		// Older builds emitted base64url signatures.
		got, err = base64.RawURLEncoding.DecodeString(sigPart)
		if err != nil {
			return false
		}
	}
	if !hmac.Equal(want, got) {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return false
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	return payload.Exp > s.now().Unix()
}

// CheckPassword compares a submitted admin password without leaking timing.
func (s *Service) CheckPassword(submitted string) bool {
	if s.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(s.cfg.Password)) == 1
}

func (s *Service) sign(payloadPart string) []byte {
	mac := hmac.New(sha256.New, s.cfg.Secret)
	mac.Write([]byte(payloadPart))
	return mac.Sum(nil)
}
