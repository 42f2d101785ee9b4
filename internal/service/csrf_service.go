package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// CSRFService handles CSRF token operations.
//
// The session keeps a random raw token. Pages carry a signed, timestamped
// form of it, so a leaked page token stops working after the time limit and
// can never be replayed against another session.
type CSRFService interface {
	NewSessionToken() (string, error)
	GenerateToken(raw string) string
	ValidateToken(raw, token string) error
}

type csrfService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCSRFService creates a new CSRF service
func NewCSRFService(secret string, ttl time.Duration) CSRFService {
	return &csrfService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewSessionToken generates the raw token stored in the session
func (s *csrfService) NewSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateToken signs raw with the current time for embedding in a page
func (s *csrfService) GenerateToken(raw string) string {
	ts := strconv.FormatInt(s.now().Unix(), 10)
	return raw + "." + ts + "." + s.sign(raw, ts)
}

// ValidateToken checks a submitted token against the session's raw token
func (s *csrfService) ValidateToken(raw, token string) error {
	if token == "" {
		return ErrCSRFMissing
	}
	if raw == "" {
		return ErrCSRFInvalid
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrCSRFInvalid
	}
	if !hmac.Equal([]byte(parts[2]), []byte(s.sign(parts[0], parts[1]))) {
		return ErrCSRFInvalid
	}

	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ErrCSRFInvalid
	}
	if s.now().Sub(time.Unix(issued, 0)) > s.ttl {
		return ErrCSRFExpired
	}

	if subtle.ConstantTimeCompare([]byte(parts[0]), []byte(raw)) != 1 {
		return ErrCSRFInvalid
	}
	return nil
}

func (s *csrfService) sign(raw, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(raw))
	mac.Write([]byte("|"))
	mac.Write([]byte(ts))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
