package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTicket is returned for malformed or tampered download tokens.
	ErrInvalidTicket = errors.New("invalid download token")
	// ErrExpiredTicket is returned once a token's expiry has passed.
	ErrExpiredTicket = errors.New("download token expired")
)

// Ticket is the metadata carried by a signed download token.
type Ticket struct {
	Owner     string
	Path      string
	ExpiresAt time.Time
}

// DownloadSigner issues and checks HMAC signed download tokens.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewDownloadSigner constructs a signer with the provided secret and TTL.
func NewDownloadSigner(secret string, ttl time.Duration) *DownloadSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DownloadSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token granting access to path on behalf of owner.
func (s *DownloadSigner) Issue(owner, path string) (string, Ticket, error) {
	if owner == "" || path == "" {
		return "", Ticket{}, fmt.Errorf("owner and path required")
	}
	if strings.Contains(owner, ".") {
		return "", Ticket{}, fmt.Errorf("owner %q must not contain '.'", owner)
	}
	if len(s.secret) == 0 {
		return "", Ticket{}, fmt.Errorf("signing secret missing")
	}
	ticket := Ticket{Owner: owner, Path: path, ExpiresAt: s.now().Add(s.ttl).Truncate(time.Second)}
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(path))
	expiry := strconv.FormatInt(ticket.ExpiresAt.Unix(), 10)
	token := strings.Join([]string{owner, expiry, encodedPath, s.sign(owner, expiry, encodedPath)}, ".")
	return token, ticket, nil
}

// Verify checks the signature and expiry of token and returns its ticket.
func (s *DownloadSigner) Verify(token string) (Ticket, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return Ticket{}, ErrInvalidTicket
	}
	owner, expiry, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(owner, expiry, encodedPath)), []byte(signature)) {
		return Ticket{}, ErrInvalidTicket
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	unix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}

	ticket := Ticket{Owner: owner, Path: string(rawPath), ExpiresAt: time.Unix(unix, 0)}
	if s.now().After(ticket.ExpiresAt) {
		return ticket, ErrExpiredTicket
	}
	return ticket, nil
}

func (s *DownloadSigner) sign(owner, expiry, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(owner + "|" + expiry + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
