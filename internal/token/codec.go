// Package token issues and decodes the bearer credential used by the API.
//
// A token has the shape
//
//	bt-<mac>-<user uuid>-<issued at, epoch millis>
//
// Split on "-", the user id occupies segments 2 through 6 and the issue time is
// segment 7. The mac is a hex HMAC-SHA256 over everything after it, so the
// embedded user id cannot be changed without the server secret.
package token

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Prefix    = "bt"
	Delimiter = "-"

	// MinSegments is the fewest delimiter segments a decodable token can have.
	MinSegments = 7
	maxSegments = 8
)

var (
	ErrMalformedStructure = errors.New("token: malformed structure")
	ErrInvalidSignature   = errors.New("token: invalid signature")
	ErrInvalidUserID      = errors.New("token: user id must be a canonical uuid")
	ErrEmptySecret        = errors.New("token: secret must not be empty")
)

type Claims struct {
	UserID   string
	IssuedAt time.Time
}

type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

func (c *Codec) Issue(userID string) (string, error) {
	if !canonicalUUID(userID) {
		return "", ErrInvalidUserID
	}
	payload := userID + Delimiter + strconv.FormatInt(c.now().UnixMilli(), 10)
	mac, err := c.sign(payload)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return Prefix + Delimiter + mac + Delimiter + payload, nil
}

func (c *Codec) Decode(tok string) (Claims, error) {
	parts := strings.Split(tok, Delimiter)
	if len(parts) < MinSegments || len(parts) > maxSegments || parts[0] != Prefix {
		return Claims{}, ErrMalformedStructure
	}

	userID := strings.Join(parts[2:7], Delimiter)
	if !canonicalUUID(userID) {
		return Claims{}, ErrMalformedStructure
	}

	sig, err := hex.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrMalformedStructure
	}
	payload := strings.Join(parts[2:], Delimiter)
	if err := jwt.SigningMethodHS256.Verify(payload, sig, c.secret); err != nil {
		return Claims{}, ErrInvalidSignature
	}

	claims := Claims{UserID: userID}
	// An unreadable timestamp is tolerated; no expiry policy depends on it.
	if len(parts) == maxSegments {
		if ms, err := strconv.ParseInt(parts[7], 10, 64); err == nil {
			claims.IssuedAt = time.UnixMilli(ms)
		}
	}
	return claims, nil
}

func (c *Codec) sign(payload string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(payload, c.secret)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

func canonicalUUID(s string) bool {
	id, err := uuid.Parse(s)
	return err == nil && id.String() == s
}
