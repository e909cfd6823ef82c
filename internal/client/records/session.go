package records

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims is the payload of the session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Schema int         `json:"schema"`
	User   models.User `json:"usr"`
}

// SessionCodec turns the current user into a signed HS256 token and back.
// Tampered, malformed, expired or unknown-schema tokens decode to
// common.ErrCorruptRecord so the caller can discard them.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionCodec builds a codec. A ttl of zero means sessions never expire.
func NewSessionCodec(secret []byte, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: secret, ttl: ttl, now: time.Now}
}

// Encode signs u. The password never goes into the token.
func (c *SessionCodec) Encode(u models.User) ([]byte, error) {
	now := c.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Schema: SchemaVersion,
		User:   u.WithoutPassword(),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return []byte(token), nil
}

// Decode verifies raw and returns the session user.
func (c *SessionCodec) Decode(raw []byte) (*models.User, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(string(raw), claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: session expired", common.ErrCorruptRecord)
		}
		return nil, fmt.Errorf("%w: session: %v", common.ErrCorruptRecord, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: session token invalid", common.ErrCorruptRecord)
	}

	if claims.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %w: session schema %d", common.ErrCorruptRecord, common.ErrUnsupportedSchema, claims.Schema)
	}
	if err := validateUser(claims.User); err != nil {
		return nil, fmt.Errorf("%w: session user: %v", common.ErrCorruptRecord, err)
	}

	u := claims.User
	u.Password = ""
	return &u, nil
}
