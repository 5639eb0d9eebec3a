package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Callers must treat any of these as "not authenticated".
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Claims is the verified identity carried by an access token.
type Claims struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
}

// Issuer mints and verifies stateless HS256 access tokens. Validity is purely
// signature + expiry; tokens are never stored server-side and cannot be revoked
// before natural expiry.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the access token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Mint creates a signed access token for the user. Pure, no side effects.
func (i *Issuer) Mint(userID, username, email string, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"email":    email,
		"roles":    roles,
		"iat":      now.Unix(),
		"exp":      now.Add(i.ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(i.secret)
}

// Verify parses and validates a raw token and returns its claims. Deterministic,
// no I/O; failures map onto the sentinel errors above.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}

	c := &Claims{}
	c.UserID, _ = mc["sub"].(string)
	c.Username, _ = mc["username"].(string)
	c.Email, _ = mc["email"].(string)
	if rs, ok := mc["roles"].([]interface{}); ok {
		for _, r := range rs {
			if s, ok := r.(string); ok {
				c.Roles = append(c.Roles, s)
			}
		}
	}
	if c.UserID == "" {
		return nil, ErrMalformedToken
	}
	return c, nil
}
