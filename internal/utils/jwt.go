package utils // package utils provides helpers for session token creation and password hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Token service errors.  Callers map them onto the API error kinds.
var (
	ErrMissingSecret = errors.New("jwt secret is not configured")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// Claims is the identity encoded in a session token next to the standard
// registered claims (exp, iat, sub).
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AccessToken represents a signed session token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenService issues and verifies HS256 session tokens.  Tokens are
// stateless; nothing is stored server side and nothing can be revoked
// before it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a TokenService signing with secret.  An empty
// secret is accepted here so the process can start; Issue and Verify
// report ErrMissingSecret instead.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the token lifetime, which is also the cookie lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs the identity with an expiry of now+TTL.
func (s *TokenService) Issue(id int64, email, role string) (AccessToken, error) {
	if len(s.secret) == 0 {
		return AccessToken{}, ErrMissingSecret
	}
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify parses raw and returns its claims.  Expired tokens yield
// ErrTokenExpired; any other failure (bad signature, wrong algorithm,
// garbage) yields ErrTokenInvalid.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenInvalid
	}
}
