package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService issues and verifies HMAC-signed JWTs. Logout is honored through
// an in-process jti denylist; entries fall out once the token itself expires.
type AuthService struct {
	hmac []byte
	ttl  time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		hmac:    []byte(secret),
		ttl:     ttl,
		revoked: map[string]time.Time{},
	}
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(userID, username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quizlab",
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	if a.isRevoked(c.ID) {
		return nil, errors.New("token revoked")
	}
	return c, nil
}

// Revoke denylists the token until its natural expiry.
func (a *AuthService) Revoke(c *Claims) {
	exp := time.Now().Add(a.ttl)
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	for jti, e := range a.revoked {
		if e.Before(now) {
			delete(a.revoked, jti)
		}
	}
	a.revoked[c.ID] = exp
}

func (a *AuthService) isRevoked(jti string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	exp, ok := a.revoked[jti]
	if !ok {
		return false
	}
	if exp.Before(time.Now()) {
		delete(a.revoked, jti)
		return false
	}
	return true
}
