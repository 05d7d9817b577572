package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signatures, malformed tokens and expired ones.
// Verification is pure: no store access, so revocation of refresh tokens is
// enforced elsewhere against the hashed record.
var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// Claims are the self-contained payload of both token kinds.
// Subject carries the user id.
type Claims struct {
	Email  string `json:"email"`
	Handle string `json:"handle"`
	jwtlib.RegisteredClaims
}

func New(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken signs a short-lived token for per-request authorization.
func (s *Service) IssueAccessToken(userID, email, handle string) (string, error) {
	return s.sign(userID, email, handle, s.accessTTL)
}

// IssueRefreshToken signs the long-lived token whose hash is additionally
// persisted so it can be revoked.
func (s *Service) IssueRefreshToken(userID, email, handle string) (string, error) {
	return s.sign(userID, email, handle, s.refreshTTL)
}

func (s *Service) sign(userID, email, handle string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:  email,
		Handle: handle,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) Verify(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
