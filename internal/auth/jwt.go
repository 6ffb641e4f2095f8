package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"badbaado/internal/platform/middleware"
	"badbaado/pkg/domerrors"
)

// Claims represents the JWT claims for our access tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService handles JWT creation and validation. Tokens carry the subject
// (user or admin ID) and an audience separating the two credential spaces.
// Validation consults the revocation list so deactivated accounts fail closed
// before their tokens expire.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	revocation RevocationList
}

func NewTokenService(signingKey string, ttl time.Duration, revocation RevocationList) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		revocation: revocation,
	}
}

// TTL returns the configured token lifetime, used as revocation TTL.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// GenerateUserToken issues an access token for a donor account.
func (s *TokenService) GenerateUserToken(userID uuid.UUID, role string) (string, error) {
	return s.generate(userID, "user", role)
}

// GenerateAdminToken issues an access token for an admin account.
func (s *TokenService) GenerateAdminToken(adminID uuid.UUID, role string) (string, error) {
	return s.generate(adminID, "admin", role)
}

func (s *TokenService) generate(subject uuid.UUID, audience, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "badbaado",
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token, then checks the revocation list.
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*middleware.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domerrors.New(domerrors.CodeUnauthorized, "token has expired")
		}
		return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid token claims")
	}

	audience := ""
	if len(claims.Audience) > 0 {
		audience = claims.Audience[0]
	}

	if s.revocation != nil {
		revoked, err := s.revocation.IsRevoked(ctx, claims.Subject)
		if err != nil {
			return nil, domerrors.New(domerrors.CodeUnauthorized, "revocation check failed")
		}
		if revoked {
			return nil, domerrors.New(domerrors.CodeUnauthorized, "token revoked")
		}
	}

	return &middleware.TokenClaims{
		SubjectID: claims.Subject,
		Audience:  audience,
		Role:      claims.Role,
	}, nil
}
