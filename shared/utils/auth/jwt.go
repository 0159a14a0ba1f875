package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ngoconnect-backend/shared/config"
	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
)

const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 168 * time.Hour
)

// AccessClaims are carried by access tokens: identity plus role.
type AccessClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims are carried by refresh tokens: identity only.
type RefreshClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func accessKey() []byte {
	return []byte(config.GetConfig().AccessTokenKey)
}

func refreshKey() []byte {
	return []byte(config.GetConfig().RefreshTokenKey)
}

// IssueTokenPair signs an access token (24h, access key) carrying id and
// role, and a refresh token (168h, refresh key) carrying id only. Both are
// stateless bearer credentials; expiry is the only way either becomes
// invalid short of rotating the signing keys.
func IssueTokenPair(userID uuid.UUID, role models.Role) (*TokenPair, error) {
	now := time.Now()

	accessClaims := AccessClaims{
		ID:   userID.String(),
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(accessKey())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "Could not generate token", err)
	}

	refreshClaims := RefreshClaims{
		ID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(refreshKey())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "Could not generate refresh token", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ValidateAccessJWT validates an access token against the access key and
// returns its claims. Failures are typed: expired, malformed and bad
// signature all surface as Unauthorized with distinct messages.
func ValidateAccessJWT(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return accessKey(), nil
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Invalid token")
	}
	return claims, nil
}

// ValidateRefreshJWT validates a refresh token against the refresh key.
func ValidateRefreshJWT(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return refreshKey(), nil
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Invalid refresh token")
	}
	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.KindUnauthorized, "Token has expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Wrap(apperrors.KindUnauthorized, "Invalid token signature", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return apperrors.Wrap(apperrors.KindUnauthorized, "Malformed token", err)
	default:
		return apperrors.Wrap(apperrors.KindUnauthorized, "Invalid token", err)
	}
}
