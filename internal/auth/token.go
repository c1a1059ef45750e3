package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/models"
)

// Token purposes carried in the claims. Access tokens authenticate API
// requests; refresh tokens are only accepted by the refresh endpoint.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

// Claims are the JWT claims issued by the TokenIssuer
type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and validates bearer tokens carrying a subject user id
// and a purpose tag
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates a TokenIssuer signing with the given HMAC secret
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue creates a signed token for the given subject and purpose
func (i *TokenIssuer) Issue(userID, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// IssuePair issues an access/refresh token pair for the user
func (i *TokenIssuer) IssuePair(userID string) (*models.TokenPair, error) {
	access, err := i.Issue(userID, PurposeAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.Issue(userID, PurposeRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Validate parses a token, checks its signature, expiry and purpose, and
// returns the subject user id
func (i *TokenIssuer) Validate(tokenString, purpose string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("could not validate credentials")
	}
	if claims.Purpose != purpose {
		return "", apperrors.Unauthorized("could not validate credentials")
	}
	if claims.Subject == "" {
		return "", apperrors.Unauthorized("could not validate credentials")
	}
	return claims.Subject, nil
}
