package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/minifigstore/api/internal/config"
)

// ErrInvalidToken covers every verification failure alike: malformed,
// forged, wrong secret, expired. Callers cannot tell which.
var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// Codec signs and verifies the two bearer token classes, each with its own
// secret and expiry window. Built once at startup; config.Load has already
// rejected missing secrets.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(cfg *config.Config) *Codec {
	return &Codec{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     time.Duration(cfg.AccessTokenDays) * 24 * time.Hour,
		refreshTTL:    time.Duration(cfg.RefreshTokenDays) * 24 * time.Hour,
	}
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec) IssueAccess(userID uint) (string, error) {
	return signToken(userID, c.accessSecret, c.accessTTL)
}

func (c *Codec) IssueRefresh(userID uint) (string, error) {
	return signToken(userID, c.refreshSecret, c.refreshTTL)
}

// IssuePair mints a fresh access/refresh pair for the account.
func (c *Codec) IssuePair(userID uint) (access, refresh string, err error) {
	access, err = c.IssueAccess(userID)
	if err != nil {
		return "", "", err
	}
	refresh, err = c.IssueRefresh(userID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (c *Codec) VerifyAccess(token string) (uint, error) {
	return verifyToken(token, c.accessSecret)
}

func (c *Codec) VerifyRefresh(token string) (uint, error) {
	return verifyToken(token, c.refreshSecret)
}

func signToken(userID uint, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func verifyToken(tokenStr string, secret []byte) (uint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
