package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"heavenlist/config"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ResetClaims is the short-lived credential issued after OTP verification.
// Purpose keeps it from being accepted where an access token is expected.
type ResetClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

const PurposePasswordReset = "password_reset"

var ErrInvalidToken = errors.New("invalid token")

func GenerateAccessToken(cfg *config.JWTConfig, userID uint, email, role string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.AccessSecret))
}

func GenerateRefreshToken(cfg *config.JWTConfig, userID uint, role string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%s:%d", role, userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.RefreshExpiry)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    cfg.Issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.RefreshSecret))
}

// GenerateResetToken binds principal id + email after a verified OTP. It is
// the only artifact that carries "OTP was verified" forward; the code itself
// is never stored.
func GenerateResetToken(cfg *config.JWTConfig, userID uint, email, role string) (string, error) {
	claims := ResetClaims{
		UserID:  userID,
		Email:   email,
		Role:    role,
		Purpose: PurposePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.ResetExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.ResetSecret))
}

// ParseRefreshToken returns the role and principal id from the subject.
func ParseRefreshToken(cfg *config.JWTConfig, tokenString string) (role string, userID uint, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.RefreshSecret), nil
	})
	if err != nil {
		return "", 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", 0, ErrInvalidToken
	}
	parts := strings.SplitN(claims.Subject, ":", 2)
	if len(parts) != 2 {
		return "", 0, ErrInvalidToken
	}
	id, convErr := strconv.ParseUint(parts[1], 10, 32)
	if convErr != nil {
		return "", 0, ErrInvalidToken
	}
	return parts[0], uint(id), nil
}

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.AccessSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func ParseResetToken(cfg *config.JWTConfig, tokenString string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.ResetSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.Purpose != PurposePasswordReset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
