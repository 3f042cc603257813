package services

import (
	"fmt"
	"time"

	"github.com/kriswind/everything-app/utils"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken mints a short-lived access token for the user.
func GenerateToken(userID string) (string, error) {
	expirationTime := time.Now().Add(time.Duration(utils.JWTExpirationTime) * time.Second)

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     expirationTime.Unix(),
		"iat":     time.Now().Unix(),
		"iss":     utils.JWTIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// GenerateRefreshToken mints a long-lived token carrying type=refresh, which
// the auth middleware rejects on protected routes.
func GenerateRefreshToken(userID string) (string, error) {
	expirationTime := time.Now().Add(time.Duration(utils.RefreshTokenExpirationTime) * time.Second)

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     expirationTime.Unix(),
		"iat":     time.Now().Unix(),
		"iss":     utils.JWTIssuer,
		"type":    "refresh",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// ValidateToken parses and verifies a token's signature, returning its claims.
func ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
