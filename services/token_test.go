package services

import (
	"os"
	"testing"

	"github.com/kriswind/everything-app/utils"
)

func init() {
	os.Setenv("GO_ENV", "test")
	utils.InitJWT()
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims["user_id"] != "user-1" {
		t.Errorf("Expected user_id user-1, got %v", claims["user_id"])
	}
	if claims["iss"] != utils.JWTIssuer {
		t.Errorf("Expected issuer %q, got %v", utils.JWTIssuer, claims["iss"])
	}
	if _, hasType := claims["type"]; hasType {
		t.Error("Access token must not carry a type claim")
	}
}

func TestRefreshTokenCarriesType(t *testing.T) {
	token, err := GenerateRefreshToken("user-1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims["type"] != "refresh" {
		t.Errorf("Expected type refresh, got %v", claims["type"])
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("Expected an error for a malformed token")
	}
}
