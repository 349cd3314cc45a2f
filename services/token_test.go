package services

import (
	"os"
	"testing"

	"main/utils"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	os.Setenv("GO_ENV", "test")
	utils.InitJWT()
}

func TestGenerateAndParseToken(t *testing.T) {
	initTestJWT(t)

	token, err := GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims["user_id"] != "user-123" {
		t.Errorf("user_id = %v, want user-123", claims["user_id"])
	}
	if claims["iss"] != tokenIssuer {
		t.Errorf("iss = %v, want %s", claims["iss"], tokenIssuer)
	}
	if _, ok := claims["type"]; ok {
		t.Error("access token must not carry a type claim")
	}
}

func TestRefreshTokenCarriesType(t *testing.T) {
	initTestJWT(t)

	token, err := GenerateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims["type"] != "refresh" {
		t.Errorf("type = %v, want refresh", claims["type"])
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	initTestJWT(t)

	token, err := GenerateToken("user-123")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseToken(token + "x"); err == nil {
		t.Error("tampered token should not parse")
	}
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Error("garbage should not parse")
	}
}
