package service

import (
	"testing"
	"time"

	"github.com/nimbrus/accounts-api/config"
)

func testTokenService() *TokenService {
	return NewTokenService(config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testTokenService()
	userID := "0b155bc6-7897-4a6b-8d7c-2f4a65b7d1e0"

	pair, err := svc.GenerateTokenPair(userID)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be non-empty")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}

	gotAccess, err := svc.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if gotAccess != userID {
		t.Errorf("VerifyAccessToken() = %q, want %q", gotAccess, userID)
	}

	gotRefresh, err := svc.VerifyRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error = %v", err)
	}
	if gotRefresh != userID {
		t.Errorf("VerifyRefreshToken() = %q, want %q", gotRefresh, userID)
	}
}

func TestTokenClassCrossRejection(t *testing.T) {
	svc := testTokenService()

	pair, err := svc.GenerateTokenPair("user-1")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := svc.VerifyAccessToken(pair.RefreshToken); err == nil {
		t.Error("refresh token verified against the access secret")
	}
	if _, err := svc.VerifyRefreshToken(pair.AccessToken); err == nil {
		t.Error("access token verified against the refresh secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessExpiry:  -time.Minute,
		RefreshExpiry: -time.Minute,
	})

	token, err := svc.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expired token verified successfully")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := testTokenService()

	token, err := svc.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.VerifyAccessToken(tampered); err == nil {
		t.Error("tampered token verified successfully")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := testTokenService()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.VerifyAccessToken(token); err == nil {
			t.Errorf("VerifyAccessToken(%q) expected error", token)
		}
	}
}
