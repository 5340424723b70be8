package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nimbrus/accounts-api/config"
)

// TokenPair carries a freshly signed access/refresh token couple.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService signs and verifies the two bearer token classes. Each
// class has its own secret and lifetime; a token only ever verifies
// against the secret of its own class.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
	}
}

// GenerateAccessToken signs the minimal payload with the access secret
func (s *TokenService) GenerateAccessToken(userID string) (string, error) {
	return s.sign(userID, s.accessSecret, s.accessExpiry)
}

// GenerateRefreshToken signs the same payload shape with the refresh secret
func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	return s.sign(userID, s.refreshSecret, s.refreshExpiry)
}

// GenerateTokenPair issues both tokens for one user
func (s *TokenService) GenerateTokenPair(userID string) (*TokenPair, error) {
	accessToken, err := s.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// VerifyAccessToken validates an access token and returns the user id
func (s *TokenService) VerifyAccessToken(tokenString string) (string, error) {
	return s.verify(tokenString, s.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns the user id
func (s *TokenService) VerifyRefreshToken(tokenString string) (string, error) {
	return s.verify(tokenString, s.refreshSecret)
}

// RefreshExpiry exposes the refresh lifetime for cookie max-age.
func (s *TokenService) RefreshExpiry() time.Duration {
	return s.refreshExpiry
}

func (s *TokenService) sign(userID string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

func (s *TokenService) verify(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})

	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid token payload")
	}

	return userID, nil
}
