// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec holds the credential primitives: RS256 access tokens, bcrypt
password hashes and random one-time tokens.

Access tokens carry identity only. Roles are looked up per request so an
unassigned role stops working before the token expires.
*/
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// clockSkew tolerates small clock drift between replicas.
const clockSkew = 30 * time.Second

// AuthClaims is the access token payload.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID    string `json:"uid"`
	Email     string `json:"eml"`
	SessionID string `json:"sid,omitempty"`
}

// TokenService signs and verifies access tokens with one RSA key pair.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	parser     *jwt.Parser
}

// NewTokenServiceFromKeys builds a [TokenService] from parsed keys.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// NewTokenService reads PEM encoded keys from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readKey(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: private key: %w", err)
	}

	publicKey, err := readKey(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: public key: %w", err)
	}

	if !privateKey.PublicKey.Equal(publicKey) {
		return nil, fmt.Errorf("sec: public key %s does not match the private key", publicKeyPath)
	}

	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

func readKey[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, err
	}

	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("parse %s: %w", path, err)
	}
	return key, nil
}

// GenerateAccessToken signs a token for userID valid for timeToLive.
// sessionID names the refresh session the token was issued from. Each token
// gets a unique jti.
func (service *TokenService) GenerateAccessToken(userID, email, sessionID string, timeToLive time.Duration) (string, error) {
	issuedAt := time.Now()

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
		UserID:    userID,
		Email:     email,
		SessionID: sessionID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm, issuer and expiry.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	_, err := service.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sec: verify token: %w", err)
	}

	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("sec: verify token: subject mismatch")
	}
	return claims, nil
}
