// Package credentials hashes passwords and issues and verifies the bearer
// tokens handed out on login.
//
// Tokens are HS512-signed JWTs whose subject is the username. The signing key is
// supplied by the caller once per process; when the process restarts with a new
// key every previously issued token stops verifying.
package credentials

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "expensetracker/internal/errors"
)

const (
	// DefaultTTL is the validity window of an issued token.
	DefaultTTL = time.Hour
	// TokenType is the scheme clients put in front of the token.
	TokenType = "Bearer "

	issuer  = "expensetracker-api"
	keySize = 64
)

// Claims represents the claims in the JWT
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Config configures a Service.
type Config struct {
	Key        []byte
	TTL        time.Duration
	BcryptCost int
	// Now overrides the wall clock; nil means time.Now.
	Now func() time.Time
}

// Service implements password hashing and token handling.
type Service struct {
	key  []byte
	ttl  time.Duration
	cost int
	now  func() time.Time
}

// NewService creates a Service. The key must not be empty.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Key) == 0 {
		return nil, errors.New("credentials: signing key is empty")
	}

	s := &Service{
		key:  cfg.Key,
		ttl:  cfg.TTL,
		cost: cfg.BcryptCost,
		now:  cfg.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// GenerateKey returns a random key suitable for HS512 signing.
func GenerateKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("credentials: generate key: %w", err)
	}
	return key, nil
}

// HashPassword returns the bcrypt hash of plaintext.
func (s *Service) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("credentials: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *Service) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IssueToken signs a token for subject carrying the given role values.
func (s *Service) IssueToken(subject string, roles []string) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("credentials: sign token: %w", err)
	}

	return &Token{AccessToken: signed, TokenType: TokenType, ExpiresAt: expiresAt}, nil
}

// VerifyToken parses and validates tokenString, returning its claims.
// Any failure, including expiry, is reported as an authentication failure.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(apperrors.AuthenticationFailure("JWT was expired or incorrect"), err)
	}
	if claims.Subject == "" {
		return nil, apperrors.AuthenticationFailure("JWT has no subject")
	}
	return claims, nil
}
