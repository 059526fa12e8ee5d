package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the role claim required on admin tokens.
const AdminRole = "admin"

var ErrAdminDisabled = errors.New("admin API disabled: ADMIN_JWT_SECRET not set")

// AuthService issues and verifies the bearer tokens that guard the admin job
// triggers.
type AuthService struct {
	jwtSecret string
	now       func() time.Time
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: jwtSecret, now: time.Now}
}

func (s *AuthService) Enabled() bool {
	return s.jwtSecret != ""
}

func (s *AuthService) GenerateAdminToken(subject string, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", ErrAdminDisabled
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": AdminRole,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyAdminToken checks signature, expiry and role, and returns the
// token's subject.
func (s *AuthService) VerifyAdminToken(tokenString string) (string, error) {
	if !s.Enabled() {
		return "", ErrAdminDisabled
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	if role, _ := claims["role"].(string); role != AdminRole {
		return "", fmt.Errorf("token lacks %s role", AdminRole)
	}

	subject, _ := claims.GetSubject()
	return subject, nil
}
