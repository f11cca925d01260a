package service

import (
	"errors"
	"time"

	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the API hands out; it may trigger syncs.
const RoleAdmin = "admin"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("token does not carry the admin role")
)

type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// Enabled reports whether tokens can be issued and checked at all.
func (s *AuthService) Enabled() bool {
	return s.cfg.SyncEnabled()
}

func (s *AuthService) IssueAdminToken(subject string) (string, error) {
	if !s.Enabled() {
		return "", domain.ErrSyncDisabled
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": RoleAdmin,
		"exp":  now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	if !s.Enabled() {
		return nil, domain.ErrSyncDisabled
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, ErrInvalidToken
}

// ValidateAdminToken validates tokenString and returns its subject when it
// carries the admin role.
func (s *AuthService) ValidateAdminToken(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	if role, _ := (*claims)["role"].(string); role != RoleAdmin {
		return "", ErrNotAdmin
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
