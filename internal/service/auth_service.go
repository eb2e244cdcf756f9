package service

import (
	"errors"
	"time"

	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates admin accounts and issues tokens.
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
}

// NewAuthService creates an auth service.
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{cfg: cfg, adminRepo: adminRepo}
}

// JWTClaims are the claims carried by admin tokens.
type JWTClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// HashPassword hashes a password with bcrypt.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a bcrypt hash with a candidate password.
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// GenerateJWT signs a token for an admin.
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT parses and validates a token.
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Login verifies credentials and returns the admin with a fresh token.
func (s *AuthService) Login(username, password string) (*models.Admin, string, time.Time, error) {
	fail := func(err error) (*models.Admin, string, time.Time, error) {
		return nil, "", time.Time{}, err
	}

	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return fail(err)
	}
	if admin == nil {
		return fail(ErrInvalidCredentials)
	}
	if !admin.IsActive {
		return fail(ErrAccountDisabled)
	}
	if s.VerifyPassword(admin.PasswordHash, password) != nil {
		return fail(ErrInvalidCredentials)
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return fail(err)
	}
	_ = s.adminRepo.UpdateLastLogin(admin.ID, time.Now())

	return admin, token, expiresAt, nil
}
