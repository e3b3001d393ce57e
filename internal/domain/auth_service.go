package domain

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordRunes = 8

// tokenClaims is the JWT payload: sub carries the user id.
type tokenClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	users  ports.UserRepository
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, secret string, ttl time.Duration) ports.AuthService {
	return &authService{
		users:  users,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ports.ErrNotFound) {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return "", nil, err
	}
	if !u.IsActive {
		return "", nil, fmt.Errorf("%w: account disabled", ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.issue(u.ID, u.Role)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, u, nil
}

// Register creates a reader account. Staff roles are granted by admins.
func (s *authService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < minPasswordRunes {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordRunes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(addr.Address),
		Name:         name,
		PasswordHash: string(hash),
		Role:         models.RoleReader,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*ports.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: malformed token", ErrUnauthorized)
	}

	return &ports.Claims{UserID: claims.Subject, Role: claims.Role}, nil
}

func (s *authService) issue(userID string, role models.Role) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}
