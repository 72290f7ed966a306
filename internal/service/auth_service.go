package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	ParseToken(tokenString string) (*models.Principal, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Signup регистрирует пользователя с ролью User. Роль повышает
// администратор, самостоятельно выбрать её при регистрации нельзя.
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")

	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

type tokenClaims struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) issueToken(user *models.User) (*models.AuthResponse, error) {
	now := time.Now()
	claims := tokenClaims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.AuthResponse{Token: signed, User: user.ToDTO()}, nil
}

// ParseToken проверяет подпись и срок токена и возвращает Principal.
func (s *authService) ParseToken(tokenString string) (*models.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	return &models.Principal{
		ID:   claims.Subject,
		Name: claims.Name,
		Role: claims.Role,
	}, nil
}
