package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ripple-chat/config"
	"ripple-chat/internal/domain"
	"ripple-chat/internal/repository"
	ripple_errors "ripple-chat/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	profiles  repository.ProfileRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(profiles repository.ProfileRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		profiles:  profiles,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type RegisterInput struct {
	Username string
	FullName string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	Profile     ProfileInfo `json:"profile"`
}

type ProfileInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type AccessClaims struct {
	ProfileID string `json:"sub"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	in.Username = strings.TrimSpace(strings.ToLower(in.Username))
	if len(in.Username) < 3 || len(in.Password) < 8 {
		return AuthResponse{}, ripple_errors.ErrInvalidInput
	}

	if _, err := s.profiles.GetByUsername(ctx, in.Username); err == nil {
		return AuthResponse{}, ripple_errors.ErrAlreadyExists
	} else if !errors.Is(err, ripple_errors.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	profile := &domain.Profile{
		ID:           uuid.New(),
		Username:     in.Username,
		FullName:     toNullString(in.FullName),
		Status:       "offline",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return AuthResponse{}, err
	}

	return s.newAuthResponse(*profile)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	in.Username = strings.TrimSpace(strings.ToLower(in.Username))

	profile, err := s.profiles.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, ripple_errors.ErrNotFound) {
			return AuthResponse{}, ripple_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, ripple_errors.ErrUnauthorized
	}

	return s.newAuthResponse(profile)
}

// ParseAccessToken validates the bearer credential and returns its claims.
func (s *AuthService) ParseAccessToken(token string) (AccessClaims, error) {
	if token == "" {
		return AccessClaims{}, ripple_errors.ErrUnauthorized
	}

	var claims AccessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ripple_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return AccessClaims{}, ripple_errors.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) newAuthResponse(profile domain.Profile) (AuthResponse, error) {
	now := time.Now()
	claims := AccessClaims{
		ProfileID: profile.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
		Profile:     toProfileInfo(profile),
	}, nil
}

func toProfileInfo(p domain.Profile) ProfileInfo {
	return ProfileInfo{
		ID:        p.ID.String(),
		Username:  p.Username,
		FullName:  p.FullName.String,
		AvatarURL: p.AvatarURL.String,
	}
}

func toNullString(value string) domain.NullString {
	return domain.NewNullString(value)
}
