package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mkravets/auth-service/internal/models"
	"github.com/mkravets/auth-service/internal/repo"
	"github.com/mkravets/auth-service/internal/transport"
)

// ErrInvalidToken covers every validation failure: malformed input,
// wrong signature, expiry. Callers treat it uniformly as "not
// authorized" and never see the underlying parse error.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by both tokens of a pair. It mirrors
// transport.UserDTO.
type Claims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	IsActivated bool   `json:"is_activated"`
	jwt.RegisteredClaims
}

// Service signs and verifies the access/refresh pair and owns the
// stored refresh token. One row per user: Save overwrites, so a login
// on a second device ends the session on the first. Concurrent saves
// for the same user are last-write-wins.
type Service struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Generate signs the projection twice, under the access and refresh
// secrets with their respective lifetimes. No side effects.
func (s *Service) Generate(dto transport.UserDTO) (transport.TokenPair, error) {
	now := time.Now()

	access, err := s.sign(dto, s.AccessSecret, now.Add(s.AccessTTL), now)
	if err != nil {
		return transport.TokenPair{}, err
	}

	refresh, err := s.sign(dto, s.RefreshSecret, now.Add(s.RefreshTTL), now)
	if err != nil {
		return transport.TokenPair{}, err
	}

	return transport.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(dto transport.UserDTO, secret []byte, exp, now time.Time) (string, error) {
	claims := Claims{
		UserID:      dto.ID,
		Email:       dto.Email,
		IsActivated: dto.IsActivated,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			// jti keeps tokens minted within the same second distinct,
			// so every rotation really replaces the stored value.
			ID: uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Service) ValidateAccess(raw string) (*Claims, error) {
	return validate(raw, s.AccessSecret)
}

func (s *Service) ValidateRefresh(raw string) (*Claims, error) {
	return validate(raw, s.RefreshSecret)
}

func validate(raw string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Save upserts the user's single token row: overwrite when present,
// create otherwise.
func (s *Service) Save(ctx context.Context, userID uint, refreshToken string) error {
	existing, err := s.Repo.TokenByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.RefreshToken = refreshToken
		return s.Repo.SaveToken(ctx, existing)
	}

	return s.Repo.CreateToken(ctx, &models.Token{UserID: userID, RefreshToken: refreshToken})
}

func (s *Service) Remove(ctx context.Context, refreshToken string) error {
	return s.Repo.DeleteTokenByRefresh(ctx, refreshToken)
}

func (s *Service) Find(ctx context.Context, refreshToken string) (*models.Token, error) {
	return s.Repo.TokenByRefresh(ctx, refreshToken)
}
