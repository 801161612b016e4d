package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkravets/auth-service/internal/models"
)

func (r *GormRepo) TokenByUserID(ctx context.Context, userID uint) (*models.Token, error) {
	var token models.Token
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *GormRepo) TokenByRefresh(ctx context.Context, refreshToken string) (*models.Token, error) {
	var token models.Token
	if err := r.DB.WithContext(ctx).Where("refresh_token = ?", refreshToken).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *GormRepo) CreateToken(ctx context.Context, t *models.Token) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) SaveToken(ctx context.Context, t *models.Token) error {
	return r.DB.WithContext(ctx).Save(t).Error
}

// DeleteTokenByRefresh is idempotent: deleting a token that is not
// stored is not an error.
func (r *GormRepo) DeleteTokenByRefresh(ctx context.Context, refreshToken string) error {
	return r.DB.WithContext(ctx).Where("refresh_token = ?", refreshToken).Delete(&models.Token{}).Error
}
