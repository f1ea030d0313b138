package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookvault/api/internal/hash"
	"github.com/bookvault/api/internal/models"
)

// SetRefreshDigest stores the digest of the account's current refresh
// token, overwriting any previous value. One live session per account:
// a second login silently cuts off the first.
func (r *GormRepo) SetRefreshDigest(ctx context.Context, userID, refreshToken string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token_hash", hash.TokenDigest(refreshToken))
	if result.Error != nil {
		return fmt.Errorf("set refresh digest: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ValidateRefreshDigest reports whether the presented token matches
// the stored digest. Fails closed: unknown account or empty digest is
// a mismatch. Store failures are returned, never folded into false.
func (r *GormRepo) ValidateRefreshDigest(ctx context.Context, userID, refreshToken string) (bool, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load refresh digest: %w", err)
	}
	if user.RefreshTokenHash == "" {
		return false, nil
	}
	return user.RefreshTokenHash == hash.TokenDigest(refreshToken), nil
}

// ClearRefreshDigest drops the stored digest. Idempotent; clearing an
// account with no session is a no-op.
func (r *GormRepo) ClearRefreshDigest(ctx context.Context, userID string) error {
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token_hash", "").Error; err != nil {
		return fmt.Errorf("clear refresh digest: %w", err)
	}
	return nil
}
