package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
)

// CreateUser relies on the unique index on username; there is no lookup
// before the insert.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Username, ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
