package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	if err := r.DB.WithContext(ctx).Create(cat).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", cat.Name, ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	items := make([]models.Category, 0)
	if err := r.DB.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteCategory is a no-op for unknown ids.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Category{}, id).Error
}
