package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/storage"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const defaultSearchSize = 20

type CatalogService struct {
	Repo   *repo.GormRepo
	Images storage.ImageStore
	Index  search.Index
	Events events.Publisher
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProductInput struct {
	Name        string
	Description string
	Price       string
	Category    string
	Image       *ImageUpload
}

func parsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("price must be a number: %w", ErrValidation)
	}
	if price < 0 {
		return 0, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	return price, nil
}

// AddProduct stores the image first and then inserts the row. When the
// insert fails the saved image is left behind.
func (s *CatalogService) AddProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.add_product")

	imageName := ""
	if in.Image != nil {
		imageName = in.Image.Filename
	}
	if err := requireFields(
		field{"name", in.Name},
		field{"description", in.Description},
		field{"price", in.Price},
		field{"category", in.Category},
		field{"image", imageName},
	); err != nil {
		return nil, err
	}

	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	filename := storage.SecureFilename(imageName)
	if filename == "" {
		return nil, fmt.Errorf("invalid image filename: %w", ErrValidation)
	}

	imageURL, err := s.Images.Save(ctx, filename, in.Image.Body, in.Image.Size, in.Image.ContentType)
	if err != nil {
		l.Error("add_product_error", "status", 500, "reason", "cannot save image", "error", err)
		return nil, fmt.Errorf("save image: %w", err)
	}

	prod := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Category:    in.Category,
		ImageURL:    imageURL,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		l.Error("add_product_error", "status", 500, "reason", "cannot insert product", "image", imageURL, "error", err)
		return nil, fmt.Errorf("insert product: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, &prod); err != nil {
			l.Error("index_product_error", "product_id", prod.ID, "error", err)
		}
	}

	publish(ctx, s.Events, events.TopicProducts, strconv.FormatUint(uint64(prod.ID), 10), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
		"price":     prod.Price,
		"category":  prod.Category,
	})

	return &prod, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &MissingFieldsError{Fields: []string{"q"}}
	}
	if s.Index == nil {
		return nil, search.ErrDisabled
	}
	prods, err := s.Index.Search(ctx, query, defaultSearchSize)
	if err != nil {
		return nil, err
	}
	if prods == nil {
		prods = []models.Product{}
	}
	return prods, nil
}

func (s *CatalogService) AddCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, &MissingFieldsError{Fields: []string{"name"}}
	}

	cat := models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, &cat); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("category %q: %w", name, ErrConflict)
		}
		logging.FromContext(ctx).Error("add_category_error", "status", 500, "error", err)
		return nil, fmt.Errorf("insert category: %w", err)
	}

	publish(ctx, s.Events, events.TopicCategories, strconv.FormatUint(uint64(cat.ID), 10), map[string]any{
		"type":       "category_created",
		"categoryID": cat.ID,
		"name":       cat.Name,
	})
	return &cat, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

// DeleteCategory succeeds whether or not the id exists. Products keep their
// free text category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		logging.FromContext(ctx).Error("delete_category_error", "status", 500, "category_id", id, "error", err)
		return fmt.Errorf("delete category: %w", err)
	}
	publish(ctx, s.Events, events.TopicCategories, strconv.FormatUint(uint64(id), 10), map[string]any{
		"type":       "category_deleted",
		"categoryID": id,
	})
	return nil
}
