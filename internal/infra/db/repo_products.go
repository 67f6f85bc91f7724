package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tofaramususa/fastapi-production-api/internal/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	now := time.Now().UTC()
	model := ProductModel{
		ID:          uuid.NewString(),
		FolderID:    product.FolderID,
		Name:        product.Name,
		Description: product.Description,
		Owner:       product.Owner,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return productFromModel(model), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return productFromModel(model), nil
}

func (r *ProductRepository) ListByFolder(ctx context.Context, folderID string) ([]domain.Product, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ProductModel
	err := r.db.WithContext(ctx).Where("folder_id = ?", folderID).Order("created_at").Find(&models).Error
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(models))
	for _, m := range models {
		products = append(products, *productFromModel(m))
	}
	return products, nil
}

func (r *ProductRepository) ListByFolders(ctx context.Context, folderIDs []string) ([]domain.Product, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if len(folderIDs) == 0 {
		return nil, nil
	}
	var models []ProductModel
	err := r.db.WithContext(ctx).Where("folder_id IN ?", folderIDs).Order("created_at").Find(&models).Error
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(models))
	for _, m := range models {
		products = append(products, *productFromModel(m))
	}
	return products, nil
}

func productFromModel(m ProductModel) *domain.Product {
	return &domain.Product{
		ID:          m.ID,
		FolderID:    m.FolderID,
		Name:        m.Name,
		Description: m.Description,
		Owner:       m.Owner,
		CreatedAt:   m.CreatedAt,
		ModifiedAt:  m.ModifiedAt,
	}
}
