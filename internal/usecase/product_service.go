package usecase

import (
	"context"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

type ProductService struct {
	products ProductRepository
	access   *AccessChecker
}

func NewProductService(products ProductRepository, access *AccessChecker) *ProductService {
	return &ProductService{products: products, access: access}
}

// Create stores a product inside a folder the subject can access. The
// folder check also rejects unknown and malformed folder IDs.
func (s *ProductService) Create(ctx context.Context, subject domain.Subject, product domain.Product) (*domain.Product, error) {
	if _, err := s.access.CheckFolder(ctx, subject, product.FolderID); err != nil {
		return nil, err
	}
	product.Owner = subject.Email
	return s.products.Create(ctx, product)
}

func (s *ProductService) Get(ctx context.Context, subject domain.Subject, productID string) (*domain.Product, error) {
	if err := validateID(productID); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	// Product access is inherited from the parent folder.
	if _, err := s.access.CheckFolder(ctx, subject, product.FolderID); err != nil {
		return nil, err
	}
	return product, nil
}

// ListByFolder returns every product in the folder, or domain.ErrNotFound
// when the folder holds none.
func (s *ProductService) ListByFolder(ctx context.Context, subject domain.Subject, folderID string) ([]domain.Product, error) {
	if _, err := s.access.CheckFolder(ctx, subject, folderID); err != nil {
		return nil, err
	}
	products, err := s.products.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrNotFound
	}
	return products, nil
}

// ListAccessible returns every product in every folder the subject can see.
func (s *ProductService) ListAccessible(ctx context.Context, subject domain.Subject) ([]domain.Product, error) {
	ids, unrestricted, err := s.access.AccessibleFolderIDs(ctx, subject)
	if err != nil {
		return nil, err
	}
	var products []domain.Product
	if unrestricted {
		folders, err := s.access.folders.List(ctx)
		if err != nil {
			return nil, err
		}
		ids = make([]string, 0, len(folders))
		for _, f := range folders {
			ids = append(ids, f.ID)
		}
	}
	if len(ids) == 0 {
		return nil, domain.ErrNotFound
	}
	products, err = s.products.ListByFolders(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrNotFound
	}
	return products, nil
}
