package usecase

import (
	"context"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

type FolderRepository interface {
	Create(ctx context.Context, folder domain.Folder) (*domain.Folder, error)
	GetByID(ctx context.Context, folderID string) (*domain.Folder, error)
	List(ctx context.Context) ([]domain.Folder, error)
	ListByIDs(ctx context.Context, folderIDs []string) ([]domain.Folder, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, productID string) (*domain.Product, error)
	ListByFolder(ctx context.Context, folderID string) ([]domain.Product, error)
	ListByFolders(ctx context.Context, folderIDs []string) ([]domain.Product, error)
}

type PermissionRepository interface {
	Create(ctx context.Context, perm domain.FolderPermission) (*domain.FolderPermission, error)
	GetByFolderAndEmail(ctx context.Context, folderID, email string) (*domain.FolderPermission, error)
	ListByFolder(ctx context.Context, folderID string) ([]domain.FolderPermission, error)
	ListByEmail(ctx context.Context, email string) ([]domain.FolderPermission, error)
	Delete(ctx context.Context, folderID, email string) error
}
