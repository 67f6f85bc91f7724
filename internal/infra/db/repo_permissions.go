package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tofaramususa/fastapi-production-api/internal/domain"

	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Create(ctx context.Context, perm domain.FolderPermission) (*domain.FolderPermission, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	model := FolderPermissionModel{
		ID:        uuid.NewString(),
		FolderID:  perm.FolderID,
		Email:     perm.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return permissionFromModel(model), nil
}

func (r *PermissionRepository) GetByFolderAndEmail(ctx context.Context, folderID, email string) (*domain.FolderPermission, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model FolderPermissionModel
	err := r.db.WithContext(ctx).First(&model, "folder_id = ? AND email = ?", folderID, email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return permissionFromModel(model), nil
}

func (r *PermissionRepository) ListByFolder(ctx context.Context, folderID string) ([]domain.FolderPermission, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []FolderPermissionModel
	err := r.db.WithContext(ctx).Where("folder_id = ?", folderID).Order("created_at").Find(&models).Error
	if err != nil {
		return nil, err
	}
	perms := make([]domain.FolderPermission, 0, len(models))
	for _, m := range models {
		perms = append(perms, *permissionFromModel(m))
	}
	return perms, nil
}

func (r *PermissionRepository) ListByEmail(ctx context.Context, email string) ([]domain.FolderPermission, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []FolderPermissionModel
	err := r.db.WithContext(ctx).Where("email = ?", email).Order("created_at").Find(&models).Error
	if err != nil {
		return nil, err
	}
	perms := make([]domain.FolderPermission, 0, len(models))
	for _, m := range models {
		perms = append(perms, *permissionFromModel(m))
	}
	return perms, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, folderID, email string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	res := r.db.WithContext(ctx).Where("folder_id = ? AND email = ?", folderID, email).Delete(&FolderPermissionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func permissionFromModel(m FolderPermissionModel) *domain.FolderPermission {
	return &domain.FolderPermission{
		ID:        m.ID,
		FolderID:  m.FolderID,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}
