package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tofaramususa/fastapi-production-api/internal/domain"

	"gorm.io/gorm"
)

type FolderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) Create(ctx context.Context, folder domain.Folder) (*domain.Folder, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	now := time.Now().UTC()
	model := FolderModel{
		ID:          uuid.NewString(),
		Name:        folder.Name,
		Description: folder.Description,
		Owner:       folder.Owner,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return folderFromModel(model), nil
}

func (r *FolderRepository) GetByID(ctx context.Context, folderID string) (*domain.Folder, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model FolderModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", folderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return folderFromModel(model), nil
}

func (r *FolderRepository) List(ctx context.Context) ([]domain.Folder, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []FolderModel
	err := r.db.WithContext(ctx).Order("created_at").Find(&models).Error
	if err != nil {
		return nil, err
	}
	folders := make([]domain.Folder, 0, len(models))
	for _, m := range models {
		folders = append(folders, *folderFromModel(m))
	}
	return folders, nil
}

func (r *FolderRepository) ListByIDs(ctx context.Context, folderIDs []string) ([]domain.Folder, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if len(folderIDs) == 0 {
		return nil, nil
	}
	var models []FolderModel
	err := r.db.WithContext(ctx).Where("id IN ?", folderIDs).Order("created_at").Find(&models).Error
	if err != nil {
		return nil, err
	}
	folders := make([]domain.Folder, 0, len(models))
	for _, m := range models {
		folders = append(folders, *folderFromModel(m))
	}
	return folders, nil
}

func folderFromModel(m FolderModel) *domain.Folder {
	return &domain.Folder{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Owner:       m.Owner,
		CreatedAt:   m.CreatedAt,
		ModifiedAt:  m.ModifiedAt,
	}
}
