package usecase

import (
	"context"
	"errors"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

type FolderService struct {
	folders  FolderRepository
	products ProductRepository
	perms    PermissionRepository
	access   *AccessChecker
}

func NewFolderService(folders FolderRepository, products ProductRepository, perms PermissionRepository, access *AccessChecker) *FolderService {
	return &FolderService{folders: folders, products: products, perms: perms, access: access}
}

func (s *FolderService) Create(ctx context.Context, subject domain.Subject, name, description string) (*domain.Folder, error) {
	folder, err := s.folders.Create(ctx, domain.Folder{
		Name:        name,
		Description: description,
		Owner:       subject.Email,
	})
	if err != nil {
		return nil, err
	}
	// The creator gets a grant so the folder stays visible to them without
	// a separate assignment call. Master-key callers have no email and see
	// everything anyway.
	if subject.Email != "" {
		_, err := s.perms.Create(ctx, domain.FolderPermission{
			FolderID: folder.ID,
			Email:    subject.Email,
		})
		if err != nil && !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}
	return folder, nil
}

// ListAccessible returns the folders the subject may see, or
// domain.ErrNotFound when there are none.
func (s *FolderService) ListAccessible(ctx context.Context, subject domain.Subject) ([]domain.Folder, error) {
	folders, err := s.accessibleFolders(ctx, subject)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, domain.ErrNotFound
	}
	return folders, nil
}

// Navigation returns the accessible folders together with every product
// inside them, for rendering a tree in one round trip.
func (s *FolderService) Navigation(ctx context.Context, subject domain.Subject) (*domain.FolderNavigation, error) {
	folders, err := s.accessibleFolders(ctx, subject)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, domain.ErrNotFound
	}
	ids := make([]string, 0, len(folders))
	for _, f := range folders {
		ids = append(ids, f.ID)
	}
	products, err := s.products.ListByFolders(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &domain.FolderNavigation{Folders: folders, Products: products}, nil
}

func (s *FolderService) Get(ctx context.Context, subject domain.Subject, folderID string) (*domain.Folder, error) {
	return s.access.CheckFolder(ctx, subject, folderID)
}

func (s *FolderService) accessibleFolders(ctx context.Context, subject domain.Subject) ([]domain.Folder, error) {
	ids, unrestricted, err := s.access.AccessibleFolderIDs(ctx, subject)
	if err != nil {
		return nil, err
	}
	if unrestricted {
		return s.folders.List(ctx)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.folders.ListByIDs(ctx, ids)
}
