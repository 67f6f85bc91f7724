package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

// PermissionService manages folder grants. Every operation is admin-only;
// the master key counts as admin.
type PermissionService struct {
	folders FolderRepository
	perms   PermissionRepository
}

func NewPermissionService(folders FolderRepository, perms PermissionRepository) *PermissionService {
	return &PermissionService{folders: folders, perms: perms}
}

func (s *PermissionService) requireAdmin(subject domain.Subject) error {
	if subject.Kind == domain.SubjectMasterKey || subject.Admin {
		return nil
	}
	return domain.ErrForbidden
}

// Assign grants an email access to a folder. Duplicate grants return
// domain.ErrConflict, unknown folders domain.ErrNotFound.
func (s *PermissionService) Assign(ctx context.Context, subject domain.Subject, folderID, email string) (*domain.FolderPermission, error) {
	if err := s.requireAdmin(subject); err != nil {
		return nil, err
	}
	if err := validateID(folderID); err != nil {
		return nil, err
	}
	if _, err := s.folders.GetByID(ctx, folderID); err != nil {
		return nil, err
	}
	return s.perms.Create(ctx, domain.FolderPermission{
		FolderID: folderID,
		Email:    normalizeEmail(email),
	})
}

func (s *PermissionService) ListByFolder(ctx context.Context, subject domain.Subject, folderID string) ([]domain.FolderPermission, error) {
	if err := s.requireAdmin(subject); err != nil {
		return nil, err
	}
	if err := validateID(folderID); err != nil {
		return nil, err
	}
	if _, err := s.folders.GetByID(ctx, folderID); err != nil {
		return nil, err
	}
	return s.perms.ListByFolder(ctx, folderID)
}

// Check reports whether the email holds a grant on the folder.
func (s *PermissionService) Check(ctx context.Context, subject domain.Subject, folderID, email string) (bool, error) {
	if err := s.requireAdmin(subject); err != nil {
		return false, err
	}
	if err := validateID(folderID); err != nil {
		return false, err
	}
	_, err := s.perms.GetByFolderAndEmail(ctx, folderID, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke removes a grant and returns it, or domain.ErrNotFound when the
// email held none.
func (s *PermissionService) Revoke(ctx context.Context, subject domain.Subject, folderID, email string) (*domain.FolderPermission, error) {
	if err := s.requireAdmin(subject); err != nil {
		return nil, err
	}
	if err := validateID(folderID); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	grant, err := s.perms.GetByFolderAndEmail(ctx, folderID, email)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Delete(ctx, folderID, email); err != nil {
		return nil, err
	}
	return grant, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
