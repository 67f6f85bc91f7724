package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

// AccessChecker decides whether a subject may read or write inside a folder.
// Admins and the master key see everything; everyone else needs an explicit
// permission grant on the folder.
type AccessChecker struct {
	folders FolderRepository
	perms   PermissionRepository
}

func NewAccessChecker(folders FolderRepository, perms PermissionRepository) *AccessChecker {
	return &AccessChecker{folders: folders, perms: perms}
}

func (a *AccessChecker) bypasses(subject domain.Subject) bool {
	return subject.Kind == domain.SubjectMasterKey || subject.Admin
}

// CheckFolder returns the folder when the subject may access it,
// domain.ErrForbidden when not, and domain.ErrNotFound when it does not
// exist. The folder lookup runs first so a bad ID never reads permissions.
func (a *AccessChecker) CheckFolder(ctx context.Context, subject domain.Subject, folderID string) (*domain.Folder, error) {
	if err := validateID(folderID); err != nil {
		return nil, err
	}
	folder, err := a.folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if a.bypasses(subject) {
		return folder, nil
	}
	if subject.Email == "" {
		return nil, domain.ErrForbidden
	}
	_, err = a.perms.GetByFolderAndEmail(ctx, folderID, subject.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return folder, nil
}

// AccessibleFolderIDs lists the folder IDs the subject may see. A nil slice
// with ok=true means unrestricted access.
func (a *AccessChecker) AccessibleFolderIDs(ctx context.Context, subject domain.Subject) (ids []string, unrestricted bool, err error) {
	if a.bypasses(subject) {
		return nil, true, nil
	}
	if subject.Email == "" {
		return nil, false, nil
	}
	grants, err := a.perms.ListByEmail(ctx, subject.Email)
	if err != nil {
		return nil, false, err
	}
	ids = make([]string, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.FolderID)
	}
	return ids, false, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}
