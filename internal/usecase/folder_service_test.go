package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

func TestFolderService_CreateGrantsCreator(t *testing.T) {
	f := newFixture()

	folder, err := f.folderSvc.Create(context.Background(), userSubject, "invoices", "monthly invoices")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if folder.Owner != userSubject.Email {
		t.Fatalf("expected owner %q, got %q", userSubject.Email, folder.Owner)
	}

	got, err := f.folderSvc.Get(context.Background(), userSubject, folder.ID)
	if err != nil {
		t.Fatalf("creator should see own folder: %v", err)
	}
	if got.ID != folder.ID {
		t.Fatalf("folder mismatch: %+v", got)
	}
}

func TestFolderService_GetDeniesWithoutGrant(t *testing.T) {
	f := newFixture()

	folder, err := f.folderSvc.Create(context.Background(), userSubject, "private", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	if _, err := f.folderSvc.Get(context.Background(), otherSubject, folder.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := f.folderSvc.Get(context.Background(), anonymous, folder.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous, got %v", err)
	}
	if _, err := f.folderSvc.Get(context.Background(), adminSubject, folder.ID); err != nil {
		t.Fatalf("admin should see any folder: %v", err)
	}
	if _, err := f.folderSvc.Get(context.Background(), masterKey, folder.ID); err != nil {
		t.Fatalf("master key should see any folder: %v", err)
	}
}

func TestFolderService_GetRejectsMalformedID(t *testing.T) {
	f := newFixture()

	if _, err := f.folderSvc.Get(context.Background(), adminSubject, "not-a-uuid"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestFolderService_ListAccessibleFiltersByGrant(t *testing.T) {
	f := newFixture()

	mine, err := f.folderSvc.Create(context.Background(), userSubject, "mine", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := f.folderSvc.Create(context.Background(), otherSubject, "theirs", ""); err != nil {
		t.Fatalf("create folder: %v", err)
	}

	visible, err := f.folderSvc.ListAccessible(context.Background(), userSubject)
	if err != nil {
		t.Fatalf("list accessible: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != mine.ID {
		t.Fatalf("expected only own folder, got %+v", visible)
	}

	all, err := f.folderSvc.ListAccessible(context.Background(), adminSubject)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected admin to see 2 folders, got %d", len(all))
	}
}

func TestFolderService_ListAccessibleEmptyIsNotFound(t *testing.T) {
	f := newFixture()

	if _, err := f.folderSvc.ListAccessible(context.Background(), userSubject); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound with no grants, got %v", err)
	}
}

func TestFolderService_NavigationIncludesProducts(t *testing.T) {
	f := newFixture()

	folder, err := f.folderSvc.Create(context.Background(), userSubject, "catalog", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	hidden, err := f.folderSvc.Create(context.Background(), otherSubject, "hidden", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := f.productSvc.Create(context.Background(), userSubject, domain.Product{FolderID: folder.ID, Name: "widget"}); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := f.productSvc.Create(context.Background(), otherSubject, domain.Product{FolderID: hidden.ID, Name: "secret"}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	nav, err := f.folderSvc.Navigation(context.Background(), userSubject)
	if err != nil {
		t.Fatalf("navigation: %v", err)
	}
	if len(nav.Folders) != 1 || nav.Folders[0].ID != folder.ID {
		t.Fatalf("expected one visible folder, got %+v", nav.Folders)
	}
	if len(nav.Products) != 1 || nav.Products[0].Name != "widget" {
		t.Fatalf("expected only products from visible folders, got %+v", nav.Products)
	}
}
