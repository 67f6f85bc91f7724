package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

type stubFolderRepo struct {
	folders map[string]domain.Folder
	order   []string
}

func newStubFolderRepo() *stubFolderRepo {
	return &stubFolderRepo{folders: map[string]domain.Folder{}}
}

func (r *stubFolderRepo) Create(_ context.Context, folder domain.Folder) (*domain.Folder, error) {
	folder.ID = uuid.NewString()
	folder.CreatedAt = time.Now().UTC()
	folder.ModifiedAt = folder.CreatedAt
	r.folders[folder.ID] = folder
	r.order = append(r.order, folder.ID)
	return &folder, nil
}

func (r *stubFolderRepo) GetByID(_ context.Context, folderID string) (*domain.Folder, error) {
	folder, ok := r.folders[folderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &folder, nil
}

func (r *stubFolderRepo) List(_ context.Context) ([]domain.Folder, error) {
	out := make([]domain.Folder, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.folders[id])
	}
	return out, nil
}

func (r *stubFolderRepo) ListByIDs(_ context.Context, folderIDs []string) ([]domain.Folder, error) {
	want := map[string]bool{}
	for _, id := range folderIDs {
		want[id] = true
	}
	var out []domain.Folder
	for _, id := range r.order {
		if want[id] {
			out = append(out, r.folders[id])
		}
	}
	return out, nil
}

type stubProductRepo struct {
	products map[string]domain.Product
	order    []string
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[string]domain.Product{}}
}

func (r *stubProductRepo) Create(_ context.Context, product domain.Product) (*domain.Product, error) {
	product.ID = uuid.NewString()
	product.CreatedAt = time.Now().UTC()
	product.ModifiedAt = product.CreatedAt
	r.products[product.ID] = product
	r.order = append(r.order, product.ID)
	return &product, nil
}

func (r *stubProductRepo) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &product, nil
}

func (r *stubProductRepo) ListByFolder(_ context.Context, folderID string) ([]domain.Product, error) {
	return r.ListByFolders(nil, []string{folderID})
}

func (r *stubProductRepo) ListByFolders(_ context.Context, folderIDs []string) ([]domain.Product, error) {
	want := map[string]bool{}
	for _, id := range folderIDs {
		want[id] = true
	}
	var out []domain.Product
	for _, id := range r.order {
		if want[r.products[id].FolderID] {
			out = append(out, r.products[id])
		}
	}
	return out, nil
}

type stubPermissionRepo struct {
	grants map[string]domain.FolderPermission // folderID + "|" + email
}

func newStubPermissionRepo() *stubPermissionRepo {
	return &stubPermissionRepo{grants: map[string]domain.FolderPermission{}}
}

func grantKey(folderID, email string) string { return folderID + "|" + email }

func (r *stubPermissionRepo) Create(_ context.Context, perm domain.FolderPermission) (*domain.FolderPermission, error) {
	key := grantKey(perm.FolderID, perm.Email)
	if _, ok := r.grants[key]; ok {
		return nil, domain.ErrConflict
	}
	perm.ID = uuid.NewString()
	perm.CreatedAt = time.Now().UTC()
	r.grants[key] = perm
	return &perm, nil
}

func (r *stubPermissionRepo) GetByFolderAndEmail(_ context.Context, folderID, email string) (*domain.FolderPermission, error) {
	perm, ok := r.grants[grantKey(folderID, email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &perm, nil
}

func (r *stubPermissionRepo) ListByFolder(_ context.Context, folderID string) ([]domain.FolderPermission, error) {
	var out []domain.FolderPermission
	for _, perm := range r.grants {
		if perm.FolderID == folderID {
			out = append(out, perm)
		}
	}
	return out, nil
}

func (r *stubPermissionRepo) ListByEmail(_ context.Context, email string) ([]domain.FolderPermission, error) {
	var out []domain.FolderPermission
	for _, perm := range r.grants {
		if perm.Email == email {
			out = append(out, perm)
		}
	}
	return out, nil
}

func (r *stubPermissionRepo) Delete(_ context.Context, folderID, email string) error {
	key := grantKey(folderID, email)
	if _, ok := r.grants[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.grants, key)
	return nil
}

type fixture struct {
	folders  *stubFolderRepo
	products *stubProductRepo
	perms    *stubPermissionRepo

	folderSvc  *FolderService
	productSvc *ProductService
	permSvc    *PermissionService
}

func newFixture() *fixture {
	folders := newStubFolderRepo()
	products := newStubProductRepo()
	perms := newStubPermissionRepo()
	access := NewAccessChecker(folders, perms)
	return &fixture{
		folders:    folders,
		products:   products,
		perms:      perms,
		folderSvc:  NewFolderService(folders, products, perms, access),
		productSvc: NewProductService(products, access),
		permSvc:    NewPermissionService(folders, perms),
	}
}

var (
	adminSubject = domain.Subject{Kind: domain.SubjectUser, ID: "admin-1", Email: "admin@example.org", Admin: true}
	userSubject  = domain.Subject{Kind: domain.SubjectUser, ID: "user-1", Email: "user@example.com"}
	otherSubject = domain.Subject{Kind: domain.SubjectUser, ID: "user-2", Email: "other@example.com"}
	masterKey    = domain.Subject{Kind: domain.SubjectMasterKey}
	anonymous    = domain.Subject{Kind: domain.SubjectAnonymous, ID: "203.0.113.9"}
)
