package domain

import "time"

// Folder groups products and is the unit of permission grants.
type Folder struct {
	ID          string
	Name        string
	Description string
	Owner       string // email of the creating user
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// Product lives inside exactly one folder; access is inherited from it.
type Product struct {
	ID          string
	FolderID    string
	Name        string
	Description string
	Owner       string
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// FolderPermission grants a user, identified by email, access to a folder.
type FolderPermission struct {
	ID        string
	FolderID  string
	Email     string
	CreatedAt time.Time
}

// FolderNavigation is a folder together with its products, as returned by
// the navigation listing.
type FolderNavigation struct {
	Folders  []Folder
	Products []Product
}
