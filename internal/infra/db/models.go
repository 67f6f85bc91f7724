package db

import "time"

type FolderModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Owner       string    `gorm:"index;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	ModifiedAt  time.Time `gorm:"not null"`
}

func (FolderModel) TableName() string { return "folders" }

type ProductModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	FolderID    string `gorm:"type:uuid;index;not null"`
	Name        string `gorm:"not null"`
	Description string
	Owner       string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	ModifiedAt  time.Time `gorm:"not null"`
}

func (ProductModel) TableName() string { return "products" }

type FolderPermissionModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FolderID  string    `gorm:"type:uuid;uniqueIndex:idx_folder_email;not null"`
	Email     string    `gorm:"uniqueIndex:idx_folder_email;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (FolderPermissionModel) TableName() string { return "folder_permissions" }
