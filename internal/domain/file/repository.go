package file

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rehearse/internal/database"
)

type Repository interface {
	Create(ctx context.Context, f *StoredFile) error
	GetInFolder(ctx context.Context, folderID, id string) (*StoredFile, error)
	GetByIDForUser(ctx context.Context, id string, userID int64) (*StoredFile, error)
	ListByFolder(ctx context.Context, folderID string) ([]*StoredFile, error)
	ExistsByName(ctx context.Context, folderID, originalName string) (bool, error)
	ExistsByStorageName(ctx context.Context, folderID, storageName string) (bool, error)
	ListAll(ctx context.Context) ([]*StoredFile, error)
	Delete(ctx context.Context, id string) error
	DeleteByFolder(ctx context.Context, folderID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts the metadata row. The unique index on
// (skill_folder_id, original_name) is the authority for duplicate
// names; concurrent attempts for the same pair leave exactly one row.
func (r *repository) Create(ctx context.Context, f *StoredFile) error {
	err := r.db.WithContext(ctx).Create(f).Error
	if database.IsDuplicateKey(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *repository) GetInFolder(ctx context.Context, folderID, id string) (*StoredFile, error) {
	var f StoredFile
	err := r.db.WithContext(ctx).Where("id = ? AND skill_folder_id = ?", id, folderID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) GetByIDForUser(ctx context.Context, id string, userID int64) (*StoredFile, error) {
	var f StoredFile
	err := r.db.WithContext(ctx).
		Joins("JOIN skill_folders ON skill_folders.id = files.skill_folder_id").
		Where("files.id = ? AND skill_folders.user_id = ?", id, userID).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) ListByFolder(ctx context.Context, folderID string) ([]*StoredFile, error) {
	var files []*StoredFile
	err := r.db.WithContext(ctx).
		Where("skill_folder_id = ?", folderID).
		Order("uploaded_at DESC").
		Find(&files).Error
	return files, err
}

func (r *repository) ExistsByName(ctx context.Context, folderID, originalName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&StoredFile{}).
		Where("skill_folder_id = ? AND original_name = ?", folderID, originalName).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsByStorageName(ctx context.Context, folderID, storageName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&StoredFile{}).
		Where("skill_folder_id = ? AND filename = ?", folderID, storageName).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListAll(ctx context.Context) ([]*StoredFile, error) {
	var files []*StoredFile
	err := r.db.WithContext(ctx).Order("uploaded_at").Find(&files).Error
	return files, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&StoredFile{}).Error
}

func (r *repository) DeleteByFolder(ctx context.Context, folderID string) error {
	return r.db.WithContext(ctx).Where("skill_folder_id = ?", folderID).Delete(&StoredFile{}).Error
}
