package folder

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rehearse/internal/database"
)

type Repository interface {
	Create(ctx context.Context, f *SkillFolder) error
	GetByIDForUser(ctx context.Context, id string, userID int64) (*SkillFolder, error)
	ListByUser(ctx context.Context, userID int64) ([]*WithCounts, error)
	ExistsByName(ctx context.Context, userID int64, name string) (bool, error)
	Update(ctx context.Context, f *SkillFolder) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *SkillFolder) error {
	err := r.db.WithContext(ctx).Create(f).Error
	if database.IsDuplicateKey(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *repository) GetByIDForUser(ctx context.Context, id string, userID int64) (*SkillFolder, error) {
	var f SkillFolder
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*WithCounts, error) {
	var folders []*WithCounts
	err := r.db.WithContext(ctx).
		Model(&SkillFolder{}).
		Select(`skill_folders.*,
			(SELECT COUNT(*) FROM files WHERE files.skill_folder_id = skill_folders.id) AS file_count,
			(SELECT COUNT(*) FROM notes WHERE notes.skill_folder_id = skill_folders.id) AS note_count`).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&folders).Error
	return folders, err
}

func (r *repository) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SkillFolder{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, f *SkillFolder) error {
	err := r.db.WithContext(ctx).Save(f).Error
	if database.IsDuplicateKey(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&SkillFolder{}).Error
}
