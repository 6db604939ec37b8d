package note

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rehearse/internal/database"
)

type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, folderID, id string) (*Note, error)
	ListByFolder(ctx context.Context, folderID string) ([]*Note, error)
	ExistsByTitle(ctx context.Context, folderID, title string) (bool, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id string) error
	DeleteByFolder(ctx context.Context, folderID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Note) error {
	err := r.db.WithContext(ctx).Create(n).Error
	if database.IsDuplicateKey(err) {
		return ErrDuplicateTitle
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, folderID, id string) (*Note, error) {
	var n Note
	err := r.db.WithContext(ctx).Where("id = ? AND skill_folder_id = ?", id, folderID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) ListByFolder(ctx context.Context, folderID string) ([]*Note, error) {
	var notes []*Note
	err := r.db.WithContext(ctx).
		Where("skill_folder_id = ?", folderID).
		Order("updated_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *repository) ExistsByTitle(ctx context.Context, folderID, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Note{}).
		Where("skill_folder_id = ? AND title = ?", folderID, title).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, n *Note) error {
	err := r.db.WithContext(ctx).Save(n).Error
	if database.IsDuplicateKey(err) {
		return ErrDuplicateTitle
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Note{}).Error
}

func (r *repository) DeleteByFolder(ctx context.Context, folderID string) error {
	return r.db.WithContext(ctx).Where("skill_folder_id = ?", folderID).Delete(&Note{}).Error
}
