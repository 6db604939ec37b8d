package note

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rehearse/internal/domain/folder"
)

// FolderAccess resolves a folder only when it belongs to the user.
// Satisfied by folder.Service.
type FolderAccess interface {
	GetByID(ctx context.Context, id string, userID int64) (*folder.SkillFolder, error)
}

type Service struct {
	repo    Repository
	folders FolderAccess
}

func NewService(repo Repository, folders FolderAccess) *Service {
	return &Service{repo: repo, folders: folders}
}

func (s *Service) Create(ctx context.Context, folderID string, userID int64, req *CreateNoteRequest) (*Note, error) {
	if _, err := s.folders.GetByID(ctx, folderID, userID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByTitle(ctx, folderID, req.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateTitle
	}

	now := time.Now()
	n := &Note{
		ID:            uuid.New().String(),
		SkillFolderID: folderID,
		Title:         req.Title,
		Content:       req.Content,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, folderID string, userID int64) ([]*Note, error) {
	if _, err := s.folders.GetByID(ctx, folderID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByFolder(ctx, folderID)
}

func (s *Service) Get(ctx context.Context, folderID, noteID string, userID int64) (*Note, error) {
	if _, err := s.folders.GetByID(ctx, folderID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, folderID, noteID)
}

func (s *Service) Update(ctx context.Context, folderID, noteID string, userID int64, req *UpdateNoteRequest) (*Note, error) {
	n, err := s.Get(ctx, folderID, noteID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != n.Title {
		exists, err := s.repo.ExistsByTitle(ctx, folderID, *req.Title)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateTitle
		}
		n.Title = *req.Title
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	n.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, folderID, noteID string, userID int64) error {
	n, err := s.Get(ctx, folderID, noteID, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, n.ID)
}

// PurgeFolder implements folder.Purger: folder deletion cascades to
// every note it owns.
func (s *Service) PurgeFolder(ctx context.Context, folderID string) error {
	return s.repo.DeleteByFolder(ctx, folderID)
}
