package folder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Purger removes everything a folder owns in another domain. File and
// note services implement it so folder deletion can cascade without the
// folder package importing either.
type Purger interface {
	PurgeFolder(ctx context.Context, folderID string) error
}

type Service struct {
	repo    Repository
	purgers []Purger
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddPurger registers cascade targets. Called during wiring, before the
// service handles requests.
func (s *Service) AddPurger(purgers ...Purger) {
	s.purgers = append(s.purgers, purgers...)
}

func (s *Service) Create(ctx context.Context, userID int64, req *CreateFolderRequest) (*SkillFolder, error) {
	exists, err := s.repo.ExistsByName(ctx, userID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	now := time.Now()
	f := &SkillFolder{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) GetByID(ctx context.Context, id string, userID int64) (*SkillFolder, error) {
	return s.repo.GetByIDForUser(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID int64) ([]*WithCounts, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id string, userID int64, req *UpdateFolderRequest) (*SkillFolder, error) {
	f, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != f.Name {
		exists, err := s.repo.ExistsByName(ctx, userID, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateName
		}
		f.Name = *req.Name
	}
	if req.Description != nil {
		f.Description = *req.Description
	}
	if req.Color != nil {
		f.Color = *req.Color
	}
	f.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes the folder and everything it owns: file metadata plus
// on-disk objects, and notes. Purgers run before the folder row goes
// away so their folder-scoped queries still resolve.
func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	f, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return err
	}

	for _, p := range s.purgers {
		if err := p.PurgeFolder(ctx, f.ID); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, f.ID)
}
