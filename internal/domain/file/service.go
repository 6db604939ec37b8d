package file

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"time"

	"github.com/google/uuid"

	"rehearse/internal/domain/folder"
	"rehearse/internal/pkg/filepolicy"
)

// FolderAccess resolves a folder only when it belongs to the user.
// Satisfied by folder.Service.
type FolderAccess interface {
	GetByID(ctx context.Context, id string, userID int64) (*folder.SkillFolder, error)
}

// EventPublisher receives folder-level file events. Satisfied by *Hub;
// nil disables publishing.
type EventPublisher interface {
	Publish(folderID string, ev Event)
}

type Service struct {
	repo    Repository
	storage *Storage
	policy  filepolicy.Policy
	folders FolderAccess
	events  EventPublisher
}

func NewService(repo Repository, storage *Storage, policy filepolicy.Policy, folders FolderAccess, events EventPublisher) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		policy:  policy,
		folders: folders,
		events:  events,
	}
}

func (s *Service) Policy() filepolicy.Policy { return s.policy }

// Upload runs the full pipeline: authoritative re-validation, disk
// write, digest, then the metadata row. The row is created strictly
// after a successful write; if the row cannot be created the written
// object is rolled back.
func (s *Service) Upload(ctx context.Context, folderID string, userID int64, fh *multipart.FileHeader) (*StoredFile, error) {
	if _, err := s.folders.GetByID(ctx, folderID, userID); err != nil {
		return nil, err
	}

	mimeType := fh.Header.Get("Content-Type")
	if err := s.policy.CheckFile(fh.Size, mimeType); err != nil {
		return nil, err
	}

	// Fast path; the unique index decides races.
	exists, err := s.repo.ExistsByName(ctx, folderID, fh.Filename)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	defer src.Close()

	storageName, hash, size, err := s.storage.Save(folderID, fh.Filename, src)
	if err != nil {
		// A digest failure leaves the bytes on disk with no row:
		// acceptable garbage for the reconciler.
		return nil, err
	}

	// The declared size passed policy; the written byte count is the
	// server's own determination and is what gets enforced and stored.
	if err := s.policy.CheckFile(size, mimeType); err != nil {
		_ = s.storage.Delete(folderID, storageName)
		return nil, err
	}

	f := &StoredFile{
		ID:            uuid.New().String(),
		SkillFolderID: folderID,
		Filename:      storageName,
		OriginalName:  fh.Filename,
		MimeType:      mimeType,
		Size:          size,
		ContentHash:   hash,
		UploadedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.storage.Delete(folderID, storageName)
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(folderID, Event{Type: EventFileAdded, File: f})
	}

	return f, nil
}

func (s *Service) List(ctx context.Context, folderID string, userID int64) ([]*StoredFile, error) {
	if _, err := s.folders.GetByID(ctx, folderID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByFolder(ctx, folderID)
}

func (s *Service) GetInFolder(ctx context.Context, folderID, fileID string, userID int64) (*StoredFile, error) {
	if _, err := s.folders.GetByID(ctx, folderID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetInFolder(ctx, folderID, fileID)
}

// OpenForRead resolves a file by id across all of the user's folders
// and opens its bytes for streaming. The caller closes the handle.
func (s *Service) OpenForRead(ctx context.Context, fileID string, userID int64) (*StoredFile, *os.File, error) {
	f, err := s.repo.GetByIDForUser(ctx, fileID, userID)
	if err != nil {
		return nil, nil, err
	}
	fh, err := s.storage.Open(f.SkillFolderID, f.Filename)
	if err != nil {
		return nil, nil, err
	}
	return f, fh, nil
}

// Delete removes the storage object first, then the metadata row.
// Storage deletion is idempotent, so a file whose on-disk object is
// already gone still deletes cleanly.
func (s *Service) Delete(ctx context.Context, folderID, fileID string, userID int64) error {
	f, err := s.GetInFolder(ctx, folderID, fileID, userID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(f.SkillFolderID, f.Filename); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, f.ID); err != nil {
		return err
	}

	if s.events != nil {
		s.events.Publish(folderID, Event{Type: EventFileDeleted, FileID: f.ID})
	}

	return nil
}

// PurgeFolder implements folder.Purger: drops every metadata row the
// folder owns and its whole on-disk directory.
func (s *Service) PurgeFolder(ctx context.Context, folderID string) error {
	if err := s.repo.DeleteByFolder(ctx, folderID); err != nil {
		return err
	}
	return s.storage.RemoveFolder(folderID)
}

// IsValidationError reports whether the upload failure was caused by
// client-correctable input.
func IsValidationError(err error) bool {
	return errors.Is(err, filepolicy.ErrFileTooLarge) ||
		errors.Is(err, filepolicy.ErrUnsupportedType) ||
		errors.Is(err, filepolicy.ErrEmptyFile)
}
