package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func setupRegistry(t *testing.T) Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:reconcile_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&StoredFile{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewRepository(db)
}

func TestSweepRemovesOrphanedObjects(t *testing.T) {
	repo := setupRegistry(t)
	storage := NewStorage(t.TempDir())
	ctx := context.Background()

	// A recorded file: bytes plus a metadata row.
	name, hash, size, err := storage.Save("f1", "kept.txt", strings.NewReader("kept"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Create(ctx, &StoredFile{
		ID:            uuid.New().String(),
		SkillFolderID: "f1",
		Filename:      name,
		OriginalName:  "kept.txt",
		MimeType:      "text/plain",
		Size:          size,
		ContentHash:   hash,
		UploadedAt:    time.Now(),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// An interrupted upload: bytes with no row.
	if err := os.WriteFile(filepath.Join(storage.Root(), "f1", "deadbeef_orphan.txt"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// A row whose bytes were lost.
	if err := repo.Create(ctx, &StoredFile{
		ID:            uuid.New().String(),
		SkillFolderID: "f2",
		Filename:      "cafebabe_lost.txt",
		OriginalName:  "lost.txt",
		MimeType:      "text/plain",
		Size:          4,
		UploadedAt:    time.Now(),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	report, err := NewReconciler(repo, storage).Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}

	if report.OrphanedObjectsRemoved != 1 {
		t.Fatalf("expected 1 orphan removed, got %d", report.OrphanedObjectsRemoved)
	}
	if _, err := os.Stat(filepath.Join(storage.Root(), "f1", "deadbeef_orphan.txt")); !os.IsNotExist(err) {
		t.Fatalf("orphaned object still on disk")
	}
	if _, err := os.Stat(storage.Path("f1", name)); err != nil {
		t.Fatalf("recorded object was removed: %v", err)
	}

	if len(report.MissingObjects) != 1 || report.MissingObjects[0] != "f2/cafebabe_lost.txt" {
		t.Fatalf("expected the lost row reported, got %v", report.MissingObjects)
	}
}

func TestSweepEmptyRootIsNoop(t *testing.T) {
	repo := setupRegistry(t)
	storage := NewStorage(filepath.Join(t.TempDir(), "never-created"))

	report, err := NewReconciler(repo, storage).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if report.OrphanedObjectsRemoved != 0 || len(report.MissingObjects) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
