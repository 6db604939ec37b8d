package note_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"rehearse/internal/domain/folder"
	"rehearse/internal/domain/note"
)

func setupService(t *testing.T) (*note.Service, *folder.SkillFolder) {
	t.Helper()
	dsn := fmt.Sprintf("file:note_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&folder.SkillFolder{}, &note.Note{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	folderService := folder.NewService(folder.NewRepository(db))
	f, err := folderService.Create(context.Background(), 1, &folder.CreateFolderRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("folder Create: %v", err)
	}
	return note.NewService(note.NewRepository(db), folderService), f
}

func TestCreateNote(t *testing.T) {
	svc, f := setupService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, f.ID, 1, &note.CreateNoteRequest{Title: "Slices", Content: "len vs cap"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if n.ID == "" || n.Title != "Slices" || n.Content != "len vs cap" {
		t.Fatalf("unexpected note: %+v", n)
	}
}

func TestCreateNoteDuplicateTitle(t *testing.T) {
	svc, f := setupService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.ID, 1, &note.CreateNoteRequest{Title: "Slices", Content: "a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, f.ID, 1, &note.CreateNoteRequest{Title: "Slices", Content: "b"}); !errors.Is(err, note.ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestCreateNoteRequiresFolderOwnership(t *testing.T) {
	svc, f := setupService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.ID, 2, &note.CreateNoteRequest{Title: "t", Content: "c"}); !errors.Is(err, folder.ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound for other user, got %v", err)
	}
	if _, err := svc.Create(ctx, "missing", 1, &note.CreateNoteRequest{Title: "t", Content: "c"}); !errors.Is(err, folder.ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound for unknown folder, got %v", err)
	}
}

func TestUpdateNote(t *testing.T) {
	svc, f := setupService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, f.ID, 1, &note.CreateNoteRequest{Title: "Slices", Content: "a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, f.ID, 1, &note.CreateNoteRequest{Title: "Maps", Content: "b"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	content := "len vs cap, revisited"
	updated, err := svc.Update(ctx, f.ID, n.ID, 1, &note.UpdateNoteRequest{Content: &content})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Content != content || updated.Title != "Slices" {
		t.Fatalf("unexpected note after update: %+v", updated)
	}

	taken := "Maps"
	if _, err := svc.Update(ctx, f.ID, n.ID, 1, &note.UpdateNoteRequest{Title: &taken}); !errors.Is(err, note.ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestDeleteNote(t *testing.T) {
	svc, f := setupService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, f.ID, 1, &note.CreateNoteRequest{Title: "Slices", Content: "a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, f.ID, n.ID, 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(ctx, f.ID, n.ID, 1); !errors.Is(err, note.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, f.ID, n.ID, 1); !errors.Is(err, note.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound on second delete, got %v", err)
	}
}

func TestListNotesByRecentUpdate(t *testing.T) {
	svc, f := setupService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, f.ID, 1, &note.CreateNoteRequest{Title: "First", Content: "a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Create(ctx, f.ID, 1, &note.CreateNoteRequest{Title: "Second", Content: "b"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := svc.List(ctx, f.ID, 1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Second" {
		t.Fatalf("expected most recently updated first, got %+v", list)
	}

	// Editing the older note moves it to the top.
	time.Sleep(5 * time.Millisecond)
	content := "a2"
	if _, err := svc.Update(ctx, f.ID, first.ID, 1, &note.UpdateNoteRequest{Content: &content}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	list, err = svc.List(ctx, f.ID, 1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if list[0].Title != "First" {
		t.Fatalf("expected edited note first, got %s", list[0].Title)
	}
}
