package file

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Reconciler reconciles the upload directory against the metadata
// registry out-of-band. Disk objects without a row are garbage from
// interrupted uploads (written but never recorded) and are removed;
// rows without a disk object are reported but kept, since deleting
// user-visible metadata automatically is the riskier direction.
type Reconciler struct {
	repo    Repository
	storage *Storage
}

func NewReconciler(repo Repository, storage *Storage) *Reconciler {
	return &Reconciler{repo: repo, storage: storage}
}

type ReconcileReport struct {
	OrphanedObjectsRemoved int
	MissingObjects         []string // "<folderID>/<storageName>" with a row but no bytes
}

// Sweep walks every per-folder directory under the storage root.
func (r *Reconciler) Sweep(ctx context.Context) (*ReconcileReport, error) {
	start := time.Now()
	report := &ReconcileReport{}

	entries, err := os.ReadDir(r.storage.Root())
	if os.IsNotExist(err) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderID := entry.Name()

		objects, err := os.ReadDir(filepath.Join(r.storage.Root(), folderID))
		if err != nil {
			return nil, err
		}
		for _, obj := range objects {
			if obj.IsDir() {
				continue
			}
			known, err := r.repo.ExistsByStorageName(ctx, folderID, obj.Name())
			if err != nil {
				return nil, err
			}
			if !known {
				if err := r.storage.Delete(folderID, obj.Name()); err != nil {
					return nil, err
				}
				report.OrphanedObjectsRemoved++
			}
		}
	}

	rows, err := r.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, err := os.Stat(r.storage.Path(row.SkillFolderID, row.Filename)); os.IsNotExist(err) {
			report.MissingObjects = append(report.MissingObjects, row.SkillFolderID+"/"+row.Filename)
		}
	}

	log.Printf("reconcile: removed %d orphaned objects, %d rows missing bytes, took %v",
		report.OrphanedObjectsRemoved, len(report.MissingObjects), time.Since(start))

	return report, nil
}
