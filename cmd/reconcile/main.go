// Command reconcile sweeps the upload directory against the metadata
// registry: objects on disk with no row (interrupted uploads) are
// removed, rows with no bytes are reported. Meant to run out-of-band,
// e.g. from cron.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"rehearse/internal/config"
	"rehearse/internal/database"
	"rehearse/internal/domain/file"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	reconciler := file.NewReconciler(file.NewRepository(db), file.NewStorage(cfg.UploadDir))

	report, err := reconciler.Sweep(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	for _, missing := range report.MissingObjects {
		log.Printf("metadata row without bytes on disk: %s", missing)
	}
}
