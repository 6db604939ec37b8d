package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"rehearse/internal/config"
	"rehearse/internal/database"
	"rehearse/internal/domain/file"
	"rehearse/internal/domain/folder"
	"rehearse/internal/domain/note"
	"rehearse/internal/middleware"
	"rehearse/internal/pkg/filepolicy"
	jwtsvc "rehearse/internal/pkg/jwt"
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
	if err := db.AutoMigrate(&folder.SkillFolder{}, &note.Note{}, &file.StoredFile{}); err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	policy := filepolicy.New(cfg.MaxFileSize, cfg.MaxBatchFiles)

	storage := file.NewStorage(cfg.UploadDir)
	hub := file.NewHub()
	defer hub.Close()

	folderService := folder.NewService(folder.NewRepository(db))
	fileService := file.NewService(file.NewRepository(db), storage, policy, folderService, hub)
	noteService := note.NewService(note.NewRepository(db), folderService)
	// Folder deletion cascades into file bytes/rows and notes.
	folderService.AddPurger(fileService, noteService)

	folderHandler := folder.NewHandler(folderService)
	noteHandler := note.NewHandler(noteService)
	fileHandler := file.NewHandler(fileService, hub)

	r := gin.Default()
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			folder.RegisterRoutes(protected, folderHandler)
			note.RegisterRoutes(protected, noteHandler)
			file.RegisterRoutes(protected, fileHandler)
		}
	}

	log.Println("Rehearse API listening on", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
