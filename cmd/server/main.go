package main

import (
	"context"
	"fmt"
	"log"

	"mobox/database"
	"mobox/internal/api"
	"mobox/internal/config"
	"mobox/internal/controller"
	"mobox/internal/repository"
	"mobox/internal/session"
	"mobox/internal/store"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := cfg.Logger()

	// 2. Open the database once; everything downstream gets the handle
	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// 3. Gateway, seed, façade, session
	st := store.New(db, logger)
	if cfg.SeedCatalog {
		if err := database.SeedCatalog(context.Background(), st, logger); err != nil {
			log.Fatalf("could not seed catalog: %v", err)
		}
	}
	repo := repository.NewAppRepository(st)
	sess := session.New()

	// 4. Process-scoped controllers
	home := controller.NewHomeController(repo, sess, cfg.HomeLinger, logger)
	defer home.Close()

	// 5. HTTP surface
	router := api.NewRouter(&api.Deps{
		Cfg:     cfg,
		Repo:    repo,
		Session: sess,
		Home:    home,
		Logger:  logger,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.HTTPPort)
	logger.Info("Server running", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
