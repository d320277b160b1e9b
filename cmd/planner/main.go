package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"floorplan/internal/adjacency/graph"
	"floorplan/internal/common/config"
	"floorplan/internal/common/middleware"
	"floorplan/internal/planner/handlers"
	"floorplan/internal/planner/repository"
	"floorplan/internal/planner/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	builder := graph.NewGraphBuilder()
	floorplans := service.NewFloorplanService(repo, builder)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Planner Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	if cfg.CORSEnabled {
		app.Use(middleware.CORS(cfg.CORSOrigins))
	}

	// ============================================================
	// Routes
	// ============================================================

	handlers.RegisterRoutes(app,
		handlers.NewHealthHandler(db),
		handlers.NewAdjacencyHandler(builder),
		handlers.NewFloorplanHandler(floorplans),
	)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Planner Service on %s (env: %s, db: %s)", addr, cfg.Environment, cfg.DBPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
