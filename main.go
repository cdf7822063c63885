package main

import (
	"log"

	"github.com/rohandevadiga3333/wiz/config"
	_ "github.com/rohandevadiga3333/wiz/docs"
	"github.com/rohandevadiga3333/wiz/internal/task"
	"github.com/rohandevadiga3333/wiz/internal/team"
	"github.com/rohandevadiga3333/wiz/internal/user"
	"github.com/rohandevadiga3333/wiz/routes"
)

// @title Wiz Team Tasks API
// @version 1.0
// @description Team task management server: leader-run teams, membership approval and a shared subtask pool.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&user.User{}, &team.Team{},
		&task.Task{}, &task.Subtask{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes(db, cfg)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
