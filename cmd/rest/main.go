package main

import (
	"context"
	"log"

	"github.com/saikiransomanagoudar/sonarcare/internal/bootstrap"
	"github.com/saikiransomanagoudar/sonarcare/internal/config"
	"github.com/saikiransomanagoudar/sonarcare/internal/model"
	"github.com/saikiransomanagoudar/sonarcare/internal/server"
	"github.com/saikiransomanagoudar/sonarcare/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.ChatSession{}, &model.ChatMessage{}); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting persist consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
