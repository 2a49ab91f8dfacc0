package main

import (
	"log"

	"github.com/passai/material-service/config"
	"github.com/passai/material-service/database"
	"github.com/passai/material-service/events"
	"github.com/passai/material-service/extractor"
	"github.com/passai/material-service/handler"
	"github.com/passai/material-service/middleware"
	"github.com/passai/material-service/pkg/metrics"
	"github.com/passai/material-service/repository"
	"github.com/passai/material-service/router"
	"github.com/passai/material-service/service"
	"github.com/passai/material-service/storage"
)

func main() {
	cfg := config.LoadConfig()

	metrics.StartMetricsServer(cfg.Server.MetricsPort)
	log.Printf("Prometheus metrics server started on :%s", cfg.Server.MetricsPort)

	db := database.InitDB(cfg)
	repo := repository.NewMaterialRepository(db)

	blobs, err := storage.NewMinioStore(cfg.MinIO)
	if err != nil {
		log.Fatalf("init blob store: %v", err)
	}

	publisher := events.NewPublisher(cfg.Kafka)
	defer publisher.Close()

	registry := extractor.NewRegistry(extractor.NewOCRClient(cfg.OCR.Endpoint))
	quota := service.NewQuotaTracker(repo)
	pipeline := service.NewPipeline(repo, blobs, registry, quota, publisher)
	batch := service.NewBatchCoordinator(pipeline)

	materialHandler := handler.NewMaterialHandler(pipeline, batch, quota, repo, blobs)
	auth := middleware.NewAuthValidator(cfg.JWTSecret)

	r := router.Setup(materialHandler, auth)
	log.Printf("material service listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
