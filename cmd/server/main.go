package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aniela13/card-scanner/internal/api"
	"github.com/Aniela13/card-scanner/internal/services"
	"github.com/Aniela13/card-scanner/internal/store"
)

func main() {
	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./card_scanner.db"
	}

	collection, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open collection store: %v", err)
	}

	// Recognition service endpoint
	recognizerURL := os.Getenv("RECOGNIZER_URL")
	if recognizerURL == "" {
		recognizerURL = "http://localhost:5000/process_image"
	}
	recognizer := services.NewRecognizer(recognizerURL)

	// Captured image storage
	imagesDir := os.Getenv("SCANNED_IMAGES_DIR")
	if imagesDir == "" {
		imagesDir = "./data/scanned_images"
	}
	images := services.NewImageStorage(imagesDir)

	scanner := services.NewScanner(recognizer, images, collection)

	router := api.SetupRouter(scanner, collection, images)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
