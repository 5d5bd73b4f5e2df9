package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"lodgekeep/inquiries/internal/api"
	"lodgekeep/inquiries/internal/cache"
	"lodgekeep/inquiries/internal/config"
	"lodgekeep/inquiries/internal/db"
	"lodgekeep/inquiries/internal/email"
	"lodgekeep/inquiries/internal/services"
	"lodgekeep/inquiries/internal/storage"
	"lodgekeep/inquiries/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	blobStore, err := storage.NewS3BlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3 blob store: %v", err)
	}

	// Email: SMTP (or logging fallback), optionally mirrored to a file log.
	compositeSender := email.NewCompositeEmailSender(email.NewSMTPSender(cfg))
	if logEmailsPath := os.Getenv("LOG_EMAILS"); logEmailsPath != "" {
		fileSender, err := email.NewFileEmailSender(logEmailsPath)
		if err != nil {
			log.Printf("WARNING: Failed to initialize file email sender (LOG_EMAILS=%q): %v. Proceeding without file logging.", logEmailsPath, err)
		} else {
			compositeSender.AddSender(fileSender)
			log.Printf("LOG_EMAILS set to %q, file email logger enabled.", logEmailsPath)
		}
	}
	emailSender := email.Sender(compositeSender)

	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()

	// Status notifications are enqueued; the background worker delivers them
	// through the composite sender and retries transient failures.
	inquiryRepo := services.NewInquiryRepository(mongoDb)
	notifier := services.NewEmailNotifier(cfg, tasks.NewQueueEmailSender(taskClient))
	inquiryService := services.NewInquiryService(inquiryRepo, blobStore, notifier)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	if *runMode == "api" || *runMode == "all" {
		router := api.SetupRouter(cfg, inquiryService)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.ApiPort),
			Handler: router,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("API server listening on :%s", cfg.ApiPort)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("API server error: %v", err)
				stop()
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-rootCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("API server shutdown error: %v", err)
			}
		}()
	}

	if *runMode == "bg" || *runMode == "all" {
		processor := tasks.NewTaskProcessor(cfg, emailSender, inquiryService)
		asynqServer, mux := tasks.SetupServer(redisClient, processor)

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Println("Background task worker starting.")
			if err := asynqServer.Run(mux); err != nil {
				log.Printf("Task worker error: %v", err)
				stop()
			}
		}()

		tasks.StartPurgeScheduler(rootCtx, taskClient, cfg.PurgeSweepInterval)

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-rootCtx.Done()
			asynqServer.Shutdown()
		}()
	}

	<-rootCtx.Done()
	log.Println("Shutdown signal received, waiting for components to stop...")
	wg.Wait()
	log.Println("Shutdown complete.")
}
