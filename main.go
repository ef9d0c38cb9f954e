package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/opencongress/congresso/api"
	"github.com/opencongress/congresso/datastore"
	"github.com/opencongress/congresso/flipbook"
	"github.com/opencongress/congresso/notify"
	"github.com/opencongress/congresso/review"
	rh "github.com/opencongress/congresso/route-handlers"
	"github.com/opencongress/congresso/scheduler"
	"github.com/opencongress/congresso/storage"
	"github.com/opencongress/congresso/webhooks"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "user=postgres password=password dbname=congresso host=localhost port=5432 sslmode=disable"
	defaultStoragePath   = "./data"
	defaultSendGridFrom  = "noreply@opencongress.org"
	defaultSendGridName  = "Congresso"
	defaultRenderWorkers = 2
	defaultRenderBuffer  = 16
	dbPingTimeout        = 5 * time.Second
	shutdownTimeout      = 15 * time.Second
	dbMaxOpenConns       = 25
	dbMaxIdleConns       = 25
	dbConnMaxLifetime    = 5 * time.Minute
)

type config struct {
	port              string
	databaseURL       string
	storagePath       string
	s3Bucket          string
	s3Region          string
	sendGridAPIKey    string
	sendGridFromEmail string
	sendGridFromName  string
	renderWorkers     int
	renderConcurrency int
}

func main() {
	cfg := loadConfig()

	db, err := setupDatabase(cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	abstractRepo := datastore.NewAbstractRepository(db)
	transitionRepo := datastore.NewStatusTransitionRepository(db)
	accountRepo := datastore.NewAccountRepository(db)
	congressRepo := datastore.NewCongressRepository(db)
	activityRepo := datastore.NewActivityRepository(db)
	eposterRepo := datastore.NewEPosterRepository(db)
	webinarRepo := datastore.NewWebinarRepository(db)

	storer := setupStorer(cfg)

	// Initialize review workflow
	emailProvider := notify.NewSendGridProvider(cfg.sendGridAPIKey, cfg.sendGridFromEmail, cfg.sendGridFromName)
	statusNotifier := notify.NewStatusChangeNotifier(emailProvider)
	reviewService := review.NewService(abstractRepo, transitionRepo, statusNotifier)

	// Initialize flipbook pipeline
	opener := flipbook.NewFitzOpener(&flipbook.RoutingFetcher{
		HTTP:  &flipbook.HTTPFetcher{},
		Store: storer,
	})
	renderer := flipbook.NewRenderer(opener, cfg.renderConcurrency)
	renderSink := scheduler.NewPreRenderSink(storer, eposterRepo)
	renderQueue := flipbook.NewQueue(renderer, renderSink, cfg.renderWorkers, defaultRenderBuffer)

	abstractHandler := rh.NewAbstractHandler(abstractRepo, accountRepo, reviewService, storer)
	congressHandler := rh.NewCongressHandler(congressRepo, activityRepo, eposterRepo, webinarRepo)
	accountHandler := rh.NewAccountHandler(accountRepo)
	flipbookHandler := rh.NewFlipbookHandler(renderer, storer)
	fileHandler := rh.NewFileHandler(storer)

	storageEventHandler := webhooks.NewStorageEventHandler(reviewService, storer)

	apiRouter := api.SetupRoutes(
		abstractHandler,
		congressHandler,
		accountHandler,
		flipbookHandler,
		fileHandler,
	)

	// Initialize scheduler
	tickScheduler := scheduler.New(congressRepo, eposterRepo, renderQueue)

	mainRouter := chi.NewRouter()
	mainRouter.Mount("/", apiRouter)

	mainRouter.Post("/webhooks/storage-events", storageEventHandler.HandleObjectCreated)
	mainRouter.Post("/scheduler/tick", tickScheduler.HandleTick)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	renderQueue.Start(workerCtx)

	startServer(cfg.port, mainRouter)

	stopWorkers()
	renderQueue.Wait()
}

func loadConfig() config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	storagePath := os.Getenv("STORAGE_PATH")
	if storagePath == "" {
		storagePath = defaultStoragePath
	}

	s3Bucket := os.Getenv("S3_BUCKET")
	s3Region := os.Getenv("S3_REGION")
	if s3Bucket != "" && s3Region == "" {
		s3Region = "us-east-1"
		log.Println("WARNING: S3_REGION not set, defaulting to us-east-1.")
	}

	sendGridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendGridAPIKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY not set. Author notification emails will fail at runtime.")
	}

	sendGridFrom := os.Getenv("SENDGRID_FROM_EMAIL")
	if sendGridFrom == "" {
		sendGridFrom = defaultSendGridFrom
	}

	sendGridName := os.Getenv("SENDGRID_FROM_NAME")
	if sendGridName == "" {
		sendGridName = defaultSendGridName
	}

	renderWorkers := intFromEnv("RENDER_WORKERS", defaultRenderWorkers)
	renderConcurrency := intFromEnv("RENDER_CONCURRENCY", 0) // 0 lets the renderer pick its default

	return config{
		port:              port,
		databaseURL:       dbURL,
		storagePath:       storagePath,
		s3Bucket:          s3Bucket,
		s3Region:          s3Region,
		sendGridAPIKey:    sendGridAPIKey,
		sendGridFromEmail: sendGridFrom,
		sendGridFromName:  sendGridName,
		renderWorkers:     renderWorkers,
		renderConcurrency: renderConcurrency,
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("WARNING: Invalid %s value %q, using %d.", key, raw, fallback)
		return fallback
	}
	return n
}

// setupStorer selects S3 when a bucket is configured and falls back to the
// local filesystem otherwise.
func setupStorer(cfg config) storage.ContentStorer {
	if cfg.s3Bucket != "" {
		sess := session.Must(session.NewSession(&aws.Config{
			Region: aws.String(cfg.s3Region),
		}))
		log.Printf("Using S3 storage (bucket %s, region %s)", cfg.s3Bucket, cfg.s3Region)
		return storage.NewS3Storer(sess, cfg.s3Bucket)
	}

	log.Printf("Using local file storage at %s", cfg.storagePath)
	return storage.NewLocalFileStorer(cfg.storagePath)
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
