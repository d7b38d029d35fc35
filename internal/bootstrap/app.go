package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/documents"
	"resume-analyzer/internal/keywords"
	"resume-analyzer/internal/queue"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/storage/object"
	localstore "resume-analyzer/internal/shared/storage/object/local"
	s3store "resume-analyzer/internal/shared/storage/object/s3"
	"resume-analyzer/internal/stats"
)

// App holds the composed application: storage, queue, services, handlers and
// the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  *queue.MemoryClient

	DocumentsRepo documents.DocumentsRepo
	AnalysesRepo  analyses.Repo

	DocumentsService *documents.Service
	AnalysesService  *analyses.Service
	StatsService     *stats.Service
	Health           *health.Service

	DocumentsHandler *documents.Handler
	AnalysisHandler  *analyses.Handler
	StatsHandler     *stats.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	keywordList, err := buildKeywords(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queue.NewMemoryClient(cfg.QueueSize),
	}
	buildServices(app, keywordList)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		AnalysisHandler: app.AnalysisHandler,
		StatsHandler:    app.StatsHandler,
		Health:          app.Health,
	})

	return app, nil
}

// StartWorkers launches the analysis worker pool consuming the in-process queue.
func (a *App) StartWorkers(ctx context.Context) {
	a.Queue.Start(ctx, a.Config.Workers, a.AnalysesService.Process)
}

// Shutdown drains the queue so in-flight analyses finish, then closes the
// database.
func (a *App) Shutdown() {
	a.Queue.Drain()
	if a.DB != nil {
		a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildKeywords resolves the default scoring keywords: explicit config wins,
// then a keywords file, then the built-in list.
func buildKeywords(cfg config.Config) ([]string, error) {
	if len(cfg.Keywords) > 0 {
		return cfg.Keywords, nil
	}
	if strings.TrimSpace(cfg.KeywordsFile) != "" {
		list, err := keywords.FromFile(cfg.KeywordsFile)
		if err != nil {
			return nil, fmt.Errorf("load keywords file: %w", err)
		}
		return list, nil
	}
	return keywords.Default(), nil
}

func buildServices(app *App, keywordList []string) {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.AnalysesRepo = analyses.NewMemoryRepo()
	}

	app.DocumentsService = &documents.Service{
		Store: app.Store,
		Repo:  app.DocumentsRepo,
	}
	app.AnalysesService = &analyses.Service{
		Repo:            app.AnalysesRepo,
		DocRepo:         app.DocumentsRepo,
		Store:           app.Store,
		JobQueue:        app.Queue,
		Keywords:        keywordList,
		AnalysisVersion: app.Config.AnalysisVersion,
	}
	if app.DB != nil {
		app.StatsService = stats.NewPostgresService(stats.NewPGStore(app.DB))
	} else {
		app.StatsService = stats.NewService(app.DocumentsRepo, app.AnalysesRepo)
	}
	app.Health = health.NewService(app.DB)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService, app.DocumentsRepo)
	app.StatsHandler = stats.NewHandler(app.StatsService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
