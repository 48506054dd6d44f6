package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"stockreport-backend/internal/analyzer"
	googleauth "stockreport-backend/internal/auth"
	"stockreport-backend/internal/identity"
	"stockreport-backend/internal/llm"
	"stockreport-backend/internal/llm/gemini"
	"stockreport-backend/internal/reports"
	sharedauth "stockreport-backend/internal/shared/auth"
	"stockreport-backend/internal/shared/config"
	"stockreport-backend/internal/shared/server"
	"stockreport-backend/internal/shared/storage/db"
	"stockreport-backend/internal/shared/storage/mongostore"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Mongo           *mongostore.Stores
	ReportsRepo     reports.Repo
	ReportsService  *reports.Service
	AnalyzerService *analyzer.Service
	ReportsHandler  *reports.Handler
	AnalyzerHandler *analyzer.Handler
	IdentityHandler *identity.Handler
	GoogleAuth      *googleauth.GoogleService

	// StoreName is the label the health endpoint reports.
	StoreName string
}

// Build prepares shared dependencies and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	// The session signing secret piggybacks on the service-account key
	// when one is present; otherwise the env-based fallback applies.
	if sa := config.LoadServiceAccount(cfg.ServiceAccountFile); sa != nil && sa.PrivateKey != "" {
		sharedauth.Configure([]byte(sa.PrivateKey))
	}

	app := &App{Config: cfg}
	if err := buildStore(ctx, cfg, app); err != nil {
		return nil, err
	}
	if err := buildServices(cfg, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Reports:    app.ReportsHandler,
		Analyzer:   app.AnalyzerHandler,
		Identity:   app.IdentityHandler,
		GoogleAuth: app.GoogleAuth,
	})
	return app, nil
}

// Close releases store connections.
func (a *App) Close(ctx context.Context) {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Mongo != nil {
		_ = a.Mongo.Client.Disconnect(ctx)
	}
}

func buildStore(ctx context.Context, cfg config.Config, app *App) error {
	switch cfg.StoreDriver {
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return storeFallback(cfg, app, fmt.Errorf("STORE_DRIVER=postgres requires DATABASE_URL"))
		}
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return storeFallback(cfg, app, err)
		}
		if err := db.RunMigrations(ctx, conn); err != nil {
			_ = conn.Close()
			return storeFallback(cfg, app, err)
		}
		app.DB = conn
		app.ReportsRepo = &reports.PGRepo{DB: conn}
		app.StoreName = "postgres"
		return nil

	case "mongo":
		mongoCfg, err := mongostore.LoadConfig(cfg.MongoConfigPath)
		if err != nil {
			return storeFallback(cfg, app, err)
		}
		stores, err := mongostore.Connect(ctx, mongoCfg.Mongo)
		if err != nil {
			return storeFallback(cfg, app, err)
		}
		app.Mongo = stores
		app.ReportsRepo = &reports.MongoRepo{Stores: stores}
		app.StoreName = mongoCfg.Mongo.DBName
		return nil

	default:
		app.ReportsRepo = reports.NewMemoryRepo()
		app.StoreName = "memory"
		return nil
	}
}

// storeFallback degrades to the in-memory repo in dev-like
// environments; production fails hard.
func storeFallback(cfg config.Config, app *App, cause error) error {
	if !isDevLike(cfg.Env) {
		return cause
	}
	log.Printf("bootstrap: store unavailable; using in-memory repository: %v", cause)
	app.ReportsRepo = reports.NewMemoryRepo()
	app.StoreName = "memory"
	return nil
}

func buildServices(cfg config.Config, app *App) error {
	reportsSvc := reports.NewService(app.ReportsRepo)

	var llmClient llm.Client
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		geminiClient, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return err
		}
		llmClient = geminiClient
	} else {
		log.Printf("bootstrap: GEMINI_API_KEY empty; /api/analyze will report not configured")
	}
	analyzerSvc := analyzer.NewService(llmClient, reportsSvc)

	app.ReportsService = reportsSvc
	app.AnalyzerService = analyzerSvc
	app.ReportsHandler = reports.NewHandler(reportsSvc, app.StoreName)
	app.AnalyzerHandler = analyzer.NewHandler(analyzerSvc, reportsSvc)
	app.IdentityHandler = identity.NewHandler(cfg.Identity)
	app.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
	)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
