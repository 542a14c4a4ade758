package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"printlab/internal/adapter/api"
	"printlab/internal/adapter/api/handler"
	apimiddleware "printlab/internal/adapter/api/middleware"
	"printlab/internal/adapter/api/router"
	"printlab/internal/adapter/repository"
	"printlab/internal/domain/service"
	"printlab/internal/infrastructure/analyzer"
	"printlab/internal/infrastructure/preview"
	"printlab/internal/infrastructure/ratelimit"
	"printlab/internal/infrastructure/storage"
	"printlab/internal/infrastructure/websocket"
	"printlab/internal/usecase"
	"printlab/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	localStorage, err := storage.NewLocalStorage(cfg.StorageRoot, cfg.PreviewRoot)
	if err != nil {
		log.Fatalf("Failed to initialize local storage: %v", err)
	}

	assetRepo := repository.NewFirestoreFileAssetRepository(firestoreClient)
	resultRepo := repository.NewFirestoreAnalysisResultRepository(firestoreClient)
	errorRepo := repository.NewFirestoreFileErrorRepository(firestoreClient)
	previewRepo := repository.NewFirestoreFilePreviewRepository(firestoreClient)

	resolver := analyzer.NewResolver(analyzer.ResolverConfig{
		AnalyzerDir:   cfg.AnalyzerDir,
		RuntimePrefix: cfg.RuntimePrefix,
		VenvPath:      cfg.VenvPath,
	})
	runner := analyzer.NewRunner()

	primaryRenderer := preview.NewClient("hybrid", cfg.PreviewPrimaryURL, cfg.PreviewTimeout)
	var fallbackRenderer service.PreviewRenderer
	if cfg.PreviewFallbackURL != "" {
		fallbackRenderer = preview.NewClient("simple", cfg.PreviewFallbackURL, cfg.PreviewTimeout)
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	fileUseCase := usecase.NewFileUseCase(assetRepo, resultRepo, errorRepo, previewRepo, localStorage)
	analysisUseCase := usecase.NewAnalysisUseCase(
		assetRepo, resultRepo, errorRepo,
		resolver, runner, localStorage, wsManager,
		cfg.AnalysisTimeout,
	)
	previewUseCase := usecase.NewPreviewUseCase(
		assetRepo, previewRepo, errorRepo, localStorage,
		primaryRenderer, fallbackRenderer,
		cfg.PreviewWidth, cfg.PreviewHeight,
	)

	handler.Setup(fileUseCase, analysisUseCase, previewUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	limiter := ratelimit.NewRateLimiter(nil)
	limiter.StartCleanupRoutine()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	rateLimitMiddleware := apimiddleware.NewRateLimitMiddleware(limiter)
	wsHandler := handler.NewWebSocketHandler(wsManager)

	router.Setup(e, authMiddleware, rateLimitMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
