package cli

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"printlab/internal/adapter/repository"
	"printlab/internal/domain/service"
	"printlab/internal/infrastructure/analyzer"
	"printlab/internal/infrastructure/preview"
	"printlab/internal/infrastructure/storage"
	"printlab/internal/usecase"
	"printlab/pkg/config"
)

var (
	fileUseCase     *usecase.FileUseCase
	analysisUseCase *usecase.AnalysisUseCase
	previewUseCase  *usecase.PreviewUseCase

	firestoreClient *firestore.Client
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "printlabctl",
	Short:             "Administrative commands for the printlab file processor",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if firestoreClient != nil {
		firestoreClient.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reanalyzeCmd)
	rootCmd.AddCommand(previewsCmd)
	rootCmd.AddCommand(inspectCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firestoreClient, err = firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return err
	}

	localStorage, err := storage.NewLocalStorage(cfg.StorageRoot, cfg.PreviewRoot)
	if err != nil {
		return err
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

	fileUseCase = usecase.NewFileUseCase(assetRepo, resultRepo, errorRepo, previewRepo, localStorage)
	analysisUseCase = usecase.NewAnalysisUseCase(
		assetRepo, resultRepo, errorRepo,
		resolver, runner, localStorage, nil,
		cfg.AnalysisTimeout,
	)
	previewUseCase = usecase.NewPreviewUseCase(
		assetRepo, previewRepo, errorRepo, localStorage,
		primaryRenderer, fallbackRenderer,
		cfg.PreviewWidth, cfg.PreviewHeight,
	)

	return nil
}
