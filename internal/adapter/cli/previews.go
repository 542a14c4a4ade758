package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"printlab/internal/domain/entity"
)

var (
	previewStatus string
	previewTypes  string
)

// previewsCmd represents the previews command
var previewsCmd = &cobra.Command{
	Use:   "previews",
	Short: "Generate missing preview images across the fleet",
	RunE:  runPreviews,
}

func init() {
	previewsCmd.Flags().StringVar(&previewStatus, "status", entity.StatusProcessed, "Asset status to sweep")
	previewsCmd.Flags().StringVar(&previewTypes, "types", "2d,wireframe,3d", "Comma-separated render types")
}

func runPreviews(cmd *cobra.Command, args []string) error {
	types := strings.Split(previewTypes, ",")
	for i := range types {
		types[i] = strings.TrimSpace(types[i])
	}

	summary, err := previewUseCase.GenerateMissing(context.Background(), previewStatus, types)
	if err != nil {
		return err
	}

	fmt.Printf("Swept %d asset(s): %d generated, %d skipped, %d failed\n",
		summary.Assets, summary.Generated, summary.Skipped, summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d preview(s) failed to generate", summary.Failed)
	}
	return nil
}
