package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <asset-id>",
	Short: "Run analysis for a single uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	result, err := analysisUseCase.Analyze(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Analysis complete: type=%s, time=%dms\n", result.AnalyzerType, result.AnalysisTimeMs)
	if result.Volume != nil {
		fmt.Printf("  volume: %.2f\n", *result.Volume)
	}
	if result.SurfaceArea != nil {
		fmt.Printf("  surface area: %.2f\n", *result.SurfaceArea)
	}
	if len(result.Dimensions) > 0 {
		fmt.Printf("  dimensions: %v\n", result.Dimensions)
	}

	return nil
}
