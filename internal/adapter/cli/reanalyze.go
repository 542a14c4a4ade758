package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reanalyzeAllSTL bool

// reanalyzeCmd represents the reanalyze command
var reanalyzeCmd = &cobra.Command{
	Use:   "reanalyze [asset-id]",
	Short: "Clear previous results and re-run analysis",
	Long: `Re-run analysis for one asset, or for every STL asset with --all-stl.

Reanalysis deletes the stored analysis result and the asset's error history
before retrying, so a failed asset comes back clean.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReanalyze,
}

func init() {
	reanalyzeCmd.Flags().BoolVar(&reanalyzeAllSTL, "all-stl", false, "Reanalyze every STL asset")
}

func runReanalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if !reanalyzeAllSTL {
		if len(args) != 1 {
			return fmt.Errorf("asset id required unless --all-stl is set")
		}
		result, err := analysisUseCase.Reanalyze(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Reanalysis complete: type=%s, time=%dms\n", result.AnalyzerType, result.AnalysisTimeMs)
		return nil
	}

	assets, _, err := fileUseCase.List(ctx, 0, 0)
	if err != nil {
		return err
	}

	var failed int
	for _, asset := range assets {
		if asset.Extension != "stl" || !asset.CanReanalyze() {
			continue
		}
		if _, err := analysisUseCase.Reanalyze(ctx, asset.ID); err != nil {
			fmt.Printf("FAILED %s (%s): %v\n", asset.ID, asset.OriginalName, err)
			failed++
			continue
		}
		fmt.Printf("OK %s (%s)\n", asset.ID, asset.OriginalName)
	}

	if failed > 0 {
		return fmt.Errorf("%d asset(s) failed to reanalyze", failed)
	}
	return nil
}
