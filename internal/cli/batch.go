package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadgauge/takeoff/internal/pipeline"
	"github.com/cadgauge/takeoff/internal/worker"
)

var (
	batchWorkers int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Recognize multiple entity files from a list in parallel",
	Long: `Batch recognizes many drawings concurrently:
- Read entity-file paths from the list file (one per line)
- Recognize files in parallel with a configurable worker count
- Write one JSON and Markdown report per file into the output directory

Example:
  takeoff batch drawings.txt
  takeoff batch drawings.txt --workers 8 --output-dir ./boq --mode budget --verifier openai`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", runtime.NumCPU(), "number of concurrent files")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./takeoff-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Shared recognition/verification flags
	batchCmd.Flags().StringVar(&modeName, "mode", "quick", "precision mode (quick, budget, final)")
	batchCmd.Flags().Float64Var(&threshold, "threshold", 0.7, "valid-count confidence threshold")
	batchCmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule catalog (extends built-in rules)")
	batchCmd.Flags().StringVar(&pricesPath, "prices", "", "YAML price table (extends built-in prices)")
	batchCmd.Flags().StringVar(&verifierName, "verifier", "", "verification provider (openai, ollama, static)")
	batchCmd.Flags().StringVar(&verifierModel, "verifier-model", "", "verification model name")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verification decision cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	engine, err := pipeline.NewEngine(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	processor := worker.NewBatchProcessor(engine, batchWorkers)
	results, err := processor.ProcessListFile(ctx, listFile)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(!noFooter, false)

	succeeded, failed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", res.Path, res.Err)
			continue
		}
		succeeded++

		base := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
		jsonPath := filepath.Join(outputDir, base+".json")
		mdPath := filepath.Join(outputDir, base+".md")

		if err := renderer.RenderJSON(res.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "WARN %s: %v\n", res.Path, err)
		}
		if err := renderer.RenderMarkdown(res.Result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "WARN %s: %v\n", res.Path, err)
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "OK %s: %d components, cost %s\n",
				res.Path, res.Result.Summary.TotalComponents, res.Result.Summary.TotalCost.StringFixed(2))
		}
	}

	fmt.Printf("\nBatch complete: %d succeeded, %d failed, reports in %s\n", succeeded, failed, outputDir)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
