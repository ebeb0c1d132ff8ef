package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadgauge/takeoff/internal/model"
	"github.com/cadgauge/takeoff/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	runTimeout    time.Duration
	modeName      string
	threshold     float64
	rulesPath     string
	pricesPath    string
	verifierName  string
	verifierModel string
	maxConcurrent int
	noCache       bool
	noFooter      bool
	withDetail    bool
)

// recognizeCmd represents the recognize command
var recognizeCmd = &cobra.Command{
	Use:   "recognize <entities-file>",
	Short: "Recognize components in one drawing's extracted text and build a bill of quantities",
	Long: `Recognize runs the full takeoff pipeline over one entity file:
- Match every text fragment against the rule catalog
- Check candidates against building-code constraints
- Score confidence from rule base, extraction completeness, and code flags
- Verify selected candidates with the configured AI judge (per precision mode)
- Merge restated components and aggregate quantities and costs

The entities file is either a JSON entity list or an HTML schedule export.

Example:
  takeoff recognize plan01.json
  takeoff recognize plan01.json --mode final --verifier openai --json boq.json
  takeoff recognize schedule.html --mode budget --threshold 0.75 --md boq.md`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	// Output flags
	recognizeCmd.Flags().StringVar(&outJSON, "json", "takeoff.json", "output JSON path")
	recognizeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	recognizeCmd.Flags().BoolVar(&withDetail, "detail", false, "include per-candidate detail in JSON output")
	recognizeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Recognition flags
	recognizeCmd.Flags().StringVar(&modeName, "mode", "quick", "precision mode (quick, budget, final)")
	recognizeCmd.Flags().Float64Var(&threshold, "threshold", 0.7, "valid-count confidence threshold")
	recognizeCmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule catalog (extends built-in rules)")
	recognizeCmd.Flags().StringVar(&pricesPath, "prices", "", "YAML price table (extends built-in prices)")
	recognizeCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall run timeout")

	// Verification flags
	recognizeCmd.Flags().StringVar(&verifierName, "verifier", "", "verification provider (openai, ollama, static)")
	recognizeCmd.Flags().StringVar(&verifierModel, "verifier-model", "", "verification model name")
	recognizeCmd.Flags().IntVar(&maxConcurrent, "concurrency", 10, "max in-flight verification calls")
	recognizeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verification decision cache")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Recognizing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Mode: %s\n", cfg.Recognition.Mode)
		if cfg.Verify.Provider != "" {
			fmt.Fprintf(os.Stderr, "Verifier: %s\n", cfg.Verify.Provider)
		}
		fmt.Fprintln(os.Stderr)
	}

	engine, err := pipeline.NewEngine(cfg)
	if err != nil {
		return err
	}

	result, err := engine.RecognizeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("recognize: %w", err)
	}

	renderer := pipeline.NewRenderer(!noFooter, withDetail)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(result)
	return nil
}

// buildConfig assembles the run configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.Recognition.Mode = model.ParsePrecisionMode(modeName)
	cfg.Recognition.Threshold = threshold
	cfg.Rules.CatalogPath = rulesPath
	cfg.Rules.PricesPath = pricesPath
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Output.IncludeDetail = withDetail

	cfg.Verify.Provider = verifierName
	cfg.Verify.Model = verifierModel
	if maxConcurrent > 0 {
		cfg.Verify.MaxConcurrent = maxConcurrent
	}

	switch verifierName {
	case "openai":
		cfg.Verify.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Verify.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Verify.BaseURL = baseURL
		}
	}

	return cfg, nil
}
