package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadgauge/takeoff/internal/rules"
)

var rulesCatalogPath string

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active rule catalog",
	Long: `Print every recognition rule the engine would apply: built-in rules
plus any YAML catalog given with --rules (same-name rules in the file
replace the built-ins).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := rules.LoadCatalog(rulesCatalogPath)
		if err != nil {
			return err
		}

		fmt.Printf("%-18s %-18s %-8s %-6s %s\n", "NAME", "CATEGORY", "MEASURE", "BASE", "PRICE KEY")
		for _, r := range catalog.Rules() {
			fmt.Printf("%-18s %-18s %-8s %-6.2f %s\n", r.Name, r.Category, r.Measure, r.BaseConfidence, r.UnitPriceKey)
		}
		fmt.Printf("\n%d rules\n", catalog.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringVar(&rulesCatalogPath, "rules", "", "YAML rule catalog (extends built-in rules)")
}
