package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var queryCmd = &cobra.Command{
	Use:   "query <report.json> <path>",
	Short: "Extract a value from a saved JSON report",
	Long: `Query reads a JSON report produced by 'run --format json' and prints the
value at the given gjson path.`,
	Example: `  dimtally query result.json total
  dimtally query result.json aggregate.batches`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading report: %w", err)
		}
		if !gjson.ValidBytes(data) {
			return fmt.Errorf("%s is not valid JSON", args[0])
		}
		result := gjson.GetBytes(data, args[1])
		if !result.Exists() {
			return fmt.Errorf("path not found: %s", args[1])
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.String())
		return nil
	},
}
