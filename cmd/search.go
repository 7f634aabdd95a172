package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radin-system/sarvcrm-go/sarvcrm"
)

var searchModule string

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <number>",
	Short: "Search records by phone number",
	Long: `Search records by phone number.

With --module, only that module is searched and failures are reported.
Without it, every module with a phone-number field is searched; modules that
fail are skipped and the result covers the ones that succeeded.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchModule, "module", "m", "", "restrict the search to one module")
}

func runSearch(cmd *cobra.Command, args []string) error {
	number := args[0]

	var mod *sarvcrm.Module
	if searchModule != "" {
		var err error
		mod, err = moduleArg(searchModule)
		if err != nil {
			return err
		}
	}

	return client.WithSession(context.Background(), func(ctx context.Context) error {
		records, err := client.SearchByNumber(ctx, number, mod)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Printf("No records matched %s.\n", number)
			return nil
		}

		fmt.Printf("Found %d records matching %s:\n", len(records), number)
		for _, record := range records {
			fmt.Printf("• %s %s\n", record.ID(), record.String("name"))
		}
		return nil
	})
}
