package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radin-system/sarvcrm-go/filter"
	"github.com/radin-system/sarvcrm-go/sarvcrm"
)

var (
	listQuery   string
	listOrderBy string
	listFields  []string
	listLimit   int
	listOffset  int
	listAll     bool
	listFilter  string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <module>",
	Short: "List records of a module",
	Long: `List records of the named module.

--query is passed to the remote service in its own filter dialect.
--filter is evaluated locally on the fetched records, e.g.:

  sarvctl list Accounts --filter 'contains(name, "acme")'
  sarvctl list Leads --all --filter 'parseDate(date_entered) < daysAgo(90)'`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "remote filter expression (remote dialect)")
	listCmd.Flags().StringVar(&listOrderBy, "order-by", "", "field to order results by")
	listCmd.Flags().StringSliceVar(&listFields, "fields", nil, "fields to fetch and print")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of records (remote default if 0)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of records to skip")
	listCmd.Flags().BoolVar(&listAll, "all", false, "fetch every matching record page by page")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "local filter expression applied after fetch")
}

func runList(cmd *cobra.Command, args []string) error {
	mod, err := moduleArg(args[0])
	if err != nil {
		return err
	}

	var localFilter *filter.Filter
	if listFilter != "" {
		localFilter, err = filter.Compile(listFilter)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	return client.WithSession(context.Background(), func(ctx context.Context) error {
		var records []sarvcrm.Record
		var err error

		if listAll {
			records, err = mod.ListAll(ctx, sarvcrm.ListAllOptions{
				Query:        listQuery,
				OrderBy:      listOrderBy,
				SelectFields: listFields,
			})
		} else {
			records, err = mod.List(ctx, sarvcrm.ListOptions{
				Query:        listQuery,
				OrderBy:      listOrderBy,
				SelectFields: listFields,
				Limit:        listLimit,
				Offset:       listOffset,
			})
		}
		if err != nil {
			return err
		}

		if localFilter != nil {
			records = localFilter.Apply(records)
		}

		printRecords(mod, records)
		return nil
	})
}

// printRecords renders records with the selected or configured fields.
func printRecords(mod *sarvcrm.Module, records []sarvcrm.Record) {
	if len(records) == 0 {
		fmt.Println("No records found.")
		return
	}

	fields := listFields
	if len(fields) == 0 {
		fields = cfg.Output.DefaultFields
	}

	fmt.Printf("\nFound %d %s records:\n", len(records), mod.Name())
	fmt.Println(strings.Repeat("-", 80))

	for _, record := range records {
		values := make([]string, 0, len(fields))
		for _, field := range fields {
			values = append(values, record.String(field))
		}
		fmt.Printf("• %s\n", strings.Join(values, " | "))

		if cfg.Output.ShowURLs {
			if url, err := mod.DetailURL(record.ID()); err == nil {
				fmt.Printf("  %s\n", url)
			}
		}
	}
}
