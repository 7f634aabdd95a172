package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields <module>",
	Short: "Show the remote field schema of a module",
	Args:  cobra.ExactArgs(1),
	RunE:  runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	mod, err := moduleArg(args[0])
	if err != nil {
		return err
	}

	return client.WithSession(context.Background(), func(ctx context.Context) error {
		fields, err := mod.Fields(ctx)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Printf("%s (%s): %d fields\n\n", mod.Name(), mod.Label(), len(fields))
		for _, name := range names {
			def := fields[name]
			fmt.Printf("%-30s type=%-12v", name, def["type"])
			if required, ok := def["required"].(bool); ok && required {
				fmt.Print(" required")
			}
			fmt.Println()
		}
		return nil
	})
}
