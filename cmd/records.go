package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radin-system/sarvcrm-go/sarvcrm"
)

var fieldFlags []string

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <module> <id>",
	Short: "Fetch one record by id",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <module> --field name=value ...",
	Short: "Create a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <module> <id> --field name=value ...",
	Short: "Update fields of an existing record",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpdate,
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <module> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)

	createCmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "field value as name=value (repeatable)")
	updateCmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "field value as name=value (repeatable)")
}

func runGet(cmd *cobra.Command, args []string) error {
	mod, err := moduleArg(args[0])
	if err != nil {
		return err
	}
	pk := args[1]

	return client.WithSession(context.Background(), func(ctx context.Context) error {
		record, err := mod.Read(ctx, pk)
		if errors.Is(err, sarvcrm.ErrNotFound) {
			return fmt.Errorf("no %s record with id %s", mod.Name(), pk)
		}
		if err != nil {
			return err
		}

		printRecord(record)

		if cfg.Output.ShowURLs {
			if url, err := mod.DetailURL(record.ID()); err == nil {
				fmt.Printf("\n%s\n", url)
			}
		}
		return nil
	})
}

func runCreate(cmd *cobra.Command, args []string) error {
	mod, err := moduleArg(args[0])
	if err != nil {
		return err
	}

	fields, err := parseFieldFlags(fieldFlags)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("at least one --field is required")
	}

	return client.WithSession(context.Background(), func(ctx context.Context) error {
		id, err := mod.Create(ctx, fields)
		if err != nil {
			return err
		}

		logger.Info().Str("module", mod.Name()).Str("id", id).Msg("Created record")
		fmt.Printf("Created %s record %s\n", mod.Name(), id)
		return nil
	})
}

func runUpdate(cmd *cobra.Command, args []string) error {
	mod, err := moduleArg(args[0])
	if err != nil {
		return err
	}
	pk := args[1]

	fields, err := parseFieldFlags(fieldFlags)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("at least one --field is required")
	}

	return client.WithSession(context.Background(), func(ctx context.Context) error {
		// The remote echo is the canonical id, not our input.
		id, err := mod.Update(ctx, pk, fields)
		if err != nil {
			return err
		}

		logger.Info().Str("module", mod.Name()).Str("id", id).Msg("Updated record")
		fmt.Printf("Updated %s record %s\n", mod.Name(), id)
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	mod, err := moduleArg(args[0])
	if err != nil {
		return err
	}
	pk := args[1]

	return client.WithSession(context.Background(), func(ctx context.Context) error {
		id, err := mod.Delete(ctx, pk)
		if err != nil {
			return err
		}

		if id == "" {
			fmt.Printf("%s record %s did not exist.\n", mod.Name(), pk)
			return nil
		}

		logger.Info().Str("module", mod.Name()).Str("id", id).Msg("Deleted record")
		fmt.Printf("Deleted %s record %s\n", mod.Name(), id)
		return nil
	})
}

// parseFieldFlags turns repeated name=value flags into a record.
func parseFieldFlags(flags []string) (sarvcrm.Record, error) {
	fields := make(sarvcrm.Record, len(flags))
	for _, flag := range flags {
		name, value, ok := strings.Cut(flag, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --field %q: expected name=value", flag)
		}
		fields[name] = value
	}
	return fields, nil
}

// printRecord renders every field of one record, sorted by field name.
func printRecord(record sarvcrm.Record) {
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%-30s %s\n", name, record.String(name))
	}
}
