package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"meal-planner/internal/model"
	"meal-planner/internal/shopping"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every recipe and meal plan as an export document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.data.Export(cmd.Context())
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode export: %w", err)
			}
			data = append(data, '\n')

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d recipes and %d meal plans to %s\n",
				len(doc.Recipes), len(doc.MealPlans), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace stored data with the contents of an export document",
		Long: `Replace stored data with the contents of an export document.

Only the collections present in the document are replaced. Use "-" to read
from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := a.data.Import(cmd.Context(), raw)
			if err != nil {
				return err
			}

			printImportResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}

func printImportResult(w io.Writer, result *model.ImportResult) {
	if !result.RecipesImported && !result.MealPlansImported {
		fmt.Fprintln(w, "nothing to import")
		return
	}
	if result.RecipesImported {
		fmt.Fprintf(w, "imported %d recipes\n", result.RecipeCount)
	}
	if result.MealPlansImported {
		fmt.Fprintf(w, "imported %d meal plans\n", result.MealPlanCount)
	}
}

func newShoppingListCmd(a *app) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "shopping-list",
		Short: "Print the shopping list for a seven-day window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := shopping.WeekStart(a.now())
			if start != "" {
				parsed, err := time.Parse(model.DateLayout, start)
				if err != nil {
					return model.ErrInvalidDate
				}
				from = parsed
			}

			list, err := a.shopping.Generate(cmd.Context(), from)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Shopping list %s to %s\n", list.StartDate, list.EndDate)
			if len(list.Items) == 0 {
				fmt.Fprintln(w, "  (no ingredients planned)")
				return nil
			}
			for _, item := range list.Items {
				fmt.Fprintf(w, "  - %s: %s\n", item.Name, item.Amount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "first day of the window, YYYY-MM-DD (default: this week's Sunday)")
	return cmd
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [name]",
		Short: "Store an export document in the backup archive",
		Long: `Store an export document in the backup archive.

The name defaults to meal-planner-export-<date>.json. Names ending in .gz are
stored gzip-compressed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}

			written, err := a.data.Backup(cmd.Context(), name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "backup written to %s\n", written)
			return nil
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name>",
		Short: "Import an export document from the backup archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.data.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printImportResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			if err := a.store.Ping(ctx); err != nil {
				return fmt.Errorf("store %s is unreachable: %w", a.store.Name(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "store %s ok\n", a.store.Name())
			return nil
		},
	}
}
