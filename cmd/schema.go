package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resource-checker/internal/source"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema fields extracted for every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runEngine(cmd.Context(), source.New(), targetTables())
		if err != nil {
			return err
		}

		table := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.Faint)
		fmt.Printf("\n🔎 Schema read from %s:\n", result.SchemaSource)
		for i, r := range result.Records {
			if r.SchemaFields.IsEmpty() {
				continue
			}
			fmt.Printf("[%02d] %s", i+1, table.Sprint(r.Table))
			if r.ModelClass != "" {
				fmt.Printf(" %s", dim.Sprint("("+r.ModelClass+")"))
			}
			fmt.Println()
			for name, field := range r.SchemaFields.All() {
				nullable := ""
				if field.Nullable {
					nullable = dim.Sprint(" nullable")
				}
				fmt.Printf("    └ %-30s %s%s\n", name, field.Type, nullable)
			}
		}
		for _, w := range result.Warnings {
			fmt.Println(color.YellowString("Warning: %s", w))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to print (comma-separated)")
}
