package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harunnryd/tsukai/cmd/tsukai/runtime"
	"github.com/harunnryd/tsukai/internal/tool/formatter"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		return executeWithRuntime(cmd, func(r *runtime.Components) error {
			catalog := r.Runner.Catalog()

			switch output {
			case "yaml":
				data, err := yaml.Marshal(catalog)
				if err != nil {
					return err
				}
				fmt.Print(string(data))
			default:
				fmt.Println(formatter.NewTableFormatter().FormatCatalog(catalog))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().StringP("workspace", "w", "", "Target workspace ID")
	toolsCmd.Flags().StringP("output", "o", "table", "Output format (table, yaml)")
}
