package main

import (
	"github.com/spf13/cobra"

	"github.com/harunnryd/tsukai/cmd/tsukai/runtime"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(r *runtime.Components) error {
			return runtime.NewREPL(r).Start()
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("workspace", "w", "", "Target workspace ID")
}
