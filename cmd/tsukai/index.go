package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harunnryd/tsukai/cmd/tsukai/runtime"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Index a directory of documents for search_documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(r *runtime.Components) error {
			if r.Documents == nil {
				return fmt.Errorf("document index is not configured (set tools.documents.path)")
			}

			chunks, err := r.Documents.IngestDir(r.Ctx, args[0])
			if err != nil {
				return fmt.Errorf("index %s: %w", args[0], err)
			}
			fmt.Printf("Indexed %d chunks from %s\n", chunks, args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringP("workspace", "w", "", "Target workspace ID")
}
