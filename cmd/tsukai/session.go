package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harunnryd/tsukai/cmd/tsukai/runtime"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage session transcripts",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions in the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(r *runtime.Components) error {
			sessions := r.Sessions.List()
			if len(sessions) == 0 {
				fmt.Println("No sessions found")
				return nil
			}
			for _, meta := range sessions {
				fmt.Printf("%s  %s  %s\n", meta.ID, meta.UpdatedAt.Format(time.RFC3339), meta.Title)
			}
			return nil
		})
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return executeWithRuntime(cmd, func(r *runtime.Components) error {
			entries, err := r.Sessions.Read(args[0], limit)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				label := string(entry.Role)
				if entry.ToolName != "" {
					label = fmt.Sprintf("%s:%s", entry.Role, entry.ToolName)
				}
				fmt.Printf("[%s] %s: %s\n", entry.Timestamp.Format(time.RFC3339), label, entry.Content)
			}
			return nil
		})
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset [session-id]",
	Short: "Delete a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(r *runtime.Components) error {
			if err := r.Sessions.Reset(args[0]); err != nil {
				return err
			}
			fmt.Printf("Session %s reset\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionShowCmd, sessionResetCmd)
	sessionCmd.PersistentFlags().StringP("workspace", "w", "", "Target workspace ID")
	sessionShowCmd.Flags().Int("limit", 0, "Only show the most recent N entries")
}
