package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harunnryd/tsukai/cmd/tsukai/runtime"
	"github.com/harunnryd/tsukai/internal/logger"
	"github.com/harunnryd/tsukai/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		showSteps, _ := cmd.Flags().GetBool("steps")

		return executeWithRuntime(cmd, func(r *runtime.Components) error {
			sessionID := session.NewSessionID()
			ctx := logger.WithSessionID(r.Ctx, sessionID)

			result, err := r.Orchestrator.Run(ctx, question)
			if err != nil {
				return err
			}

			for _, entry := range session.EntriesFromConversation(result.Conversation) {
				if err := r.Sessions.Append(sessionID, entry); err != nil {
					return fmt.Errorf("record transcript: %w", err)
				}
			}

			if showSteps {
				for i, step := range result.Steps {
					status := "ok"
					if step.IsError {
						status = "error"
					}
					fmt.Printf("step %d: %s(%s) [%s]\n", i+1, step.Invocation.Name, step.Invocation.Arguments, status)
				}
			}

			fmt.Println(result.Answer)
			if result.Incomplete() {
				cmd.SilenceUsage = true
				return fmt.Errorf("incomplete after %d model calls", result.ModelCalls)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringP("workspace", "w", "", "Target workspace ID")
	askCmd.Flags().Bool("steps", false, "Print each tool invocation")
}
