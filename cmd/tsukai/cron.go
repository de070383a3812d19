package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harunnryd/tsukai/cmd/tsukai/runtime"
	"github.com/harunnryd/tsukai/internal/scheduler"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Run scheduled prompts until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(r *runtime.Components) error {
			if len(r.Cfg.Scheduler.Entries) == 0 {
				return fmt.Errorf("no scheduled prompts configured")
			}

			sched, err := scheduler.New(r.Orchestrator, r.Cfg.Scheduler, r.Cfg.Notify)
			if err != nil {
				return err
			}

			sched.Start()
			<-r.Ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return sched.Stop(shutdownCtx)
		})
	},
}

func init() {
	rootCmd.AddCommand(cronCmd)
	cronCmd.Flags().StringP("workspace", "w", "", "Target workspace ID")
}
