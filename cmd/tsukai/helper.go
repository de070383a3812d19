package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harunnryd/tsukai/cmd/tsukai/runtime"
)

func executeWithRuntime(cmd *cobra.Command, fn func(*runtime.Components) error) error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	handler := NewSignalHandler(ctx)
	handler.Start()
	defer handler.Stop()

	components, err := runtime.NewBuilder().
		WithContext(handler.Context()).
		WithConfig(cfg).
		WithWorkspace(runtime.ResolveWorkspaceID(cmd)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to initialize runtime: %w", err)
	}
	defer components.Stop()

	return fn(components)
}
