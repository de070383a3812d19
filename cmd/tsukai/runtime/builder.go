package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harunnryd/tsukai/internal/config"
)

type Builder interface {
	WithContext(ctx context.Context) Builder
	WithConfig(cfg *config.Config) Builder
	WithWorkspace(workspaceID string) Builder
	Build() (*Components, error)
}

type DefaultBuilder struct {
	ctx         context.Context
	cfg         *config.Config
	workspaceID string
}

func NewBuilder() Builder {
	return &DefaultBuilder{}
}

func (b *DefaultBuilder) WithContext(ctx context.Context) Builder {
	b.ctx = ctx
	return b
}

func (b *DefaultBuilder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	return b
}

func (b *DefaultBuilder) WithWorkspace(workspaceID string) Builder {
	b.workspaceID = workspaceID
	return b
}

func (b *DefaultBuilder) Build() (*Components, error) {
	if b.ctx == nil {
		b.ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if b.workspaceID == "" {
		b.workspaceID = DefaultWorkspaceID
	}
	return NewComponents(b.ctx, b.cfg, b.workspaceID)
}

// ResolveWorkspaceID reads the workspace flag, falling back to default.
func ResolveWorkspaceID(cmd *cobra.Command) string {
	if cmd == nil {
		return DefaultWorkspaceID
	}
	workspaceID, _ := cmd.Flags().GetString("workspace")
	if strings.TrimSpace(workspaceID) == "" {
		return DefaultWorkspaceID
	}
	return workspaceID
}
