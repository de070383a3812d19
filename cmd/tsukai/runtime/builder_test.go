package runtime

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_RequiresConfig(t *testing.T) {
	_, err := NewBuilder().Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}

func TestResolveWorkspaceID(t *testing.T) {
	assert.Equal(t, DefaultWorkspaceID, ResolveWorkspaceID(nil))

	cmd := &cobra.Command{}
	cmd.Flags().String("workspace", "", "")
	assert.Equal(t, DefaultWorkspaceID, ResolveWorkspaceID(cmd))

	require.NoError(t, cmd.Flags().Set("workspace", "team-a"))
	assert.Equal(t, "team-a", ResolveWorkspaceID(cmd))
}
