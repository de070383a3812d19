package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunnryd/tsukai/internal/config"
)

func TestBuild_DefaultsToConsole(t *testing.T) {
	n := Build("", config.NotifyConfig{})
	assert.Equal(t, "console", n.Name())

	n = Build("console", config.NotifyConfig{})
	assert.Equal(t, "console", n.Name())
}

func TestBuild_UnknownFallsBackToConsole(t *testing.T) {
	n := Build("pager", config.NotifyConfig{})
	assert.Equal(t, "console", n.Name())
}

func TestBuild_UnconfiguredSlackFallsBack(t *testing.T) {
	n := Build("slack", config.NotifyConfig{})
	assert.Equal(t, "console", n.Name())
}

func TestBuild_ConfiguredSlack(t *testing.T) {
	n := Build("slack", config.NotifyConfig{
		Slack: config.SlackNotifyConfig{Token: "xoxb-test", Channel: "C123"},
	})
	assert.Equal(t, "slack", n.Name())
}

func TestBuild_UnconfiguredTelegramFallsBack(t *testing.T) {
	n := Build("telegram", config.NotifyConfig{})
	assert.Equal(t, "console", n.Name())
}

func TestNewSlack_RequiresTokenAndChannel(t *testing.T) {
	_, err := NewSlack("", "C123")
	require.Error(t, err)

	_, err = NewSlack("xoxb-test", "")
	require.Error(t, err)
}
