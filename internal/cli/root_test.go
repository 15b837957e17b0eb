package cli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{
		"strips", "export", "layout", "normalize", "inspect",
		"designs", "cache", "serve", "completion",
	}

	have := make(map[string]bool)
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "missing subcommand %s", name)
	}
}

func TestRootCommandUse(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	assert.Equal(t, "kumiko", root.Use)
	assert.True(t, root.SilenceUsage)
}

func TestArtifactPath(t *testing.T) {
	assert.Equal(t, "panel.svg", artifactPath("", "panel.json", "main", false))
	assert.Equal(t, "out.svg", artifactPath("out.svg", "panel.json", "main", false))
	assert.Equal(t, "panel_side-a.svg", artifactPath("", "panel.json", "side a", true))
	assert.Equal(t, "out_main.svg", artifactPath("out.svg", "panel.json", "main", true))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "side-a", sanitizeName("side a"))
	assert.Equal(t, "main_board-2", sanitizeName("main_board-2"))
}

func TestValidateInspectFormat(t *testing.T) {
	require.NoError(t, validateInspectFormat("svg"))
	require.NoError(t, validateInspectFormat("png"))
	require.NoError(t, validateInspectFormat("dot"))
	assert.Error(t, validateInspectFormat("pdf"))
}
