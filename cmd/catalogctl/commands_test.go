package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"migrate", "seed", "legacy-images", "images-to-s3", "export"} {
		assert.Contains(t, names, want)
	}
}

func TestCommandFlags(t *testing.T) {
	out := exportCmd.Flags().Lookup("out")
	require.NotNil(t, out)
	assert.Equal(t, "products.xlsx", out.DefValue)
	assert.Equal(t, "o", out.Shorthand)

	path := legacyImagesCmd.Flags().Lookup("path")
	require.NotNil(t, path)
	assert.Empty(t, path.DefValue)

	async := imagesToS3Cmd.Flags().Lookup("async")
	require.NotNil(t, async)
	assert.Equal(t, "false", async.DefValue)
}
