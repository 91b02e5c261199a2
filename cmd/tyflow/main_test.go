package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
)

func TestCLIParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte("declarations: []\n"), 0644))

	var cli CLI
	parser, err := kong.New(&cli, kong.Name("tyflow"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-v", "analyze", "-o", "out", "--format", "json", "-j", "3", path})
	require.NoError(t, err)
	require.Equal(t, "analyze <manifests>", ctx.Command())
	require.True(t, cli.Verbose)
	require.Equal(t, "json", cli.Analyze.Format)
	require.Equal(t, 3, cli.Analyze.Parallel)
	require.True(t, filepath.IsAbs(cli.Analyze.Out))

	_, err = parser.Parse([]string{"analyze", "--format", "yaml", path})
	require.Error(t, err)

	_, err = parser.Parse([]string{"check", filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	v := Version()
	require.True(t, strings.Contains(v, strings.TrimSpace(embeddedVersion)) || strings.HasPrefix(v, "v"), v)
}
