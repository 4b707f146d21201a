package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func setupContext(t *testing.T, level string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", level, "")
	return cli.NewContext(&cli.App{}, set, nil)
}

func TestSetupLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		assert.NoError(t, setup(setupContext(t, level)), level)
	}

	assert.Error(t, setup(setupContext(t, "verbose")))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "./regent-db", cfg.DBPath)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db_path: /var/lib/regent
ai:
  embedding_model: embeddinggemma
  chat_model: gemma3:4b
web:
  serpapi_key: file-key
search:
  doc_threshold: 0.5
  max_documents: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/regent", cfg.DBPath)
	assert.Equal(t, "embeddinggemma", cfg.AI.EmbeddingModel)
	assert.Equal(t, "file-key", cfg.Web.SerpAPIKey)

	searchCfg, changed := searchConfigFrom(cfg)
	assert.True(t, changed)
	assert.InDelta(t, 0.5, searchCfg.DocThreshold, 1e-6)
	assert.Equal(t, 10, searchCfg.MaxDocuments)
	// Unset fields keep their defaults
	assert.Equal(t, 5, searchCfg.MaxChunks)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSearchConfigFromUnchanged(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	_, changed := searchConfigFrom(cfg)
	assert.False(t, changed)
}
