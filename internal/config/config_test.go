package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chtemp runs the test from an empty directory so a config.yaml in the
// working tree cannot leak into Load.
func chtemp(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(orig))
	})
}

func TestLoad_Defaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://serpapi.com", cfg.SerpAPI.BaseURL)
	assert.Equal(t, 30, cfg.SerpAPI.TimeoutSecs)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 0.1, cfg.OpenAI.Temperature)
	assert.Equal(t, 3, cfg.OpenAI.MaxAttempts)
	assert.Equal(t, 5, cfg.Scout.ResultsPerQuery)
	assert.Equal(t, 2, cfg.Scout.PerProfileQueries)
	assert.Equal(t, 400, cfg.Scout.ThinProfileChars)
	assert.Equal(t, 5, cfg.Scout.MaxFetchedSources)
	assert.Equal(t, 8, cfg.Scout.MaxFetchAttempts)
	assert.Equal(t, 15, cfg.Fetch.TimeoutSecs)
	assert.NotEmpty(t, cfg.LinkedIn.UserAgent)
}

func TestLoad_SecretsFromEnv(t *testing.T) {
	chtemp(t)
	t.Setenv("FOUNDERSCOUT_SERPAPI_KEY", "serp-test-key")
	t.Setenv("FOUNDERSCOUT_OPENAI_KEY", "sk-openai-test")
	t.Setenv("FOUNDERSCOUT_LINKEDIN_SESSION_TOKEN", "li-at-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "serp-test-key", cfg.SerpAPI.Key)
	assert.Equal(t, "sk-openai-test", cfg.OpenAI.Key)
	assert.Equal(t, "li-at-test", cfg.LinkedIn.SessionToken)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	chtemp(t)
	t.Setenv("FOUNDERSCOUT_OPENAI_MODEL", "gpt-4o")
	t.Setenv("FOUNDERSCOUT_SCOUT_RESULTS_PER_QUERY", "9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 9, cfg.Scout.ResultsPerQuery)
}

func TestLoad_ConfigFile(t *testing.T) {
	chtemp(t)

	yaml := []byte("serpapi:\n  key: file-serp-key\nopenai:\n  key: file-openai-key\n  model: gpt-4o\n")
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-serp-key", cfg.SerpAPI.Key)
	assert.Equal(t, "file-openai-key", cfg.OpenAI.Key)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.Scout.ResultsPerQuery)
}

func TestValidate_RequiredKeys(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serpapi.key")
	assert.Contains(t, err.Error(), "FOUNDERSCOUT_SERPAPI_KEY")

	cfg.SerpAPI.Key = "x"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai.key")

	cfg.OpenAI.Key = "y"
	assert.NoError(t, cfg.Validate())
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level"}))
}
