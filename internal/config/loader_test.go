// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoaderBootstrapFromExample(t *testing.T) {
	dir := t.TempDir()
	examplePath := filepath.Join(dir, "config.example.yml")
	configPath := filepath.Join(dir, "config.yml")
	writeFile(t, examplePath, "llm:\n  DeepSeek:\n    api_key: ${DEEPSEEK_API_KEY}\n")

	loader := NewLoader(configPath, "test").
		WithExample(examplePath).
		WithEnvironment(EnvironmentFromMap(map[string]string{"DEEPSEEK_API_KEY": "sk-abc123"}))

	cfg, err := loader.Load()
	require.NoError(t, err)

	// Config file was seeded from the example
	_, err = os.Stat(configPath)
	require.NoError(t, err)

	got, ok := cfg.Lookup("llm", "DeepSeek", "api_key")
	require.True(t, ok)
	assert.Equal(t, "sk-abc123", got)
}

func TestLoaderBootstrapDoesNotOverwriteExisting(t *testing.T) {
	dir := t.TempDir()
	examplePath := filepath.Join(dir, "config.example.yml")
	configPath := filepath.Join(dir, "config.yml")
	writeFile(t, examplePath, "source: example\n")
	writeFile(t, configPath, "source: existing\n")

	cfg, err := NewLoader(configPath, "test").
		WithExample(examplePath).
		WithEnvironment(EnvironmentFromMap(nil)).
		Load()
	require.NoError(t, err)

	got, _ := cfg.Lookup("source")
	assert.Equal(t, "existing", got)
}

func TestLoaderRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	writeFile(t, configPath, `{"a": 1}`)

	_, err := NewLoader(configPath, "test").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoaderRejectsMultipleDocuments(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	writeFile(t, configPath, "a: 1\n---\nb: 2\n")

	_, err := NewLoader(configPath, "test").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoaderEmptyFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	writeFile(t, configPath, "")

	cfg, err := NewLoader(configPath, "test").
		WithEnvironment(EnvironmentFromMap(nil)).
		Load()
	require.NoError(t, err)

	_, ok := cfg.Lookup("anything")
	assert.False(t, ok)
	assert.Empty(t, cfg.Unresolved())
}

func TestLoaderMissingFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	_, err := NewLoader(configPath, "test").Load()
	require.Error(t, err)
}

func TestLoaderUnresolvedVariables(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	writeFile(t, configPath, "llm:\n  DeepSeek:\n    api_key: ${DEEPSEEK_API_KEY}\n")

	cfg, err := NewLoader(configPath, "test").
		WithEnvironment(EnvironmentFromMap(nil)).
		Load()
	require.NoError(t, err)

	refs := cfg.Unresolved()
	require.Len(t, refs, 1)
	assert.Equal(t, "DEEPSEEK_API_KEY", refs[0].Name)
	assert.Equal(t, "llm.DeepSeek.api_key", refs[0].Path)
}

func TestConfigDecode(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	writeFile(t, configPath, `
llm:
  provider: DeepSeek
  DeepSeek:
    api_key: ${DEEPSEEK_API_KEY}
    model_name: deepseek-chat
`)

	cfg, err := NewLoader(configPath, "test").
		WithEnvironment(EnvironmentFromMap(map[string]string{"DEEPSEEK_API_KEY": "sk-abc123"})).
		Load()
	require.NoError(t, err)

	var out struct {
		LLM struct {
			Provider string `yaml:"provider"`
			DeepSeek struct {
				APIKey    string `yaml:"api_key"`
				ModelName string `yaml:"model_name"`
			} `yaml:"DeepSeek"`
		} `yaml:"llm"`
	}
	require.NoError(t, cfg.Decode(&out))

	assert.Equal(t, "DeepSeek", out.LLM.Provider)
	assert.Equal(t, "sk-abc123", out.LLM.DeepSeek.APIKey)
	assert.Equal(t, "deepseek-chat", out.LLM.DeepSeek.ModelName)
}

func TestConfigSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	savedPath := filepath.Join(dir, "saved.yml")
	writeFile(t, configPath, `
llm:
  provider: DeepSeek
  DeepSeek:
    api_key: ${DEEPSEEK_API_KEY}
audio:
  provider: Ali
`)

	cfg, err := NewLoader(configPath, "test").
		WithEnvironment(EnvironmentFromMap(map[string]string{"DEEPSEEK_API_KEY": "sk-abc123"})).
		Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Save(savedPath))

	reloaded, err := NewLoader(savedPath, "test").
		WithEnvironment(EnvironmentFromMap(nil)).
		Load()
	require.NoError(t, err)

	var want, got any
	require.NoError(t, cfg.Decode(&want))
	require.NoError(t, reloaded.Decode(&got))
	assert.Empty(t, cmp.Diff(want, got))
}

func TestConfigIsConfigured(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	writeFile(t, configPath, `
set_key: ${SET_KEY}
unset_key: ${UNSET_KEY}
empty_key: ""
plain: value
`)

	cfg, err := NewLoader(configPath, "test").
		WithEnvironment(EnvironmentFromMap(map[string]string{"SET_KEY": "sk-abc123"})).
		Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured("set_key"))
	assert.True(t, cfg.IsConfigured("plain"))
	assert.False(t, cfg.IsConfigured("unset_key"), "placeholder must read as not configured")
	assert.False(t, cfg.IsConfigured("empty_key"))
	assert.False(t, cfg.IsConfigured("missing"))
}

func TestConfigDocumentIsACopy(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	writeFile(t, configPath, "a: original\n")

	cfg, err := NewLoader(configPath, "test").
		WithEnvironment(EnvironmentFromMap(nil)).
		Load()
	require.NoError(t, err)

	doc := cfg.Document()
	require.NotNil(t, doc)
	doc.Content[0].Content[1].Value = "mutated"

	got, _ := cfg.Lookup("a")
	assert.Equal(t, "original", got)
}
