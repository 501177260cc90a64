package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "student-records-service", cfg.Service.Name)
	assert.Equal(t, "local", cfg.Service.Runtime)
	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, "students", cfg.Table.Name)
	assert.Equal(t, "1s", cfg.Table.PollInterval)
	assert.Equal(t, 20, cfg.Table.MaxAttempts)
	assert.True(t, cfg.Logging.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: student-records-dev
  runtime: local
  port: 9090
aws:
  region: sa-east-1
table:
  name: students-dev
  poll_interval: 500ms
  max_attempts: 10
logging:
  enabled: true
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "student-records-dev", cfg.Service.Name)
	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, "sa-east-1", cfg.AWS.Region)
	assert.Equal(t, "students-dev", cfg.Table.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.Table.GetPollInterval())
	assert.Equal(t, 10, cfg.Table.MaxAttempts)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
table:
  name: students-from-file
`)
	t.Setenv("DYNAMODB_TABLE_NAME", "students-from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "students-from-env", cfg.Table.Name)
}

func TestLoad_ConfigFilePathEnvVar(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: from-env-path
`)
	t.Setenv("CONFIG_FILE_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env-path", cfg.Service.Name)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "service: [broken")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}

func TestGetPollInterval_FallsBackToOneSecond(t *testing.T) {
	assert.Equal(t, time.Second, TableConf{PollInterval: ""}.GetPollInterval())
	assert.Equal(t, time.Second, TableConf{PollInterval: "bogus"}.GetPollInterval())
	assert.Equal(t, 2*time.Second, TableConf{PollInterval: "2s"}.GetPollInterval())
}
