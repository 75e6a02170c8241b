package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port    int           `koanf:"port"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("port is not configured")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	const yamlContent = "server:\n  port: 8080\n  timeout: 5s\nlog:\n  level: info\n"

	testCases := []struct {
		name        string
		envFile     string
		env         map[string]string
		wantPort    int
		wantLevel   string
		wantTimeout time.Duration
	}{
		{
			name:        "yaml only",
			wantPort:    8080,
			wantLevel:   "info",
			wantTimeout: 5 * time.Second,
		},
		{
			name:        "dotenv overrides yaml",
			envFile:     "LOADERTEST_LOG_LEVEL=debug\n",
			wantPort:    8080,
			wantLevel:   "debug",
			wantTimeout: 5 * time.Second,
		},
		{
			name:        "environment overrides dotenv",
			envFile:     "LOADERTEST_LOG_LEVEL=debug\n",
			env:         map[string]string{"LOADERTEST_LOG_LEVEL": "error", "LOADERTEST_SERVER_PORT": "9090"},
			wantPort:    9090,
			wantLevel:   "error",
			wantTimeout: 5 * time.Second,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			dir := t.TempDir()
			cfgPath := writeFile(t, dir, "config.yaml", yamlContent)
			envPath := filepath.Join(dir, ".env")
			if tc.envFile != "" {
				writeFile(t, dir, ".env", tc.envFile)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			// when
			cfg, err := Load[*testConfig]("loadertest", WithConfigFile(cfgPath), WithEnvFile(envPath))

			// then
			require.NoError(t, err)
			assert.Equal(t, tc.wantPort, cfg.Server.Port)
			assert.Equal(t, tc.wantLevel, cfg.Log.Level)
			assert.Equal(t, tc.wantTimeout, cfg.Server.Timeout)
		})
	}
}

func TestLoad_ValidationFails(t *testing.T) {
	// given
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "log:\n  level: info\n")

	// when
	_, err := Load[*testConfig]("loadertest", WithConfigFile(cfgPath), WithEnvFile(filepath.Join(dir, ".env")))

	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
