package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *Logger {
	return NewLogger(LoggerConfig{Level: LogLevelError, Output: &bytes.Buffer{}})
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("elf-header", pflag.ContinueOnError)
	fs.StringP("format", "f", "text", "")
	fs.String("log-level", "warn", "")
	fs.String("log-format", "text", "")
	fs.Bool("legacy-data-fallback", false, "")
	fs.Bool("verbose", false, "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elf-header.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("", nil, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, LogLevelWarn, config.Log.Level)
	assert.Equal(t, LogFormatText, config.Log.Format)
	assert.Equal(t, "text", config.Output.Format)
	assert.False(t, config.Compat.LegacyDataFallback)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
output:
  format: JSON
compat:
  legacy_data_fallback: true
`)

	config, err := LoadConfig(path, nil, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, LogLevelDebug, config.Log.Level)
	assert.Equal(t, LogFormatJSON, config.Log.Format)
	assert.Equal(t, "json", config.Output.Format)
	assert.True(t, config.Compat.LegacyDataFallback)
}

func TestLoadConfig_MissingFileWarns(t *testing.T) {
	var logs bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &logs})

	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil, logger)
	require.NoError(t, err)
	assert.Equal(t, "text", config.Output.Format)
	assert.Contains(t, logs.String(), "Config file not found")
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("ELF_HEADER_LOG_LEVEL", "error")
	t.Setenv("ELF_HEADER_OUTPUT_FORMAT", "json")
	t.Setenv("ELF_HEADER_COMPAT_LEGACY_DATA_FALLBACK", "true")

	config, err := LoadConfig("", nil, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, LogLevelError, config.Log.Level)
	assert.Equal(t, "json", config.Output.Format)
	assert.True(t, config.Compat.LegacyDataFallback)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, "output:\n  format: json\nlog:\n  level: info\n")
	t.Setenv("ELF_HEADER_LOG_LEVEL", "error")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--format", "text", "--legacy-data-fallback"}))

	config, err := LoadConfig(path, fs, quietLogger())
	require.NoError(t, err)

	// Changed flags override the file
	assert.Equal(t, "text", config.Output.Format)
	assert.True(t, config.Compat.LegacyDataFallback)
	// Unchanged flags leave the environment in charge
	assert.Equal(t, LogLevelError, config.Log.Level)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad log level", "log:\n  level: loud\n", "invalid log level: loud"},
		{"bad log format", "log:\n  format: xml\n", "invalid log format: xml"},
		{"bad output format", "output:\n  format: yaml\n", "invalid output format: yaml"},
		{"malformed yaml", "log: [unterminated\n", "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), nil, quietLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBindFlags_IgnoresUnknownFlags(t *testing.T) {
	manager := NewConfigManager()
	manager.SetLogger(quietLogger())

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--verbose"}))
	require.NoError(t, manager.BindFlags(fs))
	require.NoError(t, manager.LoadConfig(""))

	assert.Equal(t, LogLevelWarn, manager.GetConfig().Log.Level)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadConfig_SearchSkipsExtensionlessFile(t *testing.T) {
	dir := t.TempDir()
	binary := append([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1}, make([]byte, 57)...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "elf-header"), binary, 0755))
	chdir(t, dir)

	config, err := LoadConfig("", nil, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "text", config.Output.Format)
}

func TestLoadConfig_SearchFindsYAMLInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "elf-header"), []byte{0x7f, 'E', 'L', 'F', 0x01}, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "elf-header.yaml"), []byte("output:\n  format: json\n"), 0644))
	chdir(t, dir)

	config, err := LoadConfig("", nil, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "json", config.Output.Format)
}
