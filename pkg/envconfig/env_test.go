package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan/pkg/logger"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("NUTRIPLAN_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnv("NUTRIPLAN_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("NUTRIPLAN_TEST_MISSING", "fallback"))

	t.Setenv("NUTRIPLAN_TEST_EMPTY", "")
	assert.Equal(t, "fallback", GetEnv("NUTRIPLAN_TEST_EMPTY", "fallback"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# comment line
DB_HOST=dbhost
DB_PORT = 5433
QUOTED="quoted value"
SINGLE='single'
EXISTING=from_file

not_a_pair
=no_key
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("EXISTING", "from_env")
	for _, key := range []string{"DB_HOST", "DB_PORT", "QUOTED", "SINGLE"} {
		os.Unsetenv(key)
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "dbhost", os.Getenv("DB_HOST"))
	assert.Equal(t, "5433", os.Getenv("DB_PORT"))
	assert.Equal(t, "quoted value", os.Getenv("QUOTED"))
	assert.Equal(t, "single", os.Getenv("SINGLE"))
	// Process environment wins over the file
	assert.Equal(t, "from_env", os.Getenv("EXISTING"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  logger.LogLevel
	}{
		{"debug", logger.LevelDebug},
		{"DEBUG", logger.LevelDebug},
		{"warn", logger.LevelWarn},
		{"error", logger.LevelError},
		{"info", logger.LevelInfo},
		{"bogus", logger.LevelInfo},
		{"", logger.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			assert.Equal(t, tt.want, GetLogLevel())
		})
	}
}
