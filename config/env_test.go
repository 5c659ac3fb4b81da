package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("TOP_N", "")
	t.Setenv("MODEL_PATH", "")
	s := LoadSettings(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, core.DefaultTopN, s.TopN)
	assert.Equal(t, "artifacts/model.txt", s.ModelPath)
	assert.Equal(t, ":8080", s.ListenAddr)
}

func TestLoadSettings_FromEnvFile(t *testing.T) {
	t.Setenv("TOP_N", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("MODEL_PATH", "")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TOP_N=5\nREDIS_DB=3\nMODEL_PATH=http://scorer:9000/predict\n"), 0o644))
	// godotenv 不覆盖已存在的变量，先清空
	require.NoError(t, os.Unsetenv("TOP_N"))
	require.NoError(t, os.Unsetenv("REDIS_DB"))
	require.NoError(t, os.Unsetenv("MODEL_PATH"))

	s := LoadSettings(path)
	assert.Equal(t, 5, s.TopN)
	assert.Equal(t, 3, s.RedisDB)
	assert.Equal(t, "http://scorer:9000/predict", s.ModelPath)
}

func TestLoadSettings_InvalidInt(t *testing.T) {
	t.Setenv("TOP_N", "ten")
	s := LoadSettings(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, core.DefaultTopN, s.TopN)
}
