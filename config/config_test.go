package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/sobel"
	"github.com/dudk/sobel/config"
	"github.com/dudk/sobel/mock"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sobel.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	var tests = []struct {
		description string
		content     string
		env         map[string]string
		expected    config.Config
		fails       bool
	}{
		{
			description: "defaults",
			expected:    config.Default(),
		},
		{
			description: "file",
			content:     "workers: 4\nconverter_workers: 2\nstall_timeout: 250ms\ndebug: true\n",
			expected: config.Config{
				Workers:          4,
				ConverterWorkers: 2,
				StallTimeout:     250 * time.Millisecond,
				Debug:            true,
			},
		},
		{
			description: "environment overrides file",
			content:     "workers: 4\n",
			env:         map[string]string{"SOBEL_WORKERS": "8", "SOBEL_STALL_TIMEOUT": "2s"},
			expected: config.Config{
				Workers:      8,
				StallTimeout: 2 * time.Second,
			},
		},
		{
			description: "unknown field",
			content:     "threads: 4\n",
			fails:       true,
		},
		{
			description: "too many workers",
			content:     "workers: 17\n",
			fails:       true,
		},
		{
			description: "bad environment",
			env:         map[string]string{"SOBEL_WORKERS": "many"},
			fails:       true,
		},
	}
	for _, c := range tests {
		t.Run(c.description, func(t *testing.T) {
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			path := ""
			if c.content != "" {
				path = writeConfig(t, c.content)
			}
			cfg, err := config.Load(path)
			if c.fails {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expected, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := config.Default()
	assert.NoError(t, valid.Validate())

	invalid := []config.Config{
		{Workers: 0},
		{Workers: sobel.MaxWorkers + 1},
		{Workers: 1, ConverterWorkers: -1},
		{Workers: 1, StallTimeout: -time.Second},
	}
	for _, c := range invalid {
		assert.Error(t, c.Validate(), "%+v", c)
	}
	assert.ErrorIs(t, invalid[0].Validate(), sobel.ErrWorkers)
}

func TestOptions(t *testing.T) {
	cfg := config.Config{Workers: 3, ConverterWorkers: 2, StallTimeout: time.Second, Debug: true}
	p, err := sobel.New(&mock.Source{}, &mock.Sink{}, cfg.Options()...)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Workers())
}
