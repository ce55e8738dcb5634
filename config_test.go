package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestViper looks for config.yaml in dir only
func newTestViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	return v
}

// testConfig returns the default config writing into a fresh output dir without request pacing
func testConfig(t *testing.T) DashboardConfig {
	t.Helper()
	config, err := LoadConfig(newTestViper(t.TempDir()))
	require.NoError(t, err)
	config.OutputDir = t.TempDir()
	config.IntervalPerRequest = 0
	return config
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(newTestViper(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, "http", config.FetchMode)
	assert.Equal(t, "http://localhost:8000/api/v1", config.ApiBaseUrl)
	assert.Equal(t, "/network/hierarchical-citation", config.HierarchicalPath)
	assert.Equal(t, "/data/patents-by-year?year=%d", config.PatentsByYearPath)
	assert.Equal(t, "/scalability-solution", config.ScalabilityPath)
	assert.Equal(t, DefaultSampleLimits(), config.Limits())
	assert.Equal(t, 300, config.IntervalPerRequest)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := writeConfigFile(t, `
fetch_mode: file
dataset_dir: /srv/citeviz/mirror
max_communities: 7
max_community_labels: 3
output_dir: /tmp/dashboard
`)
	t.Setenv("CITEVIZ_MAX_NODES_PER_COMMUNITY", "9")

	config, err := LoadConfig(newTestViper(dir))
	require.NoError(t, err)

	assert.Equal(t, "file", config.FetchMode)
	assert.Equal(t, "/srv/citeviz/mirror", config.DatasetDir)
	assert.Equal(t, "/tmp/dashboard", config.OutputDir)
	assert.Equal(t, SampleLimits{MaxNodesPerCommunity: 9, MaxCommunityLabels: 3, MaxCommunities: 7}, config.Limits())
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"unknown fetch mode":     "fetch_mode: ftp\n",
		"file mode without dir":  "fetch_mode: file\n",
		"year placeholder":       "patents_by_year_path: /data/patents-by-year\n",
		"relative api path":      "timeline_path: timeline/papers-by-year\n",
		"tiny radial canvas":     "radial_width: 120\n",
		"negative request pause": "interval_per_request_ms: -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(newTestViper(writeConfigFile(t, content)))
			require.Error(t, err)

			var validationErrors validator.ValidationErrors
			assert.True(t, errors.As(err, &validationErrors), "expected validation error, got %v", err)
		})
	}
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	_, err := LoadConfig(newTestViper(writeConfigFile(t, "fetch_mode: [http\n")))
	require.Error(t, err)

	var notFound viper.ConfigFileNotFoundError
	assert.False(t, errors.As(err, &notFound))
}
