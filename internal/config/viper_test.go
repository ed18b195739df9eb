package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "release", config.Server.Mode)
	assert.Equal(t, 20, config.Server.MaxUploadMB)
	assert.Equal(t, "eerr.db", config.Database.Path)
	assert.Equal(t, "", config.Classification.RulesFile)
	assert.Equal(t, models.HeadingOperacion, config.Classification.DefaultHeading)
	assert.Equal(t, int32(2), config.Report.PercentPlaces)
	assert.Equal(t, "ANUAL", config.Report.AnnualLabel)
	assert.Equal(t, "CONSOLIDADO", config.Report.ConsolidatedLabel)
	assert.Equal(t, []string{"labranza", "sevilla", "consolidado"}, config.Sheets.Sections)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, ',', config.CSVDelimiter())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	testEnvVars := map[string]string{
		"EERR_LOG_LEVEL":                 "debug",
		"EERR_LOG_FORMAT":                "json",
		"EERR_SERVER_PORT":               "9090",
		"EERR_SERVER_MODE":               "debug",
		"EERR_DATABASE_PATH":             "/tmp/eerr-test.db",
		"EERR_CLASSIFICATION_RULES_FILE": "rules.yaml",
		"EERR_CSV_DELIMITER":             ";",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "debug", config.Server.Mode)
	assert.Equal(t, "/tmp/eerr-test.db", config.Database.Path)
	assert.Equal(t, "rules.yaml", config.Classification.RulesFile)
	assert.Equal(t, ';', config.CSVDelimiter())
}

func TestInitializeConfigFrom_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	configFile := filepath.Join(t.TempDir(), "eerr.yaml")
	configContent := `
log:
  level: "warn"
  format: "json"
server:
  port: 3000
database:
  path: "data/eerr.db"
classification:
  default_heading: "OTROS GASTOS"
sheets:
  sections: ["temuco", "consolidado"]
csv:
  delimiter: "|"
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0600))

	config, err := InitializeConfigFrom(configFile)
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "data/eerr.db", config.Database.Path)
	assert.Equal(t, models.HeadingOtrosGastos, config.Classification.DefaultHeading)
	assert.Equal(t, []string{"temuco", "consolidado"}, config.Sheets.Sections)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 20, config.Server.MaxUploadMB)
}

func TestInitializeConfig_EnvOverridesFile(t *testing.T) {
	clearTestEnvVars(t)

	configFile := filepath.Join(t.TempDir(), "eerr.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: warn\n"), 0600))
	t.Setenv("EERR_LOG_LEVEL", "error")

	config, err := InitializeConfigFrom(configFile)
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)
}

func TestInitializeConfigFrom_MissingExplicitFile(t *testing.T) {
	clearTestEnvVars(t)

	_, err := InitializeConfigFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Log.Level = "info"
		c.Log.Format = "text"
		c.Server.Port = 8080
		c.Server.Mode = "release"
		c.Server.MaxUploadMB = 10
		c.Database.Path = "eerr.db"
		c.Classification.DefaultHeading = models.HeadingOperacion
		c.Report.PercentPlaces = 2
		c.CSV.Delimiter = ","
		return c
	}

	require.NoError(t, validateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, "invalid server mode"},
		{"bad upload size", func(c *Config) { c.Server.MaxUploadMB = 0 }, "max_upload_mb"},
		{"empty database", func(c *Config) { c.Database.Path = " " }, "database.path"},
		{"empty default heading", func(c *Config) { c.Classification.DefaultHeading = "" }, "default_heading"},
		{"bad places", func(c *Config) { c.Report.PercentPlaces = 11 }, "percent_places"},
		{"bad delimiter", func(c *Config) { c.CSV.Delimiter = ";;" }, "CSV delimiter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := validateConfig(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	c := &Config{}
	c.Log.Level = "debug"
	c.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.DebugLevel, logger.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	c.Log.Level = "nonsense"
	c.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.InfoLevel, logger.Level)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EERR_DOTENV_PROBE=loaded\n"), 0600))

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Chdir(originalDir))
	}()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Unsetenv("EERR_DOTENV_PROBE") })

	LoadEnv(logging.NewMockLogger())
	assert.Equal(t, "loaded", GetEnv("EERR_DOTENV_PROBE", "missing"))
	assert.Equal(t, "fallback", GetEnv("EERR_NOT_SET_ANYWHERE", "fallback"))
}

// Helper function to clear test environment variables
func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"EERR_LOG_LEVEL",
		"EERR_LOG_FORMAT",
		"EERR_SERVER_PORT",
		"EERR_SERVER_MODE",
		"EERR_SERVER_MAX_UPLOAD_MB",
		"EERR_DATABASE_PATH",
		"EERR_CLASSIFICATION_RULES_FILE",
		"EERR_CLASSIFICATION_DEFAULT_HEADING",
		"EERR_REPORT_PERCENT_PLACES",
		"EERR_CSV_DELIMITER",
	}

	for _, envVar := range envVars {
		if err := os.Unsetenv(envVar); err != nil {
			fmt.Printf("Warning: failed to unset environment variable %s: %v\n", envVar, err)
		}
	}
}
