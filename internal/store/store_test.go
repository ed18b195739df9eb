package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "rules.yaml")
	writeFile(t, testFile, "rules: []")

	s := NewRuleStore("", nil)

	file, err := s.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = s.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestLoadRules_FullLayout(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "classification.yaml")
	writeFile(t, file, `default_heading: OTROS GASTOS
rules:
  - heading: GASTOS DE REMUNERACION
    keywords: ["sueldo", "bono"]
  - heading: INGRESOS OPERACIONALES
    keywords: ["venta"]
accounts:
  Caja chica: GASTOS DE OPERACION
`)

	cfg, err := NewRuleStore(file, logging.NewMockLogger()).LoadRules()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, models.HeadingOtrosGastos, cfg.DefaultHeading)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, models.HeadingRemuneraciones, cfg.Rules[0].Heading)
	assert.Equal(t, []string{"sueldo", "bono"}, cfg.Rules[0].Keywords)
	assert.Equal(t, models.HeadingOperacion, cfg.Accounts["Caja chica"])
}

func TestLoadRules_BareList(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rules.yaml")
	writeFile(t, file, `- heading: OTROS GASTOS
  keywords: ["arriendo"]
`)

	cfg, err := NewRuleStore(file, nil).LoadRules()
	require.NoError(t, err)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, models.HeadingOtrosGastos, cfg.Rules[0].Heading)
}

func TestLoadRules_MissingFile(t *testing.T) {
	cfg, err := NewRuleStore(filepath.Join(t.TempDir(), "missing.yaml"), nil).LoadRules()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadRules_Malformed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.yaml")
	writeFile(t, file, "rules: [::")

	_, err := NewRuleStore(file, nil).LoadRules()
	assert.Error(t, err)
}

func TestSaveRulesAndMapping(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "classification.yaml")
	s := NewRuleStore(file, nil)

	require.NoError(t, s.SaveRules(&models.RulesConfig{
		Rules: []models.HeadingRule{{Heading: models.HeadingOtrosGastos, Keywords: []string{"arriendo"}}},
	}))
	require.NoError(t, s.SaveAccountMapping("Bodega", models.HeadingOperacion))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var back models.RulesConfig
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Len(t, back.Rules, 1)
	assert.Equal(t, models.HeadingOperacion, back.Accounts["Bodega"])

	assert.Error(t, s.SaveRules(nil))
}
