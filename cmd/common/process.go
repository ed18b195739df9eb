// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/fileutils"
	"eerr/eerr-dashboard/internal/ledger"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/report"
	"eerr/eerr-dashboard/internal/sheetparser"
	"eerr/eerr-dashboard/internal/valueparser"
)

// RenderStatement renders data and writes it to output, or to w when output is
// empty.
func RenderStatement(g *report.Generator, data *models.EERRData, format report.Format, output string, w io.Writer) error {
	if output != "" {
		return g.WriteFile(data, format, output)
	}
	out, err := g.Generate(data, format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// WriteJSON writes v as indented JSON to output, or to w when output is empty.
func WriteJSON(v interface{}, output string, w io.Writer) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	out = append(out, '\n')
	if output == "" {
		_, err = w.Write(out)
		return err
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(output)); err != nil {
		return err
	}
	return os.WriteFile(output, out, models.PermissionReportFile)
}

// LoadWorkbook opens an xlsx file from disk.
func LoadWorkbook(path string) (*sheetparser.Workbook, error) {
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return sheetparser.LoadWorkbook(f, filepath.Base(path))
}

// ImportLedgerFile reads a Libro de Compras file with the reader matching its
// extension.
func ImportLedgerFile(c *container.Container, path string, opts ledger.Options) (*ledger.Result, error) {
	reader, err := c.GetLedgerReader(container.LedgerFormatOf(path), opts)
	if err != nil {
		return nil, err
	}
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.GetLogger().WithError(cerr).Warn("Failed to close file")
		}
	}()

	res, err := reader.Import(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	c.GetLogger().Info("Ledger read",
		logging.Field{Key: logging.FieldInputFile, Value: filepath.Base(path)},
		logging.Field{Key: logging.FieldCount, Value: len(res.Transactions)},
		logging.Field{Key: "skipped", Value: res.Skipped})
	return res, nil
}

// LoadManualValues reads a YAML file of manual amounts keyed by period and
// account:
//
//	2024-01:
//	  Arriendo: 350000
func LoadManualValues(path string) (models.ManualValues, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("error reading manual values: %w", err)
	}

	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing manual values %s: %w", path, err)
	}

	out := make(models.ManualValues, len(raw))
	for period, accounts := range raw {
		p, err := models.ParsePeriod(period)
		if err != nil {
			return nil, fmt.Errorf("manual values %s: %w", path, err)
		}
		for account, amount := range accounts {
			if strings.TrimSpace(account) == "" {
				continue
			}
			out.Set(p, account, valueparser.ParseString(amount))
		}
	}
	return out, nil
}

// OutputName builds "<stem>_<branch>.<ext>" for per-branch report files.
func OutputName(stem, branch string, format report.Format) string {
	slug := strings.ToLower(strings.Join(strings.Fields(branch), "_"))
	if slug == "" {
		return stem + "." + format.Extension()
	}
	return stem + "_" + slug + "." + format.Extension()
}

