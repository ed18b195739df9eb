// Package report renders income statements as JSON, CSV, XLSX, Markdown and
// HTML documents.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"eerr/eerr-dashboard/internal/common"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/valueparser"
)

const defaultPlaces = 2

// Generator renders EERRData documents.
type Generator struct {
	logger    logging.Logger
	delimiter rune
	places    int32
}

// Option configures a Generator.
type Option func(*Generator)

// WithDelimiter sets the CSV field delimiter.
func WithDelimiter(d rune) Option {
	return func(g *Generator) {
		if d != 0 {
			g.delimiter = d
		}
	}
}

// WithDecimalPlaces sets how many decimals text formats print.
func WithDecimalPlaces(places int32) Option {
	return func(g *Generator) {
		if places >= 0 {
			g.places = places
		}
	}
}

// NewGenerator creates a generator.
func NewGenerator(logger logging.Logger, opts ...Option) *Generator {
	g := &Generator{
		logger:    logging.OrDefault(logger).WithField("component", "ReportGenerator"),
		delimiter: common.DefaultDelimiter,
		places:    defaultPlaces,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders data in format.
func (g *Generator) Generate(data *models.EERRData, format Format) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("cannot render nil report")
	}

	var (
		out []byte
		err error
	)
	switch format {
	case FormatJSON:
		out, err = g.generateJSON(data)
	case FormatCSV:
		out, err = g.generateCSV(data)
	case FormatXLSX:
		out, err = g.generateXLSX(data)
	case FormatMarkdown:
		out = []byte(g.markdown(data))
	case FormatHTML:
		out, err = g.generateHTML(data)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		g.logger.WithError(err).Error("Failed to generate report",
			logging.Field{Key: logging.FieldFormat, Value: string(format)})
		return nil, err
	}

	g.logger.Debug("Report generated",
		logging.Field{Key: logging.FieldFormat, Value: string(format)},
		logging.Field{Key: "bytes", Value: len(out)})
	return out, nil
}

// WriteFile renders data and writes it to path.
func (g *Generator) WriteFile(data *models.EERRData, format Format, path string) error {
	if format == FormatCSV {
		if data == nil {
			return fmt.Errorf("cannot render nil report")
		}
		return common.WriteCSVFile(path, CSVRows(data), g.delimiter, g.logger)
	}
	out, err := g.Generate(data, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, out, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	g.logger.Info("Report written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldFormat, Value: string(format)})
	return nil
}

func (g *Generator) generateJSON(data *models.EERRData) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

// CSVRow is one cell of the statement in long form.
type CSVRow struct {
	Category string `csv:"categoria"`
	Item     string `csv:"item"`
	Month    string `csv:"mes"`
	Metric   string `csv:"metrica"`
	Value    string `csv:"valor"`
	Total    bool   `csv:"total"`
}

// CSVRows flattens data into one record per (row, column) that has a value.
func CSVRows(data *models.EERRData) []CSVRow {
	cols := data.Columns()
	out := make([]CSVRow, 0)
	for _, c := range data.Categories {
		emit := func(r models.Row, total bool) {
			for _, k := range cols {
				v, ok := r.Lookup(k)
				if !ok {
					continue
				}
				out = append(out, CSVRow{
					Category: c.Name,
					Item:     r.Item,
					Month:    k.Month,
					Metric:   k.Metric.String(),
					Value:    v.String(),
					Total:    total,
				})
			}
		}
		for _, r := range c.Rows {
			emit(r, models.IsTotalItem(r.Item))
		}
		if c.Total != nil {
			emit(*c.Total, true)
		}
	}
	return out
}

func (g *Generator) generateCSV(data *models.EERRData) ([]byte, error) {
	var buf bytes.Buffer
	if err := common.WriteCSV(&buf, CSVRows(data), g.delimiter); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func title(data *models.EERRData) string {
	if strings.TrimSpace(data.SheetName) == "" {
		return models.DefaultReportTitle
	}
	return data.SheetName
}

// markdown renders data as one GitHub-style table, category names as bold
// separator rows and totals in bold.
func (g *Generator) markdown(data *models.EERRData) string {
	cols := data.Columns()
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeCell(title(data)))

	b.WriteString("| " + models.ItemHeaderLabel)
	for _, k := range cols {
		b.WriteString(" | " + escapeCell(k.Label()))
	}
	b.WriteString(" |\n|---")
	for range cols {
		b.WriteString("|---:")
	}
	b.WriteString("|\n")

	line := func(item string, r *models.Row, bold bool) {
		wrap := func(s string) string {
			if bold && s != "" {
				return "**" + s + "**"
			}
			return s
		}
		b.WriteString("| " + wrap(escapeCell(item)))
		for _, k := range cols {
			cell := ""
			if r != nil {
				if v, ok := r.Lookup(k); ok {
					cell = valueparser.Format(v, g.places)
				}
			}
			b.WriteString(" | " + wrap(cell))
		}
		b.WriteString(" |\n")
	}

	for _, c := range data.Categories {
		line(c.Name, nil, true)
		for i := range c.Rows {
			line(c.Rows[i].Item, &c.Rows[i], models.IsTotalItem(c.Rows[i].Item))
		}
		if c.Total != nil {
			line(c.Total.Item, c.Total, true)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func (g *Generator) generateHTML(data *models.EERRData) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(g.markdown(data)), &body); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", html.EscapeString(title(data)))
	doc.WriteString("<style>table{border-collapse:collapse}td,th{border:1px solid #999;padding:2px 6px}</style>\n")
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}
