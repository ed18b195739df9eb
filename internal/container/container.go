// Package container provides dependency injection for the eerr application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"sync"

	"eerr/eerr-dashboard/internal/aggregator"
	"eerr/eerr-dashboard/internal/batch"
	"eerr/eerr-dashboard/internal/classifier"
	"eerr/eerr-dashboard/internal/config"
	"eerr/eerr-dashboard/internal/fileutils"
	"eerr/eerr-dashboard/internal/ledger"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/report"
	"eerr/eerr-dashboard/internal/repository"
	"eerr/eerr-dashboard/internal/sheetparser"
	"eerr/eerr-dashboard/internal/statement"
	"eerr/eerr-dashboard/internal/store"
	"eerr/eerr-dashboard/internal/textnorm"
)

// LedgerFormat selects a Libro de Compras reader.
type LedgerFormat string

const (
	LedgerXLSX LedgerFormat = "xlsx"
	LedgerCSV  LedgerFormat = "csv"
)

// LedgerFormatOf picks the format from a file name; anything but .csv is
// read as a workbook.
func LedgerFormatOf(filename string) LedgerFormat {
	if fileutils.IsCSV(filename) {
		return LedgerCSV
	}
	return LedgerXLSX
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation except for the repository, which is
// opened on first use so that commands without storage never touch the
// database file.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	classifier  *classifier.Classifier
	aggregator  *aggregator.Aggregator
	sheetParser *sheetparser.Parser
	generator   *report.Generator
	batch       *batch.BatchAggregator

	repoOnce sync.Once
	repo     *repository.Repository
	repoErr  error
}

// Option customises a Container.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRepository injects an already opened repository.
func WithRepository(repo *repository.Repository) Option {
	return func(c *Container) {
		if repo != nil {
			c.repoOnce.Do(func() { c.repo = repo })
		}
	}
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{
		config: cfg,
		logger: logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format),
	}
	for _, opt := range opts {
		opt(c)
	}
	logger := c.logger

	c.store = store.NewRuleStore(cfg.Classification.RulesFile, logger)
	c.classifier = classifier.NewFromSource(c.store, logger,
		classifier.WithDefaultHeading(cfg.Classification.DefaultHeading))
	c.aggregator = aggregator.NewAggregator(c.classifier, logger,
		aggregator.WithAnnualLabel(cfg.Report.AnnualLabel),
		aggregator.WithPercentPlaces(cfg.Report.PercentPlaces))
	c.sheetParser = sheetparser.NewParser(logger, cfg.Sheets.Sections)
	c.generator = report.NewGenerator(logger,
		report.WithDelimiter(cfg.CSVDelimiter()),
		report.WithDecimalPlaces(cfg.Report.PercentPlaces))
	c.batch = batch.NewBatchAggregator(logger, branchNames(cfg.Sheets.Sections))

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldStrategy, Value: c.classifier.StrategyNames()},
		logging.Field{Key: "default_heading", Value: c.classifier.DefaultHeading()})
	return c, nil
}

// branchNames drops the consolidated section, which is not a branch.
func branchNames(sections []string) []string {
	var out []string
	for _, s := range sections {
		if s != "" && !textnorm.Equal(s, models.ColumnConsolidado) {
			out = append(out, s)
		}
	}
	return out
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetStore returns the rule store.
func (c *Container) GetStore() *store.RuleStore { return c.store }

// GetClassifier returns the account classifier.
func (c *Container) GetClassifier() *classifier.Classifier { return c.classifier }

// GetAggregator returns the statement aggregator.
func (c *Container) GetAggregator() *aggregator.Aggregator { return c.aggregator }

// GetSheetParser returns the workbook parser.
func (c *Container) GetSheetParser() *sheetparser.Parser { return c.sheetParser }

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator { return c.generator }

// GetBatchAggregator returns the directory import helper.
func (c *Container) GetBatchAggregator() *batch.BatchAggregator { return c.batch }

// GetLedgerReader returns a reader for format applying opts.
func (c *Container) GetLedgerReader(format LedgerFormat, opts ledger.Options) (ledger.Importer, error) {
	switch format {
	case LedgerXLSX:
		return ledger.NewWorkbookReader(c.logger, opts), nil
	case LedgerCSV:
		return ledger.NewCSVReader(c.logger, c.config.CSVDelimiter(), opts), nil
	default:
		return nil, fmt.Errorf("unknown ledger format: %s", format)
	}
}

// GetRepository opens the database on first call.
func (c *Container) GetRepository() (*repository.Repository, error) {
	c.repoOnce.Do(func() {
		c.repo, c.repoErr = repository.Open(c.config.Database.Path, c.logger)
	})
	return c.repo, c.repoErr
}

// GetStatementService returns a statement service over the repository.
func (c *Container) GetStatementService() (*statement.Service, error) {
	repo, err := c.GetRepository()
	if err != nil {
		return nil, err
	}
	return statement.NewService(repo, c.aggregator, c.logger,
		statement.WithConsolidatedLabel(c.config.Report.ConsolidatedLabel)), nil
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	var err error
	if c.repo != nil {
		err = c.repo.Close()
	}
	c.logger.Info("Container closed")
	return err
}
