// Package container provides dependency injection for the ledger-import
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/ledger-import/internal/categorizer"
	"fjacquet/ledger-import/internal/config"
	"fjacquet/ledger-import/internal/importer"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/mapping"
	"fjacquet/ledger-import/internal/merchant"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/report"
	"fjacquet/ledger-import/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation. All fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.Store
	files       *store.FileStore
	categorizer *categorizer.Categorizer
	service     *importer.Service
	reporter    *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies. The database
// is opened and migrated; Close releases it.
func NewContainer(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}

	files := store.NewFileStore(cfg.Categorization.MerchantPatternsFile, cfg.Categorization.RulesFile, logger)
	extractor, tables, err := loadRules(files)
	if err != nil {
		return nil, err
	}

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.StoreConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// A nil interface keeps the learned strategy out of the chain.
	var learned categorizer.LearnedStore
	if cfg.Categorization.LearningEnabled {
		learned = st
	}
	cat := categorizer.NewCategorizer(learned, logger,
		categorizer.WithExtractor(extractor),
		categorizer.WithRules(tables))

	mapper := mapping.NewMapper(cat, mapping.WithDateLayouts(cfg.Import.DateFormats...))
	service := importer.NewService(st, cat, logger,
		importer.WithMapper(mapper),
		importer.WithDelimiter(cfg.Delimiter()),
		importer.WithLearning(cfg.Categorization.LearningEnabled))

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldDriver, Value: st.Dialect()},
		logging.Field{Key: "merchant_rules", Value: len(extractor.Rules())},
		logging.Field{Key: "keyword_rules", Value: len(tables.Subcategories) + len(tables.Payorees)},
		logging.Field{Key: "learning_enabled", Value: cfg.Categorization.LearningEnabled})

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       st,
		files:       files,
		categorizer: cat,
		service:     service,
		reporter:    report.NewReportGenerator(format, logger),
	}, nil
}

// loadRules reads the merchant patterns and keyword tables. Configured
// merchant patterns are evaluated before the built-in table.
func loadRules(files *store.FileStore) (*merchant.Extractor, models.RuleTables, error) {
	merchantRules, err := files.LoadMerchantRules()
	if err != nil {
		return nil, models.RuleTables{}, err
	}
	tables, err := files.LoadRuleTables()
	if err != nil {
		return nil, models.RuleTables{}, err
	}
	if len(merchantRules) == 0 && len(tables.Merchants) == 0 {
		return merchant.Default(), tables, nil
	}

	rules := make([]models.MerchantRule, 0, len(merchantRules)+len(tables.Merchants)+len(merchant.DefaultRules))
	rules = append(rules, merchantRules...)
	rules = append(rules, tables.Merchants...)
	rules = append(rules, merchant.DefaultRules...)
	extractor, err := merchant.NewExtractor(rules)
	if err != nil {
		return nil, models.RuleTables{}, fmt.Errorf("invalid merchant patterns: %w", err)
	}
	return extractor, tables, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the container's database store.
func (c *Container) GetStore() *store.Store {
	return c.store
}

// GetFileStore returns the store for rule and profile files.
func (c *Container) GetFileStore() *store.FileStore {
	return c.files
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetImporter returns the import pipeline.
func (c *Container) GetImporter() *importer.Service {
	return c.service
}

// GetReporter returns the report generator for the configured format.
func (c *Container) GetReporter() *report.ReportGenerator {
	return c.reporter
}

// WithReportFormat returns a copy of the container rendering in format.
func (c *Container) WithReportFormat(format report.Format) *Container {
	clone := *c
	clone.reporter = report.NewReportGenerator(format, c.logger)
	return &clone
}

// Close releases the database.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
