// Package importer drives the batch lifecycle: staging an upload, mapping
// and previewing its rows, committing them into the ledger with per-row
// isolation, and feeding ledger corrections back into the learned store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fjacquet/ledger-import/internal/categorizer"
	"fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/mapping"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/store"
)

var (
	// ErrInvalidTransition is returned when a batch is not in a status that
	// allows the requested step.
	ErrInvalidTransition = store.ErrInvalidTransition
	// ErrAccountRequired is returned by Commit without an account.
	ErrAccountRequired = errors.New("an account is required to commit")
	// ErrNothingToCorrect is returned when a correction names no target.
	ErrNothingToCorrect = errors.New("correction needs a subcategory or a payoree")
)

// Service is the import pipeline over one store.
type Service struct {
	store       *store.Store
	categorizer *categorizer.Categorizer
	mapper      *mapping.Mapper
	learning    bool
	delimiter   rune
	logger      logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMapper replaces the default mapper.
func WithMapper(m *mapping.Mapper) Option {
	return func(s *Service) {
		if m != nil {
			s.mapper = m
		}
	}
}

// WithDelimiter sets the CSV delimiter of uploads.
func WithDelimiter(r rune) Option {
	return func(s *Service) {
		if r != 0 {
			s.delimiter = r
		}
	}
}

// WithLearning toggles recording of corrections into the learned store.
func WithLearning(enabled bool) Option {
	return func(s *Service) {
		s.learning = enabled
	}
}

// NewService creates a Service. The categorizer provides suggestions at
// preview and commit time.
func NewService(st *store.Store, cat *categorizer.Categorizer, logger logging.Logger, opts ...Option) *Service {
	logger = logging.OrDefault(logger)
	if cat == nil {
		cat = categorizer.NewCategorizer(nil, logger)
	}
	s := &Service{
		store:       st,
		categorizer: cat,
		learning:    true,
		delimiter:   ',',
		logger:      logger,
	}
	s.mapper = mapping.NewMapper(cat)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetBatch loads a batch.
func (s *Service) GetBatch(ctx context.Context, batchID string) (*models.ImportBatch, error) {
	return s.store.GetBatch(ctx, batchID)
}

// ListBatches returns every batch, newest first.
func (s *Service) ListBatches(ctx context.Context) ([]models.ImportBatch, error) {
	return s.store.ListBatches(ctx)
}

// ListRows returns a batch's rows in index order.
func (s *Service) ListRows(ctx context.Context, batchID string) ([]models.ImportRow, error) {
	if _, err := s.store.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	return s.store.ListRows(ctx, batchID)
}

// DeleteBatch removes a batch and its rows. Ledger records it created stay.
func (s *Service) DeleteBatch(ctx context.Context, batchID string) error {
	return s.store.DeleteBatch(ctx, batchID)
}

// ImportProfiles saves profiles, replacing any with the same name, in one
// transaction.
func (s *Service) ImportProfiles(ctx context.Context, profiles []models.MappingProfile) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		for i := range profiles {
			if err := tx.UpsertProfile(ctx, &profiles[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListProfiles returns every profile ordered by name.
func (s *Service) ListProfiles(ctx context.Context) ([]models.MappingProfile, error) {
	return s.store.ListProfiles(ctx)
}

// DeleteProfile removes a profile; batches keep their rows.
func (s *Service) DeleteProfile(ctx context.Context, name string) error {
	return s.store.DeleteProfile(ctx, name)
}

// ExportTransactions writes ledger records matching filter as CSV.
func (s *Service) ExportTransactions(ctx context.Context, w io.Writer, filter models.TransactionFilter, delimiter rune) (int, error) {
	txs, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		return 0, err
	}
	if err := common.WriteTransactionsCSV(w, txs, delimiter); err != nil {
		return 0, fmt.Errorf("export transactions: %w", err)
	}
	s.logger.Info("Exported ledger records", logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return len(txs), nil
}
