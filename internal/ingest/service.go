package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bankfeed-dev/bankfeed/internal/metrics"
	"github.com/bankfeed-dev/bankfeed/internal/store"
)

// Summary reports the outcome of one import run.
type Summary struct {
	RunID    string
	Rows     int
	Inserted int
	Matched  int
	Modified int
	Warnings []RowWarning
}

// Service runs the full import pipeline: parse, then persist with
// insert-if-absent dedupe.
type Service struct {
	parser  *Parser
	sink    *store.Sink
	log     zerolog.Logger
	metrics *metrics.Collector
}

// NewService creates an import Service. collector may be nil.
func NewService(parser *Parser, sink *store.Sink, log zerolog.Logger, collector *metrics.Collector) *Service {
	return &Service{parser: parser, sink: sink, log: log, metrics: collector}
}

// Import ingests one CSV export for a tenant/account and persists the
// candidates. Overlapping imports of the same data converge on the store's
// per-key uniqueness; repeating an import only raises Matched.
func (s *Service) Import(ctx context.Context, raw []byte, tenantID, accountID, currency string) (Summary, error) {
	runID := uuid.NewString()

	txns, warnings, err := s.parser.Parse(raw, tenantID, accountID, currency)
	if err != nil {
		return Summary{RunID: runID}, fmt.Errorf("parsing import: %w", err)
	}

	res, err := s.sink.Persist(ctx, txns)
	if err != nil {
		return Summary{RunID: runID, Rows: len(txns), Warnings: warnings},
			fmt.Errorf("persisting import: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RowsParsed.Add(float64(len(txns)))
		s.metrics.RowsDefaulted.Add(float64(len(warnings)))
		s.metrics.Inserted.Add(float64(res.Inserted))
		s.metrics.Matched.Add(float64(res.Matched))
	}

	s.log.Info().
		Str("run_id", runID).
		Str("tenant", tenantID).
		Str("account", accountID).
		Int("rows", len(txns)).
		Int("inserted", res.Inserted).
		Int("matched", res.Matched).
		Int("warnings", len(warnings)).
		Msg("import complete")

	return Summary{
		RunID:    runID,
		Rows:     len(txns),
		Inserted: res.Inserted,
		Matched:  res.Matched,
		Modified: res.Modified,
		Warnings: warnings,
	}, nil
}
