// =============================================================================
// Ledger Analyzer - Session
// =============================================================================
//
// A Session owns the tables accepted so far and the ledgers built from them.
// It is the only stateful part of the system.
//
// UPLOAD PIPELINE (per table):
//   1. Parse the CSV or XLSX bytes into a raw table
//   2. Check the header against the configured schema
//   3. Check every cell against its column type (problems are logged)
//   4. Decode the table the way Merge will, so bad dates, amounts,
//      duplicate category codes and duplicate headcount months are
//      rejected now rather than later
//   5. Replace the accepted table of that kind
//
// A rejected upload changes nothing: the previously accepted table, if any,
// stays in place.
//
// MERGE:
//   Merge normalizes the accepted data table of one ledger against its
//   accepted category table and publishes the result. Published ledgers
//   are immutable and may be shared freely.
//
// CONCURRENCY:
//   A Session is not safe for concurrent use. Parse files in parallel if
//   needed, then hand the tables to Accept from one goroutine.
//
// =============================================================================

package session

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/ledger-analyzer/internal/config"
	"github.com/ginjaninja78/ledger-analyzer/internal/csvparser"
	"github.com/ginjaninja78/ledger-analyzer/internal/headcount"
	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
	"github.com/ginjaninja78/ledger-analyzer/internal/validation"
	"github.com/ginjaninja78/ledger-analyzer/internal/xlsxparser"
)

// =============================================================================
// RECEIPT STRUCTURE
// =============================================================================

// Receipt describes an accepted upload.
type Receipt struct {
	// ID identifies the upload in logs.
	ID uuid.UUID

	// Kind is the table kind the upload was accepted as.
	Kind types.Kind

	// Source is the file name or other description given by the caller.
	Source string

	// Rows is the number of data rows.
	Rows int

	// Warnings is the number of cells that did not match their column type
	// but were still accepted.
	Warnings int

	// AcceptedAt is when the table replaced the previous one.
	AcceptedAt time.Time

	// Elapsed is the time taken to parse and check the upload.
	Elapsed time.Duration
}

// =============================================================================
// SESSION STRUCTURE
// =============================================================================

// Session holds the accepted tables and published ledgers of one user.
type Session struct {
	// ID identifies the session in logs.
	ID uuid.UUID

	cfg *config.MainConfig
	log zerolog.Logger
	now func() time.Time

	tables     map[types.Kind]*types.Table
	receipts   map[types.Kind]Receipt
	taxonomies map[types.LedgerKind]*ledger.Taxonomy
	ledgers    map[types.LedgerKind]*ledger.Ledger
	headcount  *headcount.Table
}

// New creates an empty session. A nil cfg means the default configuration.
func New(cfg *config.MainConfig, log zerolog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	id := uuid.New()
	return &Session{
		ID:         id,
		cfg:        cfg,
		log:        log.With().Str("session_id", id.String()).Logger(),
		now:        time.Now,
		tables:     make(map[types.Kind]*types.Table),
		receipts:   make(map[types.Kind]Receipt),
		taxonomies: make(map[types.LedgerKind]*ledger.Taxonomy),
		ledgers:    make(map[types.LedgerKind]*ledger.Ledger),
	}
}

// Config returns the configuration the session was created with.
func (s *Session) Config() *config.MainConfig {
	return s.cfg
}

// =============================================================================
// UPLOAD
// =============================================================================

// Upload parses r as a table of the given kind and accepts it.
//
// PARAMETERS:
//   - kind: The table kind the caller declares
//   - r: The raw file content
//   - format: FormatCSV or FormatXLSX
//   - source: A description used in messages, usually the file name
//
// RETURNS:
//   - The receipt of the accepted upload
//   - An error if the table could not be parsed or was rejected. The
//     session is unchanged in that case.
func (s *Session) Upload(kind types.Kind, r io.Reader, format types.Format, source string) (Receipt, error) {
	start := s.now()

	// =========================================================================
	// STEP 1: PARSE
	// =========================================================================

	table, err := Parse(r, format, s.cfg.CSV, source)
	if err != nil {
		s.reject(kind, source, err)
		return Receipt{}, err
	}

	receipt, err := s.accept(kind, table)
	if err != nil {
		return Receipt{}, err
	}
	receipt.Elapsed = s.now().Sub(start)
	s.receipts[kind] = receipt
	return receipt, nil
}

// Parse reads a raw table in the given format.
func Parse(r io.Reader, format types.Format, csv config.CSVSettings, source string) (*types.Table, error) {
	switch format {
	case types.FormatCSV:
		t, err := csvparser.Parse(r, csv, source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV %s: %w", source, err)
		}
		return t, nil
	case types.FormatXLSX:
		t, err := xlsxparser.Parse(r, source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse XLSX %s: %w", source, err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// Accept checks an already parsed table and, if it passes, replaces the
// accepted table of that kind.
func (s *Session) Accept(kind types.Kind, table *types.Table) (Receipt, error) {
	receipt, err := s.accept(kind, table)
	if err != nil {
		return Receipt{}, err
	}
	s.receipts[kind] = receipt
	return receipt, nil
}

func (s *Session) accept(kind types.Kind, table *types.Table) (Receipt, error) {
	columns := s.cfg.Schema(kind)
	if columns == nil {
		err := fmt.Errorf("unknown table kind %q", kind)
		s.reject(kind, table.Source, err)
		return Receipt{}, err
	}

	// =========================================================================
	// STEP 2: HEADER
	// =========================================================================

	v := validation.NewValidator(kind, columns, s.cfg.DateFormats)
	if err := v.CheckHeader(table); err != nil {
		s.reject(kind, table.Source, err)
		return Receipt{}, err
	}

	// =========================================================================
	// STEP 3: CELLS
	// =========================================================================

	result := v.ValidateCells(table)
	for _, ve := range result.Errors {
		s.log.Debug().Str("kind", string(kind)).Msg(ve.Error())
	}

	// =========================================================================
	// STEP 4: DECODE
	// =========================================================================

	switch kind {
	case types.KindHeadcount:
		hc, err := headcount.Decode(table, columns, s.cfg.DateFormats)
		if err != nil {
			s.reject(kind, table.Source, err)
			return Receipt{}, err
		}
		s.headcount = hc

	case types.KindIncomeCategory, types.KindExpenseCategory:
		lk, _ := types.LedgerKindOf(kind)
		tax, err := ledger.BuildTaxonomy(table, columns)
		if err != nil {
			s.reject(kind, table.Source, err)
			return Receipt{}, err
		}
		s.taxonomies[lk] = tax

	case types.KindIncomeData, types.KindExpenseData:
		lk, _ := types.LedgerKindOf(kind)
		if _, err := ledger.Normalize(lk, table, columns, s.taxonomies[lk], s.options()); err != nil {
			s.reject(kind, table.Source, err)
			return Receipt{}, err
		}
	}

	// =========================================================================
	// STEP 5: REPLACE
	// =========================================================================

	s.tables[kind] = table
	receipt := Receipt{
		ID:         uuid.New(),
		Kind:       kind,
		Source:     table.Source,
		Rows:       table.Len(),
		Warnings:   len(result.Errors),
		AcceptedAt: s.now(),
	}

	s.log.Info().
		Str("kind", string(kind)).
		Str("upload_id", receipt.ID.String()).
		Str("source", receipt.Source).
		Int("rows", receipt.Rows).
		Int("warnings", receipt.Warnings).
		Msg("upload accepted")

	return receipt, nil
}

func (s *Session) reject(kind types.Kind, source string, err error) {
	s.log.Warn().
		Err(err).
		Str("kind", string(kind)).
		Str("source", source).
		Msg("upload rejected")
}

func (s *Session) options() ledger.Options {
	return ledger.Options{
		Sentinel:                 s.cfg.Sentinel,
		UnclassifiedMainCategory: s.cfg.UnclassifiedMainCategory,
		DateLayouts:              s.cfg.DateFormats,
	}
}

// =============================================================================
// MERGE
// =============================================================================

// Merge normalizes the accepted data and category tables of one ledger and
// publishes the result, replacing the previously published ledger.
//
// RETURNS:
//   - The new ledger
//   - An error if either table has not been accepted yet, or if
//     normalization fails. The published ledger is unchanged then.
func (s *Session) Merge(lk types.LedgerKind) (*ledger.Ledger, error) {
	data, ok := s.tables[lk.DataKind()]
	if !ok {
		return nil, fmt.Errorf("cannot merge %s ledger: no %s table accepted", lk, lk.DataKind())
	}
	tax, ok := s.taxonomies[lk]
	if !ok {
		return nil, fmt.Errorf("cannot merge %s ledger: no %s table accepted", lk, lk.CategoryKind())
	}

	start := s.now()
	l, err := ledger.Normalize(lk, data, s.cfg.Schema(lk.DataKind()), tax, s.options())
	if err != nil {
		s.log.Error().Err(err).Str("ledger", string(lk)).Msg("merge failed")
		return nil, fmt.Errorf("failed to normalize %s ledger: %w", lk, err)
	}
	s.ledgers[lk] = l

	s.log.Info().
		Str("ledger", string(lk)).
		Int("rows", l.Len()).
		Int("categories", tax.Len()).
		Dur("elapsed", s.now().Sub(start)).
		Msg("ledger published")

	return l, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Ledger returns the published ledger of a kind, or nil.
func (s *Session) Ledger(lk types.LedgerKind) *ledger.Ledger {
	return s.ledgers[lk]
}

// Income returns the published income ledger, or nil.
func (s *Session) Income() *ledger.Ledger {
	return s.Ledger(types.Income)
}

// Expense returns the published expense ledger, or nil.
func (s *Session) Expense() *ledger.Ledger {
	return s.Ledger(types.Expense)
}

// Headcount returns the accepted headcount table, or nil.
func (s *Session) Headcount() *headcount.Table {
	return s.headcount
}

// Taxonomy returns the accepted taxonomy of a ledger, or nil.
func (s *Session) Taxonomy(lk types.LedgerKind) *ledger.Taxonomy {
	return s.taxonomies[lk]
}

// Table returns the accepted raw table of a kind, or nil.
func (s *Session) Table(kind types.Kind) *types.Table {
	return s.tables[kind]
}

// Receipts returns the receipts of the accepted tables in kind order.
func (s *Session) Receipts() []Receipt {
	var out []Receipt
	for _, k := range types.Kinds() {
		if r, ok := s.receipts[k]; ok {
			out = append(out, r)
		}
	}
	return out
}
