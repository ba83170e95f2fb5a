// =============================================================================
// Ledger Analyzer - Workspace Loading
// =============================================================================
//
// The analysis commands share one loading pipeline:
//   1. Read and parse the configured input files concurrently
//   2. Hand the parsed tables to a session one by one, in kind order
//   3. Merge the ledgers whose data and category tables are both present
//
// Only parsing runs concurrently. Every session call happens on the calling
// goroutine.
//
// =============================================================================

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/ledger-analyzer/internal/config"
	"github.com/ginjaninja78/ledger-analyzer/internal/csvparser"
	"github.com/ginjaninja78/ledger-analyzer/internal/headcount"
	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/logger"
	"github.com/ginjaninja78/ledger-analyzer/internal/session"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
	"github.com/ginjaninja78/ledger-analyzer/internal/validation"
	"github.com/ginjaninja78/ledger-analyzer/pkg/utils"
)

// parsedInput is one input file after parsing.
type parsedInput struct {
	kind  types.Kind
	table *types.Table
}

// loadWorkspace builds a session from the configured inputs of the given
// kinds. Kinds without a configured path are skipped; a configured path
// that does not exist is an error.
func loadWorkspace(ctx context.Context, cfg *config.MainConfig, kinds ...types.Kind) (*session.Session, error) {
	// =========================================================================
	// STEP 1: PARSE FILES CONCURRENTLY
	// =========================================================================

	lg := logger.FromContext(ctx)
	parsed := make([]*parsedInput, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		path := cfg.Inputs.Path(kind)
		if path == "" {
			lg.Debug().Str("kind", string(kind)).Msg("no input configured")
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := parseInput(path, cfg.CSV)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			parsed[i] = &parsedInput{kind: kind, table: t}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: ACCEPT TABLES
	// =========================================================================
	// Category tables go before data tables so that data uploads are checked
	// against the taxonomy they will be merged with.

	s := session.New(cfg, lg)
	for _, order := range [][]types.Kind{categoryKinds, dataKinds} {
		for _, p := range parsed {
			if p == nil || !containsKind(order, p.kind) {
				continue
			}
			if _, err := s.Accept(p.kind, p.table); err != nil {
				return nil, fmt.Errorf("%s rejected: %w", p.table.Source, err)
			}
		}
	}

	// =========================================================================
	// STEP 3: MERGE LEDGERS
	// =========================================================================

	for _, lk := range []types.LedgerKind{types.Income, types.Expense} {
		if s.Table(lk.DataKind()) == nil || s.Taxonomy(lk) == nil {
			continue
		}
		if _, err := s.Merge(lk); err != nil {
			return nil, err
		}
	}

	return s, nil
}

var (
	categoryKinds = []types.Kind{types.KindIncomeCategory, types.KindExpenseCategory}
	dataKinds     = []types.Kind{types.KindIncomeData, types.KindExpenseData, types.KindHeadcount}
)

func containsKind(kinds []types.Kind, k types.Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

// parseInput reads one input file into a raw table.
func parseInput(path string, csv config.CSVSettings) (*types.Table, error) {
	in, err := utils.ReadInput(path)
	if err != nil {
		return nil, err
	}
	return session.Parse(bytes.NewReader(in.Data), in.Format, csv, filepath.Base(path))
}

// ledgerKinds returns the table kinds one ledger needs.
func ledgerKinds(lk types.LedgerKind) []types.Kind {
	return []types.Kind{lk.CategoryKind(), lk.DataKind()}
}

// requireLedger returns the published ledger of a kind or explains what is
// missing.
func requireLedger(s *session.Session, lk types.LedgerKind) (*ledger.Ledger, error) {
	if l := s.Ledger(lk); l != nil {
		return l, nil
	}
	return nil, fmt.Errorf("no %s ledger: set inputs.%s and inputs.%s in %s", lk, lk.DataKind(), lk.CategoryKind(), cfgFile)
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// describeError adds a hint to the structural errors users can fix in their
// files.
func describeError(err error) string {
	var (
		mismatch *validation.SchemaMismatchError
		date     *ledger.DateParseError
		amount   *ledger.AmountParseError
		dupCode  *ledger.DuplicateCategoryCodeError
		dupMonth *headcount.DuplicatePeriodError
		width    *csvparser.RowWidthError
	)
	switch {
	case errors.As(err, &mismatch):
		return err.Error() + "\nhint: the header row must match the upload template exactly"
	case errors.As(err, &date), errors.As(err, &amount):
		return err.Error() + "\nhint: fix the cell and upload the whole file again"
	case errors.As(err, &dupCode):
		return err.Error() + "\nhint: every category code may appear only once"
	case errors.As(err, &dupMonth):
		return err.Error() + "\nhint: keep one headcount row per month"
	case errors.As(err, &width):
		return err.Error() + "\nhint: check the CSV delimiter setting"
	}
	return err.Error()
}
