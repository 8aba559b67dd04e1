package postgres

import (
	"context"
	"fmt"

	"milltrack/internal/core/sequence"
)

// seriesLocation names the table and column holding the numbers of one
// series.
type seriesLocation struct {
	table  string
	column string
}

// seriesLocations maps class names to their storage location. The three
// paper series share one table; the series prefix keeps them apart.
var seriesLocations = map[string]seriesLocation{
	sequence.Measurements.Name:   {"measurements", "number"},
	sequence.ShutterPapers.Name:  {"production_papers", "number"},
	sequence.FramePapers.Name:    {"production_papers", "number"},
	sequence.OtherPapers.Name:    {"production_papers", "number"},
	sequence.Dispatches.Name:     {"dispatches", "number"},
	sequence.GatePasses.Name:     {"gate_passes", "number"},
	sequence.QualityChecks.Name:  {"quality_checks", "number"},
	sequence.ReworkOrders.Name:   {"rework_orders", "number"},
	sequence.QCCertificates.Name: {"qc_certificates", "number"},
}

// Compile-time check that SequenceRepo implements sequence.MaxSource.
var _ sequence.MaxSource = (*SequenceRepo)(nil)

// SequenceRepo reads the current maximum of a numbering series from the
// table that stores the series. Soft-deleted rows are intentionally
// included: their numbers stay occupied.
type SequenceRepo struct {
	txm *TxManager
}

// NewSequenceRepo creates a new sequence repository.
func NewSequenceRepo(txm *TxManager) *SequenceRepo {
	return &SequenceRepo{txm: txm}
}

// CurrentMax returns the largest numeric part among existing numbers of
// the class, or 0 when the series is empty. The class pattern both
// filters rows and extracts the numeric part, so numbers of other series
// sharing the column never contribute.
func (r *SequenceRepo) CurrentMax(ctx context.Context, class sequence.Class) (int64, error) {
	loc, ok := seriesLocations[class.Name]
	if !ok {
		return 0, &sequence.ConfigurationError{
			Reason: fmt.Sprintf("unknown series %q", class.Name),
		}
	}

	query := fmt.Sprintf(
		"SELECT COALESCE(MAX((substring(%s FROM $1))::bigint), 0) FROM %s WHERE %s ~ $1",
		loc.column, loc.table, loc.column,
	)

	var max int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, query, class.Pattern()).Scan(&max); err != nil {
		return 0, &sequence.StorageError{Op: "current max of " + class.Name, Err: err}
	}

	return max, nil
}
