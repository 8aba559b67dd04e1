package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/domain/production"
)

// Compile-time checks.
var (
	_ production.Repository         = (*PaperRepo)(nil)
	_ production.ScheduleRepository = (*ScheduleRepo)(nil)
)

// PaperRepo persists production papers.
type PaperRepo struct {
	*BaseRepo[*production.Paper]
}

// NewPaperRepo creates a new paper repository.
func NewPaperRepo(txm *TxManager) *PaperRepo {
	return &PaperRepo{
		BaseRepo: NewBaseRepo(
			txm,
			"production_papers",
			ExtractDBColumns[production.Paper](),
			[]string{"number", "product_category"},
			func() *production.Paper { return &production.Paper{} },
		),
	}
}

// Create inserts a paper, mapping number collisions to
// *sequence.DuplicateError.
func (r *PaperRepo) Create(ctx context.Context, p *production.Paper) error {
	if err := r.BaseRepo.Create(ctx, p); err != nil {
		if IsUniqueViolation(err) {
			return &sequence.DuplicateError{Number: p.Number}
		}
		return err
	}
	return nil
}

// PendingForScheduling returns approved papers with no schedule yet,
// oldest first.
func (r *PaperRepo) PendingForScheduling(ctx context.Context) ([]*production.Paper, error) {
	q := r.Builder().
		Select(prefixColumns("p", ExtractDBColumns[production.Paper]())...).
		From("production_papers p").
		LeftJoin("production_schedules s ON s.paper_id = p.id").
		Where(squirrel.Eq{"p.status": production.StatusApproved}).
		Where(squirrel.Eq{"p.deletion_mark": false}).
		Where("s.id IS NULL").
		OrderBy("p.created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var papers []*production.Paper
	if err := pgxscan.Select(ctx, r.Querier(ctx), &papers, sql, args...); err != nil {
		return nil, fmt.Errorf("pending for scheduling: %w", err)
	}
	return papers, nil
}

// CountByStatus returns paper counts per status for the dashboard.
func (r *PaperRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	q := r.Builder().
		Select("status", "COUNT(*)").
		From("production_papers").
		Where(squirrel.Eq{"deletion_mark": false}).
		GroupBy("status")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}

// prefixColumns qualifies column names with a table alias for joins.
func prefixColumns(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = alias + "." + col
	}
	return out
}

// ScheduleRepo persists production schedules.
type ScheduleRepo struct {
	*BaseRepo[*production.Schedule]
}

// NewScheduleRepo creates a new schedule repository.
func NewScheduleRepo(txm *TxManager) *ScheduleRepo {
	return &ScheduleRepo{
		BaseRepo: NewBaseRepo(
			txm,
			"production_schedules",
			ExtractDBColumns[production.Schedule](),
			nil,
			func() *production.Schedule { return &production.Schedule{} },
		),
	}
}

// ListByDepartment returns a department's schedules within a date range.
func (r *ScheduleRepo) ListByDepartment(ctx context.Context, department string, from, to time.Time) ([]*production.Schedule, error) {
	q := r.Builder().
		Select(ExtractDBColumns[production.Schedule]()...).
		From("production_schedules").
		Where(squirrel.Eq{"department": department, "deletion_mark": false}).
		Where(squirrel.GtOrEq{"scheduled_date": from}).
		Where(squirrel.LtOrEq{"scheduled_date": to}).
		OrderBy("scheduled_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var schedules []*production.Schedule
	if err := pgxscan.Select(ctx, r.Querier(ctx), &schedules, sql, args...); err != nil {
		return nil, fmt.Errorf("list by department: %w", err)
	}
	return schedules, nil
}

// ListByPaper returns all schedules of one paper.
func (r *ScheduleRepo) ListByPaper(ctx context.Context, paperID id.ID) ([]*production.Schedule, error) {
	q := r.Builder().
		Select(ExtractDBColumns[production.Schedule]()...).
		From("production_schedules").
		Where(squirrel.Eq{"paper_id": paperID}).
		OrderBy("scheduled_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var schedules []*production.Schedule
	if err := pgxscan.Select(ctx, r.Querier(ctx), &schedules, sql, args...); err != nil {
		return nil, fmt.Errorf("list by paper: %w", err)
	}
	return schedules, nil
}
