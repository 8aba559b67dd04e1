package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milltrack/internal/domain/party"
)

// Compile-time check that PartyRepo implements party.Repository.
var _ party.Repository = (*PartyRepo)(nil)

// PartyRepo persists parties.
type PartyRepo struct {
	*BaseRepo[*party.Party]
}

// NewPartyRepo creates a new party repository.
func NewPartyRepo(txm *TxManager) *PartyRepo {
	return &PartyRepo{
		BaseRepo: NewBaseRepo(
			txm,
			"parties",
			ExtractDBColumns[party.Party](),
			[]string{"name", "phone", "city", "gst_number"},
			func() *party.Party { return &party.Party{} },
		),
	}
}

// ExistsByPhone checks whether an undeleted party already uses the phone.
func (r *PartyRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	q := r.Builder().
		Select("1").
		From("parties").
		Where(squirrel.Eq{"phone": phone, "deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists by phone: %w", err)
	}
	return true, nil
}
