package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "milltrack/internal/core/context"
	"milltrack/internal/core/id"
)

// compressThreshold is the payload size above which audit payloads are
// zstd-compressed before storage. Small payloads are cheaper to keep as
// plain JSONB.
const compressThreshold = 10 * 1024

// AuditEntry is one recorded change.
type AuditEntry struct {
	ID         id.ID           `db:"id"`
	EntityType string          `db:"entity_type"`
	EntityID   id.ID           `db:"entity_id"`
	Action     string          `db:"action"`
	Payload    json.RawMessage `db:"payload"`
	Compressed []byte          `db:"compressed_payload"`
	UserID     string          `db:"user_id"`
	Username   string          `db:"username"`
	OccurredAt time.Time       `db:"occurred_at"`
}

// AuditService records entity changes into the audit_log table. Writes
// join the caller's transaction when one is active, so an audit row never
// outlives a rolled-back change.
type AuditService struct {
	txm     *TxManager
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewAuditService creates a new audit service.
func NewAuditService(txm *TxManager) (*AuditService, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditService{txm: txm, encoder: enc, decoder: dec}, nil
}

// Record writes one audit entry. The payload is any JSON-serializable
// snapshot of the change (typically the Diff of old and new state).
func (s *AuditService) Record(ctx context.Context, entityType string, entityID id.ID, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	entry := AuditEntry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}

	if len(raw) > compressThreshold {
		entry.Compressed = s.encoder.EncodeAll(raw, nil)
	} else {
		entry.Payload = raw
	}

	if user := appctx.GetUser(ctx); user != nil {
		entry.UserID = user.UserID
		entry.Username = user.Username
	}

	query := `INSERT INTO audit_log
		(id, entity_type, entity_id, action, payload, compressed_payload, user_id, username, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = s.txm.GetQuerier(ctx).Exec(ctx, query,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action,
		entry.Payload, entry.Compressed, entry.UserID, entry.Username, entry.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// History returns the audit trail of one entity, newest first.
// Compressed payloads are inflated transparently.
func (s *AuditService) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, entity_type, entity_id, action, payload, compressed_payload, user_id, username, occurred_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY occurred_at DESC
		LIMIT $3`

	rows, err := s.txm.GetQuerier(ctx).Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action,
			&e.Payload, &e.Compressed, &e.UserID, &e.Username, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if len(e.Compressed) > 0 {
			raw, err := s.decoder.DecodeAll(e.Compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit payload: %w", err)
			}
			e.Payload = raw
			e.Compressed = nil
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}

	return entries, nil
}

// Diff builds a change payload from old and new snapshots. Either side
// may be nil (creation or deletion).
func Diff(oldState, newState any) map[string]any {
	d := make(map[string]any, 2)
	if oldState != nil {
		d["old"] = oldState
	}
	if newState != nil {
		d["new"] = newState
	}
	return d
}
