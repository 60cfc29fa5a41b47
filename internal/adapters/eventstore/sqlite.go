package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/voluntr/voluntr/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	aggregate_id   TEXT    NOT NULL,
	version        INTEGER NOT NULL,
	event_id       TEXT    NOT NULL UNIQUE,
	aggregate_type TEXT    NOT NULL,
	event_type     TEXT    NOT NULL,
	ts             INTEGER NOT NULL,
	payload        TEXT    NOT NULL,
	PRIMARY KEY (aggregate_id, version)
);
CREATE INDEX IF NOT EXISTS idx_events_type_ts ON events(event_type, ts);
`

// SQLiteStore implements Store on a single-file SQLite ledger. The
// (aggregate_id, version) primary key enforces the gap-free version
// invariant at the storage layer as well.
type SQLiteStore struct {
	db    *sql.DB
	clock func() time.Time
}

// OpenSQLite opens (or creates) the ledger at path, enabling WAL journal
// mode for read-heavy workloads, and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &SQLiteStore{
		db:    db,
		clock: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append commits one event in a single transaction: read the current max
// version, compare against the expectation, insert. The unique primary key
// catches the race between two appends that both passed the version check.
func (s *SQLiteStore) Append(ctx context.Context, req AppendRequest) (StoredEvent, error) {
	if err := validateAppend(req); err != nil {
		return StoredEvent{}, err
	}

	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return StoredEvent{}, fmt.Errorf("%w: encode payload: %v", ErrInvalidRequest, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StoredEvent{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int64
	row := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM events WHERE aggregate_id = ?`, req.AggregateID)
	if err := row.Scan(&current); err != nil {
		return StoredEvent{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if current != req.ExpectedVersion {
		metrics.RecordAppendConflict()
		return StoredEvent{}, fmt.Errorf("%w: aggregate %s at version %d, expected %d",
			ErrConcurrencyConflict, req.AggregateID, current, req.ExpectedVersion)
	}

	ev := StoredEvent{
		EventID:       uuid.NewString(),
		AggregateID:   req.AggregateID,
		AggregateType: req.AggregateType,
		EventType:     req.EventType,
		Version:       current + 1,
		Timestamp:     s.clock(),
		Payload:       req.Payload,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (aggregate_id, version, event_id, aggregate_type, event_type, ts, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.AggregateID, ev.Version, ev.EventID, ev.AggregateType, ev.EventType,
		ev.Timestamp.UnixNano(), string(payload))
	if err != nil {
		if isConstraintViolation(err) {
			metrics.RecordAppendConflict()
			return StoredEvent{}, fmt.Errorf("%w: aggregate %s lost the append race at version %d",
				ErrConcurrencyConflict, ev.AggregateID, ev.Version)
		}
		return StoredEvent{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return StoredEvent{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	metrics.RecordEventAppended()
	return ev, nil
}

// LoadStream returns the aggregate's events in ascending version order.
func (s *SQLiteStore) LoadStream(ctx context.Context, aggregateID string) ([]StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT aggregate_id, version, event_id, aggregate_type, event_type, ts, payload
		 FROM events WHERE aggregate_id = ? ORDER BY version ASC`, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer func() { _ = rows.Close() }()
	return scanEvents(rows)
}

// LoadByType returns events of the given type at or after the since cursor,
// ordered by timestamp then aggregate then version.
func (s *SQLiteStore) LoadByType(ctx context.Context, eventType string, since time.Time) ([]StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT aggregate_id, version, event_id, aggregate_type, event_type, ts, payload
		 FROM events WHERE event_type = ? AND ts >= ?
		 ORDER BY ts ASC, aggregate_id ASC, version ASC`,
		eventType, since.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer func() { _ = rows.Close() }()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]StoredEvent, error) {
	var out []StoredEvent
	for rows.Next() {
		var (
			ev      StoredEvent
			ts      int64
			payload string
		)
		if err := rows.Scan(&ev.AggregateID, &ev.Version, &ev.EventID,
			&ev.AggregateType, &ev.EventType, &ts, &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		ev.Timestamp = time.Unix(0, ts).UTC()
		if err := json.Unmarshal([]byte(payload), &ev.Payload); err != nil {
			return nil, fmt.Errorf("%w: decode payload for event %s: %v", ErrStorageUnavailable, ev.EventID, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return out, nil
}

// isConstraintViolation detects the SQLite unique/primary-key failure that
// signals a lost append race.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var target interface{ Code() int }
	if errors.As(err, &target) {
		// SQLITE_CONSTRAINT family
		const sqliteConstraint = 19
		return target.Code()%256 == sqliteConstraint
	}
	return strings.Contains(err.Error(), "constraint")
}
