package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/highway-sim/highway-sim/sim"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS cycle_stats (
	run_id            TEXT    NOT NULL,
	cycle             INTEGER NOT NULL,
	timestamp_ns      INTEGER NOT NULL,
	vehicles          INTEGER NOT NULL,
	moving            INTEGER NOT NULL,
	collisions        INTEGER NOT NULL,
	above_speed_limit INTEGER NOT NULL,
	incoming          INTEGER NOT NULL,
	outgoing          INTEGER NOT NULL,
	PRIMARY KEY (run_id, cycle)
)`

// HistoryRow is one stored cycle.
type HistoryRow struct {
	Cycle     int64
	Timestamp time.Time
	Stats     sim.CycleStats
}

// HistoryReporter appends the per-cycle counts of a run to a SQLite table,
// keyed by run id.
type HistoryReporter struct {
	db    *sql.DB
	runID string
}

// OpenHistory opens or creates the SQLite database at path.
func OpenHistory(path, runID string) (*HistoryReporter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}
	return &HistoryReporter{db: db, runID: runID}, nil
}

func (h *HistoryReporter) Name() string { return "history" }

func (h *HistoryReporter) Report(ctx context.Context, snap *sim.Snapshot) error {
	s := snap.Stats()
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO cycle_stats
			(run_id, cycle, timestamp_ns, vehicles, moving, collisions, above_speed_limit, incoming, outgoing)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.runID, snap.Cycle, snap.Timestamp.UnixNano(),
		s.Vehicles, s.Moving, s.Collisions, s.AboveSpeedLimit, s.Incoming, s.Outgoing)
	if err != nil {
		return fmt.Errorf("store cycle %d: %w", snap.Cycle, err)
	}
	return nil
}

// Rows returns the stored cycles of this run in cycle order.
func (h *HistoryReporter) Rows(ctx context.Context) ([]HistoryRow, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT cycle, timestamp_ns, vehicles, moving, collisions, above_speed_limit, incoming, outgoing
		FROM cycle_stats WHERE run_id = ? ORDER BY cycle`, h.runID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var (
			r  HistoryRow
			ns int64
		)
		if err := rows.Scan(&r.Cycle, &ns, &r.Stats.Vehicles, &r.Stats.Moving, &r.Stats.Collisions,
			&r.Stats.AboveSpeedLimit, &r.Stats.Incoming, &r.Stats.Outgoing); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.Timestamp = time.Unix(0, ns)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (h *HistoryReporter) Close() error {
	return h.db.Close()
}
