package scan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sec-tools/policy-atlas/pkg/models/store"
	"github.com/sec-tools/policy-atlas/pkg/store/duckdb"
)

// Store persists scan history: one summary row per scan plus its
// findings, keyed by (scan_id, seq) to preserve catalog order.
type Store interface {
	Add(ctx context.Context, record store.ScanRecord, findings []store.FindingRecord) error
	List(ctx context.Context, limit int) ([]store.ScanRecord, error)
	Get(ctx context.Context, id string) (store.ScanRecord, []store.FindingRecord, error)
}

type scanStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &scanStore{db: db}, nil
}

func (s *scanStore) Add(ctx context.Context, record store.ScanRecord, findings []store.FindingRecord) error {
	tx := duckdb.GetTransaction(ctx)

	exec := func(query string, args ...any) error {
		var err error
		if tx == nil {
			_, err = s.db.ExecContext(ctx, query, args...)
		} else {
			_, err = tx.ExecContext(ctx, query, args...)
		}
		return err
	}

	err := exec(
		`INSERT INTO scans (id, target, started_at, duration_ms, score, grade)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.Target, record.StartedAt, record.DurationMs, record.Score, record.Grade,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	for _, f := range findings {
		evidence, err := json.Marshal(f.Evidence)
		if err != nil {
			return fmt.Errorf("marshal evidence: %w", err)
		}

		err = exec(
			`INSERT INTO scan_findings (scan_id, seq, rule_id, rule_title, severity, weight, status, note, evidence)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID, f.Seq, f.RuleID, f.RuleTitle, f.Severity, f.Weight, f.Status, f.Note, string(evidence),
		)
		if err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}

	return nil
}

func (s *scanStore) List(ctx context.Context, limit int) ([]store.ScanRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target, started_at, duration_ms, score, grade
		 FROM scans
		 ORDER BY started_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	records := make([]store.ScanRecord, 0)
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *scanStore) Get(ctx context.Context, id string) (store.ScanRecord, []store.FindingRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, target, started_at, duration_ms, score, grade FROM scans WHERE id = ?`, id)

	var rec store.ScanRecord
	var started time.Time
	if err := row.Scan(&rec.ID, &rec.Target, &started, &rec.DurationMs, &rec.Score, &rec.Grade); err != nil {
		if err == sql.ErrNoRows {
			return store.ScanRecord{}, nil, fmt.Errorf("scan %s not found", id)
		}
		return store.ScanRecord{}, nil, fmt.Errorf("get scan: %w", err)
	}
	rec.StartedAt = started

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, rule_id, rule_title, severity, weight, status, note, evidence
		 FROM scan_findings
		 WHERE scan_id = ?
		 ORDER BY seq`, id)
	if err != nil {
		return store.ScanRecord{}, nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	findings := make([]store.FindingRecord, 0)
	for rows.Next() {
		var f store.FindingRecord
		var evidenceRaw []byte
		if err := rows.Scan(&f.Seq, &f.RuleID, &f.RuleTitle, &f.Severity, &f.Weight, &f.Status, &f.Note, &evidenceRaw); err != nil {
			return store.ScanRecord{}, nil, err
		}
		f.ScanID = id
		if len(evidenceRaw) > 0 {
			_ = json.Unmarshal(evidenceRaw, &f.Evidence)
		}
		findings = append(findings, f)
	}
	return rec, findings, rows.Err()
}

func scanRow(rows *sql.Rows) (store.ScanRecord, error) {
	var rec store.ScanRecord
	var started time.Time
	if err := rows.Scan(&rec.ID, &rec.Target, &started, &rec.DurationMs, &rec.Score, &rec.Grade); err != nil {
		return store.ScanRecord{}, err
	}
	rec.StartedAt = started
	return rec, nil
}
