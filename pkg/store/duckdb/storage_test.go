package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO scans (id, target, started_at, duration_ms, score, grade)
		 VALUES (?, ?, CURRENT_TIMESTAMP, ?, ?, ?)`,
		"scan-001", "/srv/repos/backend", int64(42), 87.5, "needs-work",
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM scans WHERE id = ?", "scan-001").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = db.Exec(
		`INSERT INTO scan_findings (scan_id, seq, rule_id, status) VALUES (?, ?, ?, ?)`,
		"scan-001", 0, "readme-present", "pass",
	)
	require.NoError(t, err)
}
