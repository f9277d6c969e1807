package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ScansSchema = `
	CREATE TABLE IF NOT EXISTS scans (
		id VARCHAR NOT NULL,
		target VARCHAR NOT NULL,
		started_at TIMESTAMP NOT NULL,
		duration_ms BIGINT,
		score DOUBLE,
		grade VARCHAR,
		PRIMARY KEY (id)
	);
`

const ScanFindingsSchema = `
	CREATE TABLE IF NOT EXISTS scan_findings (
		scan_id VARCHAR NOT NULL,
		seq INTEGER NOT NULL,
		rule_id VARCHAR NOT NULL,
		rule_title VARCHAR,
		severity VARCHAR,
		weight DOUBLE,
		status VARCHAR,
		note VARCHAR,
		evidence JSON,
		PRIMARY KEY (scan_id, seq)
	);
`

var bootQueries = []string{
	ScansSchema,
	ScanFindingsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
