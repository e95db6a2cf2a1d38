package tabular

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Postgres is the same two-table layout as MySQL on PostgreSQL. The primary
// key is deferred so the row shift after a delete can pass through
// duplicate states inside its statement.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func OpenPostgres(dsn string) (*Postgres, error) {
	const op = "tabular.OpenPostgres"

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Postgres{db: db}, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) Migrate(ctx context.Context) error {
	const op = "tabular.Postgres.Migrate"

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sheets (
			name VARCHAR(64) PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS sheet_rows (
			sheet   VARCHAR(64) NOT NULL,
			row_num INTEGER     NOT NULL,
			cells   JSONB       NOT NULL,
			CONSTRAINT sheet_rows_pkey PRIMARY KEY (sheet, row_num) DEFERRABLE INITIALLY DEFERRED
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, classifyPq(err))
		}
	}

	return nil
}

// classifyPq maps connection exhaustion and lock contention onto
// ErrRateLimited.
func classifyPq(err error) error {
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch pe.Code {
		case "53300", "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return err
}

func (s *Postgres) Read(ctx context.Context, sheet string) ([][]string, error) {
	const op = "tabular.Postgres.Read"

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE name = $1`, sheet).Scan(&n); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classifyPq(err))
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrNoSheet, sheet)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT cells FROM sheet_rows WHERE sheet = $1 ORDER BY row_num`, sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classifyPq(err))
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		var cells []string
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("%s: decode cells: %w", op, err)
		}
		out = append(out, cells)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classifyPq(err))
	}

	return out, nil
}

func (s *Postgres) Append(ctx context.Context, sheet string, row []string) (int, error) {
	const op = "tabular.Postgres.Append"

	cells, err := json.Marshal(row)
	if err != nil {
		return 0, fmt.Errorf("%s: encode cells: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, classifyPq(err))
	}
	defer tx.Rollback()

	// Locking the sheet row serializes appends to the same sheet.
	var name string
	err = tx.QueryRowContext(ctx, `SELECT name FROM sheets WHERE name = $1 FOR UPDATE`, sheet).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w: %s", op, ErrNoSheet, sheet)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: lock sheet: %w", op, classifyPq(err))
	}

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_num), 0) FROM sheet_rows WHERE sheet = $1`, sheet,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("%s: last row: %w", op, classifyPq(err))
	}

	rowNum := last + 1
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, row_num, cells) VALUES ($1, $2, $3::jsonb)`, sheet, rowNum, string(cells),
	); err != nil {
		return 0, fmt.Errorf("%s: insert: %w", op, classifyPq(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, classifyPq(err))
	}

	return rowNum, nil
}

func (s *Postgres) Update(ctx context.Context, sheet string, rowNum int, row []string) error {
	const op = "tabular.Postgres.Update"

	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%s: encode cells: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sheet_rows SET cells = $1::jsonb WHERE sheet = $2 AND row_num = $3`, string(cells), sheet, rowNum,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classifyPq(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w: %d", op, ErrRowOutOfRange, rowNum)
	}

	return nil
}

func (s *Postgres) Delete(ctx context.Context, sheet string, rowNum int) error {
	const op = "tabular.Postgres.Delete"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, classifyPq(err))
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = $1 AND row_num = $2`, sheet, rowNum)
	if err != nil {
		return fmt.Errorf("%s: delete: %w", op, classifyPq(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w: %d", op, ErrRowOutOfRange, rowNum)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sheet_rows SET row_num = row_num - 1 WHERE sheet = $1 AND row_num > $2`, sheet, rowNum,
	); err != nil {
		return fmt.Errorf("%s: shift rows: %w", op, classifyPq(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, classifyPq(err))
	}

	return nil
}

func (s *Postgres) CreateSheet(ctx context.Context, sheet string) error {
	const op = "tabular.Postgres.CreateSheet"

	if _, err := s.db.ExecContext(ctx, `INSERT INTO sheets (name) VALUES ($1) ON CONFLICT DO NOTHING`, sheet); err != nil {
		return fmt.Errorf("%s: %w", op, classifyPq(err))
	}

	return nil
}
