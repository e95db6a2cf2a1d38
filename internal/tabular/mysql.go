package tabular

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQL keeps sheets in two tables so the same row-number semantics hold as
// for a spreadsheet: sheet_rows.row_num is dense and shifts on delete.
type MySQL struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

// MySQLDSN builds the driver DSN from config parts.
func MySQLDSN(user, password, host string, port int, name string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)
	cfg.DBName = name
	cfg.ParseTime = true
	// RowsAffected then counts matched rows, so rewriting a row with
	// identical cells is not mistaken for a missing row.
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

func OpenMySQL(dsn string) (*MySQL, error) {
	const op = "tabular.OpenMySQL"

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &MySQL{db: db}, nil
}

func (s *MySQL) Close() error {
	return s.db.Close()
}

func (s *MySQL) Migrate(ctx context.Context) error {
	const op = "tabular.MySQL.Migrate"

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sheets (
			name VARCHAR(64) NOT NULL PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS sheet_rows (
			sheet   VARCHAR(64) NOT NULL,
			row_num INT         NOT NULL,
			cells   JSON        NOT NULL,
			PRIMARY KEY (sheet, row_num)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, classify(err))
		}
	}

	return nil
}

// classify maps MySQL overload errors onto ErrRateLimited.
func classify(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1040, 1203, 1205, 1213:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return err
}

func (s *MySQL) sheetExists(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, sheet string) error {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE name = ?`, sheet).Scan(&n); err != nil {
		return classify(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	return nil
}

func (s *MySQL) Read(ctx context.Context, sheet string) ([][]string, error) {
	const op = "tabular.MySQL.Read"

	if err := s.sheetExists(ctx, s.db, sheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY row_num`, sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
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
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	return out, nil
}

func (s *MySQL) Append(ctx context.Context, sheet string, row []string) (int, error) {
	const op = "tabular.MySQL.Append"

	cells, err := json.Marshal(row)
	if err != nil {
		return 0, fmt.Errorf("%s: encode cells: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, classify(err))
	}
	defer tx.Rollback()

	if err := s.sheetExists(ctx, tx, sheet); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_num), 0) FROM sheet_rows WHERE sheet = ? FOR UPDATE`, sheet,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("%s: last row: %w", op, classify(err))
	}

	rowNum := last + 1
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, row_num, cells) VALUES (?, ?, ?)`, sheet, rowNum, cells,
	); err != nil {
		return 0, fmt.Errorf("%s: insert: %w", op, classify(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, classify(err))
	}

	return rowNum, nil
}

func (s *MySQL) Update(ctx context.Context, sheet string, rowNum int, row []string) error {
	const op = "tabular.MySQL.Update"

	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%s: encode cells: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sheet_rows SET cells = ? WHERE sheet = ? AND row_num = ?`, cells, sheet, rowNum,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return nil
	}

	// Without clientFoundRows an unchanged row also reports 0.
	var found int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sheet_rows WHERE sheet = ? AND row_num = ?`, sheet, rowNum,
	).Scan(&found)
	if err != nil {
		return fmt.Errorf("%s: check row: %w", op, classify(err))
	}
	if found == 0 {
		return fmt.Errorf("%s: %w: %d", op, ErrRowOutOfRange, rowNum)
	}

	return nil
}

func (s *MySQL) Delete(ctx context.Context, sheet string, rowNum int) error {
	const op = "tabular.MySQL.Delete"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, classify(err))
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = ? AND row_num = ?`, sheet, rowNum)
	if err != nil {
		return fmt.Errorf("%s: delete: %w", op, classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w: %d", op, ErrRowOutOfRange, rowNum)
	}

	// ORDER BY keeps the primary key unique while shifting.
	if _, err := tx.ExecContext(ctx,
		`UPDATE sheet_rows SET row_num = row_num - 1 WHERE sheet = ? AND row_num > ? ORDER BY row_num`, sheet, rowNum,
	); err != nil {
		return fmt.Errorf("%s: shift rows: %w", op, classify(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, classify(err))
	}

	return nil
}

func (s *MySQL) CreateSheet(ctx context.Context, sheet string) error {
	const op = "tabular.MySQL.CreateSheet"

	if _, err := s.db.ExecContext(ctx, `INSERT IGNORE INTO sheets (name) VALUES (?)`, sheet); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}

	return nil
}
