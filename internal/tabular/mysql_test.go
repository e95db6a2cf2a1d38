package tabular

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMySQL(t *testing.T) (*MySQL, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQL(db), mock
}

func TestMySQL_Read(t *testing.T) {
	s, mock := newMockMySQL(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sheets`).
		WithArgs("billing").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(`SELECT cells FROM sheet_rows`).
		WithArgs("billing").
		WillReturnRows(sqlmock.NewRows([]string{"cells"}).
			AddRow([]byte(`["id","project_id"]`)).
			AddRow([]byte(`["a","p1"]`)))

	rows, err := s.Read(context.Background(), "billing")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "project_id"}, {"a", "p1"}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_ReadMissingSheet(t *testing.T) {
	s, mock := newMockMySQL(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sheets`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	_, err := s.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSheet)
}

func TestMySQL_Append(t *testing.T) {
	s, mock := newMockMySQL(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sheets`).
		WithArgs("billing").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(row_num\), 0\) FROM sheet_rows`).
		WithArgs("billing").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(4))
	mock.ExpectExec(`INSERT INTO sheet_rows`).
		WithArgs("billing", 5, []byte(`["a","p1"]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := s.Append(context.Background(), "billing", []string{"a", "p1"})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_DeleteShiftsRows(t *testing.T) {
	s, mock := newMockMySQL(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM sheet_rows`).
		WithArgs("billing", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE sheet_rows SET row_num = row_num - 1`).
		WithArgs("billing", 3).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, s.Delete(context.Background(), "billing", 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_UpdateMissingRow(t *testing.T) {
	s, mock := newMockMySQL(t)

	mock.ExpectExec(`UPDATE sheet_rows SET cells`).
		WithArgs([]byte(`["a"]`), "billing", 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sheet_rows`).
		WithArgs("billing", 7).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	err := s.Update(context.Background(), "billing", 7, []string{"a"})
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_UpdateUnchangedRow(t *testing.T) {
	s, mock := newMockMySQL(t)

	mock.ExpectExec(`UPDATE sheet_rows SET cells`).
		WithArgs([]byte(`["a"]`), "billing", 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sheet_rows`).
		WithArgs("billing", 2).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	require.NoError(t, s.Update(context.Background(), "billing", 2, []string{"a"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDSN_CountsMatchedRows(t *testing.T) {
	dsn := MySQLDSN("dashboard", "pw", "db", 3306, "agency")

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ClientFoundRows)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "agency", cfg.DBName)
}

func TestMySQL_TooManyConnectionsIsRateLimited(t *testing.T) {
	s, mock := newMockMySQL(t)

	mock.ExpectExec(`INSERT IGNORE INTO sheets`).
		WithArgs("billing").
		WillReturnError(&mysql.MySQLError{Number: 1040, Message: "Too many connections"})

	err := s.CreateSheet(context.Background(), "billing")
	assert.ErrorIs(t, err, ErrRateLimited)
}
