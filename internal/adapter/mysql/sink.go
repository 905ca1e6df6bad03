package mysql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"labor-analytics/internal/domain"
)

// Client implements ports.Sink and ports.Source on top of MySQL tables
// that mirror the provider's data.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return NewFromDB(db, log), nil
}

// NewFromDB wraps an existing handle.
func NewFromDB(db *sql.DB, log *slog.Logger) *Client {
	return &Client{db: db, log: log}
}

// withTx runs fn in a transaction, rolling back when it fails.
func (c *Client) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// execEach runs one prepared statement per row.
func execEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// upsert runs one prepared statement per row inside a single transaction.
func (c *Client) upsert(ctx context.Context, query string, n int, args func(i int) []any) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		return execEach(ctx, tx, query, n, args)
	})
}

// SyncEntries replaces the mirrored entries dated within [from, to] with
// entries, in one transaction. Rows the provider no longer returns for the
// window are removed; entries dated outside it are upserted as well.
func (c *Client) SyncEntries(ctx context.Context, from, to time.Time, entries []domain.TimeEntry) error {
	const del = `DELETE FROM labor_time_entries WHERE entry_date BETWEEN ? AND ?`
	const q = `
INSERT INTO labor_time_entries
  (id, employee_id, project_code, entry_date, start_time, end_time, hours, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  employee_id=VALUES(employee_id),
  project_code=VALUES(project_code),
  entry_date=VALUES(entry_date),
  start_time=VALUES(start_time),
  end_time=VALUES(end_time),
  hours=VALUES(hours),
  status=VALUES(status);
`
	var removed int64
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, del, from.Format(time.DateOnly), to.Format(time.DateOnly))
		if err != nil {
			return err
		}
		removed, _ = res.RowsAffected()
		if len(entries) == 0 {
			return nil
		}
		return execEach(ctx, tx, q, len(entries), func(i int) []any {
			e := entries[i]
			return []any{
				e.ID,
				e.EmployeeID,
				e.ProjectCode,
				e.Date.Format(time.DateOnly),
				nullTime(e.Start),
				nullTime(e.End),
				e.Hours,
				e.Status,
			}
		})
	})
	if err != nil {
		return err
	}
	c.log.Info("mysql sink replaced entries",
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("count", len(entries)),
		slog.Int64("cleared", removed),
	)
	return nil
}

// SyncEmployees upserts the employee directory.
func (c *Client) SyncEmployees(ctx context.Context, employees []domain.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	const q = `
INSERT INTO labor_employees
  (id, name, badge_number, role)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name=VALUES(name),
  badge_number=VALUES(badge_number),
  role=VALUES(role);
`
	err := c.upsert(ctx, q, len(employees), func(i int) []any {
		e := employees[i]
		return []any{e.ID, e.Name, e.Number, e.Role}
	})
	if err != nil {
		return err
	}
	c.log.Info("mysql sink upserted employees", slog.Int("count", len(employees)))
	return nil
}

// SyncProjects upserts the project directory.
func (c *Client) SyncProjects(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	const q = `
INSERT INTO labor_projects
  (code, name, type, budget_hours, hourly_rate, estimated_total)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name=VALUES(name),
  type=VALUES(type),
  budget_hours=VALUES(budget_hours),
  hourly_rate=VALUES(hourly_rate),
  estimated_total=VALUES(estimated_total);
`
	err := c.upsert(ctx, q, len(projects), func(i int) []any {
		p := projects[i]
		return []any{p.Code, p.Name, p.Type, p.BudgetHours, p.HourlyRate, p.EstimatedTotal}
	})
	if err != nil {
		return err
	}
	c.log.Info("mysql sink upserted projects", slog.Int("count", len(projects)))
	return nil
}

// Close closes the underlying DB. Not wired via interface to keep ports minimal.
func (c *Client) Close() error { return c.db.Close() }

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
