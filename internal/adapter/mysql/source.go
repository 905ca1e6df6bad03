package mysql

import (
	"context"
	"database/sql"
	"time"

	"labor-analytics/internal/domain"
)

// EntriesForRange returns entries dated between start and end, inclusive.
func (c *Client) EntriesForRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT id, employee_id, project_code, entry_date, start_time, end_time, hours, status
FROM labor_time_entries
WHERE entry_date BETWEEN ? AND ?
ORDER BY entry_date, id`,
		start.Format(time.DateOnly), end.Format(time.DateOnly),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TimeEntry
	for rows.Next() {
		var (
			e         domain.TimeEntry
			startTime sql.NullTime
			endTime   sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.ProjectCode, &e.Date, &startTime, &endTime, &e.Hours, &e.Status); err != nil {
			return nil, err
		}
		if startTime.Valid {
			t := startTime.Time.UTC()
			e.Start = &t
		}
		if endTime.Valid {
			t := endTime.Time.UTC()
			e.End = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (c *Client) Employees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name, badge_number, role FROM labor_employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Number, &e.Role); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT code, name, type, budget_hours, hourly_rate, estimated_total
FROM labor_projects
ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.Code, &p.Name, &p.Type, &p.BudgetHours, &p.HourlyRate, &p.EstimatedTotal); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
