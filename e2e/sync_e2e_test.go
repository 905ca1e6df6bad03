//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	msql "labor-analytics/internal/adapter/mysql"
	"labor-analytics/internal/domain"
	"labor-analytics/internal/migrate"
	"labor-analytics/internal/usecase"
)

type fakeRippling struct {
	entries   []domain.TimeEntry
	employees []domain.Employee
	projects  []domain.Project
}

func (f fakeRippling) ListTimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error) {
	return f.entries, nil
}

func (f fakeRippling) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return f.employees, nil
}

func (f fakeRippling) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return f.projects, nil
}

func startMySQL(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_USER":          "test",
			"MYSQL_PASSWORD":      "pass",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}
	t.Cleanup(func() { _ = mysqlC.Terminate(context.Background()) })

	host, err := mysqlC.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := mysqlC.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true", "test", "pass", host, port.Port(), "testdb")
}

func TestSyncToMySQL_ThenReport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()
	dsn := startMySQL(t, ctx)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := migrate.Run(ctx, dsn, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store, err := msql.NewClient(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("mysql client: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	// Monday 2025-11-03, a 92 hour day on a 100 hour budget plus a full
	// week for one welder.
	monday := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	clockIn := monday.Add(7 * time.Hour)
	clockOut := clockIn.Add(8 * time.Hour)
	fake := fakeRippling{
		employees: []domain.Employee{
			{ID: "emp_001", Name: "John Martinez", Number: "CE-101", Role: "Welder"},
			{ID: "emp_002", Name: "Sarah Johnson", Number: "CE-102", Role: "Fabricator"},
		},
		projects: []domain.Project{
			{Code: "25-2126", Name: "Thacker Pass Ducting", Type: "Fabrication", BudgetHours: 100, HourlyRate: 85},
		},
	}
	for i := 0; i < 5; i++ {
		day := monday.AddDate(0, 0, i)
		fake.entries = append(fake.entries, domain.TimeEntry{
			ID: fmt.Sprintf("we_%d", i), EmployeeID: "emp_001", ProjectCode: "25-2126",
			Date: day, Hours: 8, Status: domain.StatusApproved,
		})
	}
	fake.entries[0].Start, fake.entries[0].End = &clockIn, &clockOut
	fake.entries = append(fake.entries, domain.TimeEntry{
		ID: "fab_0", EmployeeID: "emp_002", ProjectCode: "25-2126",
		Date: monday, Hours: 84, Status: domain.StatusPending,
	})

	sync := &usecase.SyncUseCase{Log: logger, Upstream: fake, Sink: store}
	if err := sync.Run(ctx, monday, monday.AddDate(0, 0, 4)); err != nil {
		t.Fatalf("sync run: %v", err)
	}
	// Run again to assert idempotency (upsert)
	if err := sync.Run(ctx, monday, monday.AddDate(0, 0, 4)); err != nil {
		t.Fatalf("sync run 2: %v", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM labor_time_entries").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected 6 rows after upsert, got %d", count)
	}

	report := &usecase.ReportUseCase{Log: logger, Source: store}
	r, err := report.DailyReport(ctx, monday)
	if err != nil {
		t.Fatalf("daily report: %v", err)
	}
	if len(r.Costs) != 1 || r.Costs[0].ActualHours != 92 || r.Costs[0].Status != domain.StatusCritical {
		t.Fatalf("unexpected costs: %+v", r.Costs)
	}
	if len(r.Alerts) == 0 || r.Alerts[0].Title != "Budget Alert: 25-2126" {
		t.Fatalf("expected budget alert first, got %+v", r.Alerts)
	}
	if len(r.Detail) != 2 || r.Detail[0].ClockIn == nil {
		t.Fatalf("unexpected detail rows: %+v", r.Detail)
	}

	overtime, err := report.OvertimePredictions(ctx, monday)
	if err != nil {
		t.Fatalf("overtime: %v", err)
	}
	if len(overtime) != 2 {
		t.Fatalf("expected 2 overtime predictions, got %+v", overtime)
	}
	if overtime[0].EmployeeID != "emp_002" || overtime[0].Risk != domain.RiskHigh {
		t.Fatalf("unexpected top prediction: %+v", overtime[0])
	}
	if overtime[1].WeeklyHours != 40 || overtime[1].HoursToOvertime != 0 {
		t.Fatalf("unexpected welder prediction: %+v", overtime[1])
	}

	// The provider drops Friday's entry; a resync of the week removes it.
	fake.entries = fake.entries[:4:4]
	fake.entries = append(fake.entries, domain.TimeEntry{
		ID: "fab_0", EmployeeID: "emp_002", ProjectCode: "25-2126",
		Date: monday, Hours: 84, Status: domain.StatusPending,
	})
	resync := &usecase.SyncUseCase{Log: logger, Upstream: fake, Sink: store}
	if err := resync.Run(ctx, monday, monday.AddDate(0, 0, 4)); err != nil {
		t.Fatalf("resync: %v", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM labor_time_entries WHERE id = 'we_4'").Scan(&count); err != nil {
		t.Fatalf("count deleted: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected entry deleted upstream to leave the mirror, got %d rows", count)
	}
}
