package rippling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"labor-analytics/internal/domain"
)

const DefaultBaseURL = "https://rest.ripplingapis.com"

// Client implements ports.Upstream using the Rippling REST API.
type Client struct {
	baseURL  string
	apiToken string
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
	log      *slog.Logger
}

// Options tunes paging and request throttling. Zero values pick defaults.
type Options struct {
	PageSize  int
	RateLimit float64 // requests per second
	Burst     int
}

func NewClient(baseURL, apiToken string, opts Options, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		pageSize: opts.PageSize,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		log:     log,
	}
}

// ListTimeEntries fetches entries dated within [from, to], both inclusive days.
// GET /time-entries?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (c *Client) ListTimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error) {
	params := url.Values{}
	params.Set("start_date", from.Format(time.DateOnly))
	params.Set("end_date", to.Format(time.DateOnly))

	raw, err := getPaged[rawTimeEntry](ctx, c, "/time-entries", params)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ListEmployees fetches the employee directory.
// GET /users
func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	raw, err := getPaged[rawEmployee](ctx, c, "/users", nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Employee, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.Employee{
			ID:     r.ID,
			Name:   strings.TrimSpace(r.FirstName + " " + r.LastName),
			Number: r.EmployeeID,
			Role:   r.Role,
		})
	}
	return out, nil
}

// ListProjects fetches the job directory with budget and billing data.
// GET /jobs
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	raw, err := getPaged[rawProject](ctx, c, "/jobs", nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(raw))
	for _, p := range raw {
		out = append(out, domain.Project{
			Code:           p.Code,
			Name:           p.Name,
			Type:           p.Type,
			BudgetHours:    p.BudgetHours,
			HourlyRate:     p.HourlyRate,
			EstimatedTotal: p.EstimatedTotal,
		})
	}
	return out, nil
}

type page[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"next_cursor"`
}

// getPaged follows next_cursor until the provider stops returning one.
func getPaged[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	if c.apiToken == "" {
		return nil, errors.New("missing api token")
	}
	var (
		out    []T
		cursor string
	)
	for {
		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(c.pageSize))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var p page[T]
		if err := c.getJSON(ctx, path, q, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Data...)
		c.log.Debug("rippling page fetched", slog.String("path", path), slog.Int("count", len(p.Data)))
		if p.NextCursor == "" {
			return out, nil
		}
		cursor = p.NextCursor
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("rippling: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// rawTimeEntry mirrors the provider's time entry JSON.
type rawTimeEntry struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	UserID          string   `json:"user_id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	Hours           *float64 `json:"hours"`
	DurationMinutes *float64 `json:"duration_minutes"`
	JobCode         string   `json:"job_code"`
	Status          string   `json:"status"`
}

type rawEmployee struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
}

type rawProject struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	BudgetHours    float64 `json:"budget_hours"`
	HourlyRate     float64 `json:"hourly_rate"`
	EstimatedTotal float64 `json:"estimated_total"`
}

func (r rawTimeEntry) toDomain() domain.TimeEntry {
	e := domain.TimeEntry{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		ProjectCode: r.JobCode,
		Status:      r.Status,
	}
	if e.EmployeeID == "" {
		e.EmployeeID = r.UserID
	}
	if e.Status == "" {
		e.Status = domain.StatusPending
	}
	if t, ok := parseTimestamp(r.StartTime); ok {
		e.Start = &t
	}
	if t, ok := parseTimestamp(r.EndTime); ok {
		e.End = &t
	}
	e.Date = entryDate(r.Date, e.Start)
	e.Hours = deriveHours(r.Hours, e.Start, e.End, r.DurationMinutes)
	return e
}

// deriveHours prefers explicit hours, then the clock span rounded to
// hundredths, then duration in minutes. Anything else is zero.
func deriveHours(hours *float64, start, end *time.Time, minutes *float64) float64 {
	switch {
	case hours != nil:
		return *hours
	case start != nil && end != nil:
		return math.Round(end.Sub(*start).Hours()*100) / 100
	case minutes != nil:
		return math.Round(*minutes/60*100) / 100
	default:
		return 0
	}
}

func entryDate(date string, start *time.Time) time.Time {
	if d, err := time.Parse(time.DateOnly, date); err == nil {
		return d
	}
	if start != nil {
		y, m, d := start.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

// parseTimestamp accepts RFC3339 or a zone-less ISO8601 timestamp (read as UTC).
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999999", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
