package personalossdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal PersonalOS HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Task represents the API task model.
type Task struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Description      *string  `json:"description,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Labels           []string `json:"labels"`
	Priority         int      `json:"priority"`
	Recurrence       string   `json:"recurrence,omitempty"`
	StartDate        *string  `json:"start_date,omitempty"`
	DueDate          *string  `json:"due_date,omitempty"`
	EstimatedMinutes *int     `json:"estimated_minutes,omitempty"`
	CompletedAt      *string  `json:"completed_at,omitempty"`
	CompletedOn      *string  `json:"completed_on,omitempty"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
	Status           string   `json:"status"`
}

// TaskHistory represents one task audit entry.
type TaskHistory struct {
	ID        int64   `json:"id"`
	TaskID    int64   `json:"task_id"`
	Action    string  `json:"action"`
	TaskTitle string  `json:"task_title"`
	Changes   *string `json:"changes,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// Habit represents a tracked habit.
type Habit struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Note represents a note.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Expense represents a quick expense entry.
type Expense struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	SpentOn     string  `json:"spent_on"`
	CreatedAt   string  `json:"created_at"`
}

// Asset represents a finance asset account.
type Asset struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AssetType string  `json:"asset_type"`
	Currency  string  `json:"currency"`
	Balance   float64 `json:"balance"`
	IsPrimary bool    `json:"is_primary"`
}

// Liability represents a finance liability.
type Liability struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	LiabilityType string  `json:"liability_type"`
	Balance       float64 `json:"balance"`
}

// Transaction represents a finance transaction.
type Transaction struct {
	ID           int64   `json:"id"`
	TxnType      string  `json:"txn_type"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	TransactedAt string  `json:"transacted_at"`
	FromAssetID  *int64  `json:"from_asset_id,omitempty"`
	ToAssetID    *int64  `json:"to_asset_id,omitempty"`
	LiabilityID  *int64  `json:"liability_id,omitempty"`
}

// FinanceSummary is the dashboard rollup.
type FinanceSummary struct {
	NetWorth          float64 `json:"net_worth"`
	TotalAssets       float64 `json:"total_assets"`
	TotalLiabilities  float64 `json:"total_liabilities"`
	IncomeThisMonth   float64 `json:"income_this_month"`
	ExpensesThisMonth float64 `json:"expenses_this_month"`
	SavingsThisMonth  float64 `json:"savings_this_month"`
	SavingsRate       float64 `json:"savings_rate"`
}

// ViewSnapshot is the composed dashboard state for one date-mode.
type ViewSnapshot struct {
	ReferenceDate string `json:"reference_date"`
	Today         []Task `json:"today"`
	Ongoing       []Task `json:"ongoing"`
	List          []Task `json:"list"`
	Upcoming      []Task `json:"upcoming"`
	Completed     []Task `json:"completed"`
	Board         struct {
		Pending    []Task `json:"pending"`
		InProgress []Task `json:"in_progress"`
		Completed  []Task `json:"completed"`
	} `json:"board"`
	Insights struct {
		Total       int `json:"total"`
		Done        int `json:"done"`
		Pending     int `json:"pending"`
		PercentDone int `json:"percent_done"`
	} `json:"insights"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// ListTasks returns tasks for the given view ("all" or "today").
func (c *Client) ListTasks(ctx context.Context, view string) ([]Task, error) {
	endpoint := "tasks"
	if view != "" {
		endpoint += "?view=" + url.QueryEscape(view)
	}
	var resp []Task
	err := c.do(ctx, http.MethodGet, c.apiPath(endpoint), nil, &resp)
	return resp, err
}

// CreateTask creates a task. fields holds any optional attributes
// (due_date, priority, labels, recurrence, ...).
func (c *Client) CreateTask(ctx context.Context, title string, fields map[string]any) (Task, error) {
	body := map[string]any{"title": title}
	for k, v := range fields {
		body[k] = v
	}
	var resp Task
	err := c.do(ctx, http.MethodPost, c.apiPath("tasks"), body, &resp)
	return resp, err
}

// UpdateTask applies a partial update. Set "completed" to toggle
// completion.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch map[string]any) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPatch, c.apiPath("tasks/"+formatID(id)), patch, &resp)
	return resp, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.apiPath("tasks/"+formatID(id)), nil, nil)
}

// TaskViews fetches the composed dashboard snapshot. date is required
// when mode is "custom".
func (c *Client) TaskViews(ctx context.Context, mode, date string) (ViewSnapshot, error) {
	endpoint := "tasks/views"
	q := url.Values{}
	if mode != "" {
		q.Set("mode", mode)
	}
	if date != "" {
		q.Set("date", date)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp ViewSnapshot
	err := c.do(ctx, http.MethodGet, c.apiPath(endpoint), nil, &resp)
	return resp, err
}

// TaskHistory returns recent task audit entries, newest first.
func (c *Client) TaskHistory(ctx context.Context, limit int) ([]TaskHistory, error) {
	endpoint := "task-history"
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}
	var resp []TaskHistory
	err := c.do(ctx, http.MethodGet, c.apiPath(endpoint), nil, &resp)
	return resp, err
}

// ListHabits returns all habits.
func (c *Client) ListHabits(ctx context.Context) ([]Habit, error) {
	var resp []Habit
	err := c.do(ctx, http.MethodGet, c.apiPath("habits"), nil, &resp)
	return resp, err
}

// CreateHabit creates a habit.
func (c *Client) CreateHabit(ctx context.Context, name, frequency string) (Habit, error) {
	body := map[string]any{"name": name}
	if frequency != "" {
		body["frequency"] = frequency
	}
	var resp Habit
	err := c.do(ctx, http.MethodPost, c.apiPath("habits"), body, &resp)
	return resp, err
}

// ListNotes returns all notes, most recently updated first.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var resp []Note
	err := c.do(ctx, http.MethodGet, c.apiPath("notes"), nil, &resp)
	return resp, err
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, title, content string) (Note, error) {
	body := map[string]any{"title": title, "content": content}
	var resp Note
	err := c.do(ctx, http.MethodPost, c.apiPath("notes"), body, &resp)
	return resp, err
}

// ListExpenses returns quick expenses, most recent first.
func (c *Client) ListExpenses(ctx context.Context) ([]Expense, error) {
	var resp []Expense
	err := c.do(ctx, http.MethodGet, c.apiPath("expenses"), nil, &resp)
	return resp, err
}

// AddExpense records a quick expense.
func (c *Client) AddExpense(ctx context.Context, amount float64, category string) (Expense, error) {
	body := map[string]any{"amount": amount, "category": category}
	var resp Expense
	err := c.do(ctx, http.MethodPost, c.apiPath("expenses"), body, &resp)
	return resp, err
}

// ListAssets returns finance assets, primary first.
func (c *Client) ListAssets(ctx context.Context) ([]Asset, error) {
	var resp []Asset
	err := c.do(ctx, http.MethodGet, c.apiPath("expense/assets"), nil, &resp)
	return resp, err
}

// ListLiabilities returns finance liabilities.
func (c *Client) ListLiabilities(ctx context.Context) ([]Liability, error) {
	var resp []Liability
	err := c.do(ctx, http.MethodGet, c.apiPath("expense/liabilities"), nil, &resp)
	return resp, err
}

// AddTransaction records a finance transaction. fields holds optional
// attributes (description, from_asset_id, to_asset_id, liability_id).
func (c *Client) AddTransaction(ctx context.Context, txnType string, amount float64, category string, fields map[string]any) (Transaction, error) {
	body := map[string]any{
		"txn_type": txnType,
		"amount":   amount,
		"category": category,
	}
	for k, v := range fields {
		body[k] = v
	}
	var resp Transaction
	err := c.do(ctx, http.MethodPost, c.apiPath("expense/transactions"), body, &resp)
	return resp, err
}

// Dashboard fetches the finance summary.
func (c *Client) Dashboard(ctx context.Context) (FinanceSummary, error) {
	var resp FinanceSummary
	err := c.do(ctx, http.MethodGet, c.apiPath("expense/dashboard"), nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) apiPath(p string) string {
	return "api/" + strings.TrimLeft(p, "/")
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
