// Package client is a Go consumer of the ExpenseOps REST API: a thin typed
// HTTP client plus a session store that caches fetched collections and folds
// server responses back into them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client against the given base URL, e.g.
// "https://expenses.example.com". The /api/v1 prefix is appended per request.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token used on subsequent requests. An empty
// token reverts the client to unauthenticated.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: "encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	url := c.baseURL + "/api/v1" + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: "decode response", Err: err}
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) MyExpenses(ctx context.Context) ([]Expense, error) {
	return c.listExpenses(ctx, "/expenses")
}

func (c *Client) PendingExpenses(ctx context.Context) ([]Expense, error) {
	return c.listExpenses(ctx, "/expenses/pending")
}

func (c *Client) ApprovedExpenses(ctx context.Context) ([]Expense, error) {
	return c.listExpenses(ctx, "/expenses/approved")
}

func (c *Client) ApprovalHistory(ctx context.Context) ([]Expense, error) {
	return c.listExpenses(ctx, "/expenses/approval-history")
}

func (c *Client) listExpenses(ctx context.Context, path string) ([]Expense, error) {
	var expenses []Expense
	if err := c.do(ctx, http.MethodGet, path, nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (c *Client) GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	var e Expense
	if err := c.do(ctx, http.MethodGet, "/expenses/"+id.String(), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) ExpenseHistory(ctx context.Context, id uuid.UUID) ([]ApprovalRecord, error) {
	var records []ApprovalRecord
	if err := c.do(ctx, http.MethodGet, "/expenses/"+id.String()+"/history", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) CreateExpense(ctx context.Context, input ExpenseInput) (*Expense, error) {
	var e Expense
	if err := c.do(ctx, http.MethodPost, "/expenses", input, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateExpense(ctx context.Context, id uuid.UUID, input ExpenseInput) (*Expense, error) {
	var e Expense
	if err := c.do(ctx, http.MethodPut, "/expenses/"+id.String(), input, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+id.String(), nil, nil)
}

func (c *Client) SubmitExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return c.transition(ctx, id, "submit", nil)
}

func (c *Client) ApproveExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return c.transition(ctx, id, "approve", nil)
}

func (c *Client) RejectExpense(ctx context.Context, id uuid.UUID, reason string) (*Expense, error) {
	return c.transition(ctx, id, "reject", map[string]string{"reason": reason})
}

func (c *Client) ReimburseExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return c.transition(ctx, id, "reimburse", nil)
}

func (c *Client) transition(ctx context.Context, id uuid.UUID, action string, body any) (*Expense, error) {
	var e Expense
	path := "/expenses/" + id.String() + "/" + action
	if err := c.do(ctx, http.MethodPost, path, body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) Analytics(ctx context.Context, dateRange string) (*Summary, error) {
	path := "/expenses/analytics"
	if dateRange != "" {
		path += "?range=" + dateRange
	}
	var summary Summary
	if err := c.do(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
