package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmynk/expenses/internal/models"
	"github.com/mmynk/expenses/pkg/api"
)

// HTTPClient talks to the expense service over JSON/HTTP.
type HTTPClient struct {
	Base  string
	Token string
	HTTP  *http.Client
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Lister = (*HTTPClient)(nil)
)

// NewHTTP creates a client for the service at base, e.g. "http://localhost:8080".
// The default http.Client has no timeout.
func NewHTTP(base, token string) *HTTPClient {
	return &HTTPClient{
		Base:  strings.TrimRight(base, "/"),
		Token: token,
		HTTP:  http.DefaultClient,
	}
}

func (c *HTTPClient) Create(ctx context.Context, data models.ExpenseData) (string, error) {
	var out api.CreateExpenseResponse
	if err := c.do(ctx, "create", http.MethodPost, api.ExpensesPath, api.NewExpensePayload(data), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &RemoteError{Op: "create", Err: errors.New("response carried no id")}
	}
	return out.ID, nil
}

func (c *HTTPClient) Update(ctx context.Context, id string, data models.ExpenseData) error {
	return c.do(ctx, "update", http.MethodPut, api.ExpensePath(url.PathEscape(id)), api.NewExpensePayload(data), nil)
}

func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, api.ExpensePath(url.PathEscape(id)), nil, nil)
}

func (c *HTTPClient) List(ctx context.Context) ([]models.Expense, error) {
	var out api.ListExpensesResponse
	if err := c.do(ctx, "list", http.MethodGet, api.ExpensesPath, nil, &out); err != nil {
		return nil, err
	}
	list := make([]models.Expense, 0, len(out.Expenses))
	for _, e := range out.Expenses {
		m, err := e.Model()
		if err != nil {
			return nil, &RemoteError{Op: "list", Err: err}
		}
		list = append(list, m)
	}
	return list, nil
}

// RequestToken exchanges the service password for a bearer token.
func (c *HTTPClient) RequestToken(ctx context.Context, password string) (api.TokenResponse, error) {
	var out api.TokenResponse
	err := c.do(ctx, "token", http.MethodPost, api.TokenPath, api.TokenRequest{Password: password}, &out)
	return out, err
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return &RemoteError{Op: op, Err: err}
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return &RemoteError{Op: op, Status: resp.StatusCode, Err: readError(resp)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

func readError(resp *http.Response) error {
	var e api.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e); err == nil && e.Error != "" {
		return errors.New(e.Error)
	}
	return errors.New(resp.Status)
}
