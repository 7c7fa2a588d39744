package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmynk/expenses/internal/models"
	"github.com/mmynk/expenses/pkg/api"
)

var coffee = models.ExpenseData{Description: "Coffee", Amount: 3.5, Date: models.MustDate("2024-01-01")}

func TestHTTPClient_Create(t *testing.T) {
	var got api.ExpensePayload
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/expenses" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.CreateExpenseResponse{ID: "42"})
	}))
	defer server.Close()

	id, err := NewHTTP(server.URL+"/", "tok").Create(context.Background(), coffee)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id != "42" {
		t.Errorf("expected id 42, got %s", id)
	}
	if got.Description != "Coffee" || got.Amount != 3.5 || got.Date != "2024-01-01" {
		t.Errorf("unexpected payload: %+v", got)
	}
	if auth != "Bearer tok" {
		t.Errorf("expected bearer header, got %q", auth)
	}
}

func TestHTTPClient_UpdateAndDeletePaths(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.EscapedPath())
		if r.Header.Get("Authorization") != "" {
			t.Error("expected no Authorization header without a token")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTP(server.URL, "")
	if err := client.Update(context.Background(), "a/b", coffee); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := client.Delete(context.Background(), "42"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	want := []string{"PUT /expenses/a%2Fb", "DELETE /expenses/42"}
	for i := range want {
		if i >= len(calls) || calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %v", i, want[i], calls)
		}
	}
}

func TestHTTPClient_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(api.ErrorResponse{Error: "boom"})
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "not found without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "create without id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewHTTP(server.URL, "").Create(context.Background(), coffee)
			var remoteErr *RemoteError
			if !errors.As(err, &remoteErr) {
				t.Fatalf("expected *RemoteError, got %v", err)
			}
			if remoteErr.Op != "create" {
				t.Errorf("expected op create, got %s", remoteErr.Op)
			}
			if remoteErr.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, remoteErr.Status)
			}
		})
	}
}

func TestHTTPClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewHTTP(url, "").Delete(context.Background(), "42")
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected *RemoteError, got %v", err)
	}
	if remoteErr.Status != 0 {
		t.Errorf("expected no status for transport error, got %d", remoteErr.Status)
	}
}

func TestHTTPClient_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewHTTP(server.URL, "").Update(ctx, "42", coffee)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHTTPClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.ListExpensesResponse{Expenses: []api.Expense{
			{ID: "1", Description: "Coffee", Amount: 3.5, Date: "2024-01-01"},
			{ID: "2", Description: "Tea", Amount: 4, Date: "2024-01-02"},
		}})
	}))
	defer server.Close()

	list, err := NewHTTP(server.URL, "").List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[1].ID != "2" || models.FormatDate(list[1].Date) != "2024-01-02" {
		t.Errorf("unexpected list: %+v", list)
	}
}
