package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/mmynk/expenses/internal/middleware"
	"github.com/mmynk/expenses/internal/models"
	"github.com/mmynk/expenses/internal/storage"
	"github.com/mmynk/expenses/pkg/api"
)

// ExpenseService serves the /expenses collection.
type ExpenseService struct {
	store   storage.Store
	metrics *middleware.Metrics
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
// metrics may be nil.
func NewExpenseService(store storage.Store, metrics *middleware.Metrics) *ExpenseService {
	return &ExpenseService{store: store, metrics: metrics}
}

// Register mounts the expense routes on r.
func (s *ExpenseService) Register(r *mux.Router) {
	r.HandleFunc(api.ExpensesPath, s.ListExpenses).Methods(http.MethodGet)
	r.HandleFunc(api.ExpensesPath, s.CreateExpense).Methods(http.MethodPost)
	r.HandleFunc(api.ExpensesPath+"/{id}", s.GetExpense).Methods(http.MethodGet)
	r.HandleFunc(api.ExpensesPath+"/{id}", s.UpdateExpense).Methods(http.MethodPut)
	r.HandleFunc(api.ExpensesPath+"/{id}", s.DeleteExpense).Methods(http.MethodDelete)
}

// ListExpenses returns every stored expense, newest first.
func (s *ExpenseService) ListExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListExpenses(r.Context())
	if err != nil {
		slog.Error("ListExpenses failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to list expenses"))
		return
	}

	resp := api.ListExpensesResponse{Expenses: make([]api.Expense, len(list))}
	for i, e := range list {
		resp.Expenses[i] = api.NewExpense(*e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateExpense stores a new expense and responds with its assigned ID.
func (s *ExpenseService) CreateExpense(w http.ResponseWriter, r *http.Request) {
	data, ok := readPayload(w, r)
	if !ok {
		return
	}

	expense := data.WithID("")
	if err := s.store.CreateExpense(r.Context(), &expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to create expense"))
		return
	}

	s.mutation("create")
	slog.Debug("Expense created", "id", expense.ID, "amount", expense.Amount)
	writeJSON(w, http.StatusCreated, api.CreateExpenseResponse{ID: expense.ID})
}

// GetExpense returns a single expense.
func (s *ExpenseService) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := expenseID(r)

	expense, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		s.storeError(w, "GetExpense", id, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewExpense(*expense))
}

// UpdateExpense replaces the fields of an existing expense.
func (s *ExpenseService) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := expenseID(r)

	data, ok := readPayload(w, r)
	if !ok {
		return
	}

	expense := data.WithID(id)
	if err := s.store.UpdateExpense(r.Context(), &expense); err != nil {
		s.storeError(w, "UpdateExpense", id, err)
		return
	}

	s.mutation("update")
	writeJSON(w, http.StatusOK, api.NewExpense(expense))
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := expenseID(r)

	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		s.storeError(w, "DeleteExpense", id, err)
		return
	}

	s.mutation("delete")
	w.WriteHeader(http.StatusNoContent)
}

func readPayload(w http.ResponseWriter, r *http.Request) (models.ExpenseData, bool) {
	var payload api.ExpensePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return models.ExpenseData{}, false
	}
	data, err := payload.Data()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return models.ExpenseData{}, false
	}
	return data, true
}

// expenseID returns the decoded {id} path variable. The router matches on
// the escaped path, so mux.Vars holds the escaped form.
func expenseID(r *http.Request) string {
	id := mux.Vars(r)["id"]
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}

func (s *ExpenseService) storeError(w http.ResponseWriter, op, id string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, storage.ErrNotFound)
		return
	}
	slog.Error(op+" failed", "id", id, "error", err)
	writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to %s", op))
}

func (s *ExpenseService) mutation(op string) {
	if s.metrics != nil {
		s.metrics.Mutation(op)
	}
}
