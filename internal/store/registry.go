package store

import (
	"sync"

	"pocketbook/internal/services"
	"pocketbook/internal/session"
)

// Registry hands out one FinanceStore per user and drops a user's store when
// their session ends, so a later sign-in starts from a clean fetch.
type Registry struct {
	accountService     services.AccountServicer
	categoryService    services.CategoryServicer
	transactionService services.TransactionServicer
	budgetService      services.BudgetServicer
	goalService        services.GoalServicer

	mu     sync.Mutex
	stores map[string]*FinanceStore
}

// NewRegistry creates a registry backed by the given services.
func NewRegistry(accounts services.AccountServicer, categories services.CategoryServicer, transactions services.TransactionServicer, budgets services.BudgetServicer, goals services.GoalServicer) *Registry {
	return &Registry{
		accountService:     accounts,
		categoryService:    categories,
		transactionService: transactions,
		budgetService:      budgets,
		goalService:        goals,
		stores:             make(map[string]*FinanceStore),
	}
}

// Get returns the user's store, creating it on first use.
func (r *Registry) Get(userID string) *FinanceStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[userID]; ok {
		return s
	}
	s := New(userID, r.accountService, r.categoryService, r.transactionService, r.budgetService, r.goalService)
	r.stores[userID] = s
	return s
}

// Drop discards the user's cached store.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, userID)
}

// Attach subscribes the registry to session changes: sign-out drops the
// user's cache.
func (r *Registry) Attach(hub *session.Hub) {
	hub.Subscribe(func(event session.Event) {
		if event.Type == session.EventSignedOut {
			r.Drop(event.UserID)
		}
	})
}
