// Package store keeps a per-user in-memory snapshot of the user's financial
// data. Reads are served from the snapshot; every mutation goes through the
// service layer first and only then touches the cache, so the snapshot never
// reflects a write the database rejected.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pocketbook/internal/logger"
	"pocketbook/internal/models"
	"pocketbook/internal/services"
)

// FinanceStore caches one user's accounts, categories, transactions, budgets,
// and goals. It is safe for concurrent use.
type FinanceStore struct {
	userID string

	accountService     services.AccountServicer
	categoryService    services.CategoryServicer
	transactionService services.TransactionServicer
	budgetService      services.BudgetServicer
	goalService        services.GoalServicer

	mu           sync.RWMutex
	accounts     []models.Account
	categories   []models.Category
	transactions []models.Transaction
	budgets      []models.Budget
	goals        []models.Goal
	fetched      bool

	listeners []func()
}

// New creates a store for one user.
func New(userID string, accounts services.AccountServicer, categories services.CategoryServicer, transactions services.TransactionServicer, budgets services.BudgetServicer, goals services.GoalServicer) *FinanceStore {
	return &FinanceStore{
		userID:             userID,
		accountService:     accounts,
		categoryService:    categories,
		transactionService: transactions,
		budgetService:      budgets,
		goalService:        goals,
	}
}

// Subscribe registers a callback invoked after every cache change.
func (s *FinanceStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *FinanceStore) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// RefreshAll reloads all five collections and swaps them in atomically. If
// any fetch fails the cache is left exactly as it was.
func (s *FinanceStore) RefreshAll(ctx context.Context) error {
	var (
		accounts     []models.Account
		categories   []models.Category
		transactions []models.Transaction
		budgets      []models.Budget
		goals        []models.Goal
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountService.GetUserAccounts(s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryService.GetUserCategories(s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactionService.GetUserTransactions(s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgetService.GetUserBudgets(s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.goalService.GetUserGoals(s.userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.accounts = accounts
	s.categories = categories
	s.transactions = transactions
	s.budgets = budgets
	s.goals = goals
	s.fetched = true
	s.mu.Unlock()

	s.notify()
	return nil
}

// ensureFetched loads the cache on first use.
func (s *FinanceStore) ensureFetched(ctx context.Context) error {
	s.mu.RLock()
	fetched := s.fetched
	s.mu.RUnlock()
	if fetched {
		return nil
	}
	return s.RefreshAll(ctx)
}

// Snapshot is a point-in-time copy of the cached collections.
type Snapshot struct {
	Accounts     []models.Account
	Categories   []models.Category
	Transactions []models.Transaction
	Budgets      []models.Budget
	Goals        []models.Goal
}

// Snapshot returns copies of all cached collections, fetching on first use.
func (s *FinanceStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{
		Accounts:     append([]models.Account(nil), s.accounts...),
		Categories:   append([]models.Category(nil), s.categories...),
		Transactions: append([]models.Transaction(nil), s.transactions...),
		Budgets:      append([]models.Budget(nil), s.budgets...),
		Goals:        append([]models.Goal(nil), s.goals...),
	}, nil
}

// Accounts returns the cached accounts, fetching on first use.
func (s *FinanceStore) Accounts(ctx context.Context) ([]models.Account, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Account(nil), s.accounts...), nil
}

// Categories returns the cached categories, fetching on first use.
func (s *FinanceStore) Categories(ctx context.Context) ([]models.Category, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...), nil
}

// Transactions returns the cached transactions, fetching on first use.
func (s *FinanceStore) Transactions(ctx context.Context) ([]models.Transaction, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transaction(nil), s.transactions...), nil
}

// Budgets returns the cached budgets, fetching on first use.
func (s *FinanceStore) Budgets(ctx context.Context) ([]models.Budget, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Budget(nil), s.budgets...), nil
}

// Goals returns the cached goals, fetching on first use.
func (s *FinanceStore) Goals(ctx context.Context) ([]models.Goal, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Goal(nil), s.goals...), nil
}

// --- Accounts ---

// AddAccount creates an account and merges it into the cache.
func (s *FinanceStore) AddAccount(ctx context.Context, name string, kind models.AccountKind, initialBalance int64, icon, color string) (*models.Account, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	account, err := s.accountService.CreateAccount(s.userID, name, kind, initialBalance, icon, color)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.accounts = append(s.accounts, *account)
	sortAccounts(s.accounts)
	s.mu.Unlock()
	s.notify()
	return account, nil
}

// UpdateAccount updates an account and merges the result into the cache.
func (s *FinanceStore) UpdateAccount(ctx context.Context, accountID string, patch services.AccountPatch) (*models.Account, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	account, err := s.accountService.UpdateAccount(s.userID, accountID, patch)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	replaceAccount(s.accounts, *account)
	s.mu.Unlock()
	s.notify()
	return account, nil
}

// DeleteAccount deletes an account. Its transactions go with it, so both
// collections are pruned from the cache.
func (s *FinanceStore) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.ensureFetched(ctx); err != nil {
		return err
	}
	if err := s.accountService.DeleteAccount(s.userID, accountID); err != nil {
		return err
	}
	s.mu.Lock()
	s.accounts = removeAccount(s.accounts, accountID)
	kept := s.transactions[:0]
	for _, t := range s.transactions {
		if t.AccountID == accountID {
			continue
		}
		if t.ToAccountID != nil && *t.ToAccountID == accountID {
			continue
		}
		kept = append(kept, t)
	}
	s.transactions = kept
	s.mu.Unlock()
	s.notify()
	return nil
}

// --- Categories ---

// AddCategory creates a category and merges it into the cache.
func (s *FinanceStore) AddCategory(ctx context.Context, name string, kind models.CategoryKind, icon, color string) (*models.Category, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	category, err := s.categoryService.CreateCategory(s.userID, name, kind, icon, color)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.categories = append(s.categories, *category)
	sortCategories(s.categories)
	s.mu.Unlock()
	s.notify()
	return category, nil
}

// UpdateCategory updates a category and merges the result into the cache.
func (s *FinanceStore) UpdateCategory(ctx context.Context, categoryID string, patch services.CategoryPatch) (*models.Category, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	category, err := s.categoryService.UpdateCategory(s.userID, categoryID, patch)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for i := range s.categories {
		if s.categories[i].ID == category.ID {
			s.categories[i] = *category
			break
		}
	}
	sortCategories(s.categories)
	s.mu.Unlock()
	s.notify()
	return category, nil
}

// DeleteCategory deletes a category. When the delete is rejected because
// transactions still reference it, the cache keeps the category. A committed
// delete also cascades to the category's budgets and detaches goals that
// pointed at it, matching what the database does to the referencing rows.
func (s *FinanceStore) DeleteCategory(ctx context.Context, categoryID string) error {
	if err := s.ensureFetched(ctx); err != nil {
		return err
	}
	if err := s.categoryService.DeleteCategory(s.userID, categoryID); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			break
		}
	}
	kept := s.budgets[:0]
	for _, b := range s.budgets {
		if b.CategoryID == categoryID {
			continue
		}
		kept = append(kept, b)
	}
	s.budgets = kept
	for i := range s.goals {
		if s.goals[i].CategoryID != nil && *s.goals[i].CategoryID == categoryID {
			s.goals[i].CategoryID = nil
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// --- Transactions ---
//
// Every transaction mutation shifts account balances inside the service
// layer, so the cheapest correct cache policy is a full refresh: the
// snapshot then reflects the authoritative balances rather than a local
// guess. Once the write has committed it is reported as a success even if
// the follow-up refresh fails; refreshAfterWrite keeps the cache honest.

// refreshAfterWrite reloads the cache after a committed write. If the reload
// fails the stale cache is dropped instead, so the next read refetches rather
// than serving balances from before the write.
func (s *FinanceStore) refreshAfterWrite(ctx context.Context) {
	err := s.RefreshAll(ctx)
	if err == nil {
		return
	}
	logger.Get().Warnw("cache refresh after committed write failed, dropping cache",
		"user_id", s.userID, "error", err)
	s.mu.Lock()
	s.accounts = nil
	s.categories = nil
	s.transactions = nil
	s.budgets = nil
	s.goals = nil
	s.fetched = false
	s.mu.Unlock()
}

// AddTransaction creates an income or expense transaction and refreshes the
// cache.
func (s *FinanceStore) AddTransaction(ctx context.Context, accountID, categoryID string, kind models.TransactionKind, amount int64, description string, date time.Time) (*models.Transaction, error) {
	transaction, err := s.transactionService.CreateTransaction(s.userID, accountID, categoryID, kind, amount, description, date)
	if err != nil {
		return nil, err
	}
	s.refreshAfterWrite(ctx)
	return transaction, nil
}

// AddTransfer creates a transfer between two accounts and refreshes the cache.
func (s *FinanceStore) AddTransfer(ctx context.Context, fromAccountID, toAccountID, categoryID string, amount int64, description string, date time.Time) (*models.Transaction, error) {
	transaction, err := s.transactionService.CreateTransfer(s.userID, fromAccountID, toAccountID, categoryID, amount, description, date)
	if err != nil {
		return nil, err
	}
	s.refreshAfterWrite(ctx)
	return transaction, nil
}

// UpdateTransaction updates a transaction and refreshes the cache.
func (s *FinanceStore) UpdateTransaction(ctx context.Context, transactionID string, patch services.TransactionPatch) (*models.Transaction, error) {
	transaction, err := s.transactionService.UpdateTransaction(s.userID, transactionID, patch)
	if err != nil {
		return nil, err
	}
	s.refreshAfterWrite(ctx)
	return transaction, nil
}

// DeleteTransaction deletes a transaction and refreshes the cache.
func (s *FinanceStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.transactionService.DeleteTransaction(s.userID, transactionID); err != nil {
		return err
	}
	s.refreshAfterWrite(ctx)
	return nil
}

// --- Budgets ---

// AddBudget creates a budget and merges it into the cache.
func (s *FinanceStore) AddBudget(ctx context.Context, categoryID string, limitAmount int64, month time.Time, period models.BudgetPeriod) (*models.Budget, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	budget, err := s.budgetService.CreateBudget(s.userID, categoryID, limitAmount, month, period)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.budgets = append(s.budgets, *budget)
	sortBudgets(s.budgets)
	s.mu.Unlock()
	s.notify()
	return budget, nil
}

// UpdateBudget updates a budget and merges the result into the cache.
func (s *FinanceStore) UpdateBudget(ctx context.Context, budgetID string, patch services.BudgetPatch) (*models.Budget, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	budget, err := s.budgetService.UpdateBudget(s.userID, budgetID, patch)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for i := range s.budgets {
		if s.budgets[i].ID == budget.ID {
			s.budgets[i] = *budget
			break
		}
	}
	s.mu.Unlock()
	s.notify()
	return budget, nil
}

// DeleteBudget deletes a budget and removes it from the cache.
func (s *FinanceStore) DeleteBudget(ctx context.Context, budgetID string) error {
	if err := s.ensureFetched(ctx); err != nil {
		return err
	}
	if err := s.budgetService.DeleteBudget(s.userID, budgetID); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.budgets {
		if s.budgets[i].ID == budgetID {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// --- Goals ---

// AddGoal creates a goal and merges it into the cache.
func (s *FinanceStore) AddGoal(ctx context.Context, name string, categoryID *string, targetAmount int64, targetDate time.Time, description string) (*models.Goal, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	goal, err := s.goalService.CreateGoal(s.userID, name, categoryID, targetAmount, targetDate, description)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.goals = append(s.goals, *goal)
	sortGoals(s.goals)
	s.mu.Unlock()
	s.notify()
	return goal, nil
}

// UpdateGoal updates a goal and merges the result into the cache.
func (s *FinanceStore) UpdateGoal(ctx context.Context, goalID string, patch services.GoalPatch) (*models.Goal, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	goal, err := s.goalService.UpdateGoal(s.userID, goalID, patch)
	if err != nil {
		return nil, err
	}
	s.mergeGoal(goal)
	return goal, nil
}

// DeleteGoal deletes a goal and removes it from the cache.
func (s *FinanceStore) DeleteGoal(ctx context.Context, goalID string) error {
	if err := s.ensureFetched(ctx); err != nil {
		return err
	}
	if err := s.goalService.DeleteGoal(s.userID, goalID); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.goals {
		if s.goals[i].ID == goalID {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// FundGoal adds to a goal's saved amount. Accounts and transactions are
// untouched, so only the goal entry changes in the cache.
func (s *FinanceStore) FundGoal(ctx context.Context, goalID string, amount int64) (*models.Goal, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	goal, err := s.goalService.FundGoal(s.userID, goalID, amount)
	if err != nil {
		return nil, err
	}
	s.mergeGoal(goal)
	return goal, nil
}

// WithdrawGoal removes from a goal's saved amount.
func (s *FinanceStore) WithdrawGoal(ctx context.Context, goalID string, amount int64) (*models.Goal, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}
	goal, err := s.goalService.WithdrawGoal(s.userID, goalID, amount)
	if err != nil {
		return nil, err
	}
	s.mergeGoal(goal)
	return goal, nil
}

func (s *FinanceStore) mergeGoal(goal *models.Goal) {
	s.mu.Lock()
	for i := range s.goals {
		if s.goals[i].ID == goal.ID {
			s.goals[i] = *goal
			break
		}
	}
	sortGoals(s.goals)
	s.mu.Unlock()
	s.notify()
}

// sortBudgets matches the service ordering: most recent month first, id
// breaking ties.
func sortBudgets(budgets []models.Budget) {
	sort.SliceStable(budgets, func(i, j int) bool {
		if !budgets[i].Month.Equal(budgets[j].Month) {
			return budgets[i].Month.After(budgets[j].Month)
		}
		return budgets[i].ID < budgets[j].ID
	})
}

// sortGoals matches the service ordering: nearest deadline first, id
// breaking ties.
func sortGoals(goals []models.Goal) {
	sort.SliceStable(goals, func(i, j int) bool {
		if !goals[i].TargetDate.Equal(goals[j].TargetDate) {
			return goals[i].TargetDate.Before(goals[j].TargetDate)
		}
		return goals[i].ID < goals[j].ID
	})
}

// sortAccounts matches the service ordering: newest first, id breaking ties.
func sortAccounts(accounts []models.Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
		}
		return accounts[i].ID < accounts[j].ID
	})
}

// sortCategories matches the service ordering: defaults first, then kind,
// then name, id breaking ties.
func sortCategories(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].IsDefault != categories[j].IsDefault {
			return categories[i].IsDefault
		}
		if categories[i].Kind != categories[j].Kind {
			return categories[i].Kind < categories[j].Kind
		}
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})
}

func replaceAccount(accounts []models.Account, account models.Account) {
	for i := range accounts {
		if accounts[i].ID == account.ID {
			accounts[i] = account
			return
		}
	}
}

func removeAccount(accounts []models.Account, accountID string) []models.Account {
	for i := range accounts {
		if accounts[i].ID == accountID {
			return append(accounts[:i], accounts[i+1:]...)
		}
	}
	return accounts
}
