package services

import (
	"time"

	"gorm.io/gorm"

	"pocketbook/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, fullName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	FindOrCreateGoogleUser(sub, email, fullName string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountPatch holds optional fields for a partial account update.
// Balance is deliberately absent: it is derived state owned by the
// transaction service.
type AccountPatch struct {
	Name  *string
	Kind  *models.AccountKind
	Icon  *string
	Color *string
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, kind models.AccountKind, initialBalance int64, icon, color string) (*models.Account, error)
	GetUserAccounts(userID string) ([]models.Account, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, patch AccountPatch) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	// ApplyDelta shifts an account balance inside an enclosing database
	// transaction. Only the transaction service calls this.
	ApplyDelta(tx *gorm.DB, accountID string, delta int64) error
}

// CategoryPatch holds optional fields for a partial category update.
type CategoryPatch struct {
	Name  *string
	Icon  *string
	Color *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, kind models.CategoryKind, icon, color string) (*models.Category, error)
	GetUserCategories(userID string) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionPatch holds optional fields for a partial transaction update.
type TransactionPatch struct {
	AccountID       *string
	CategoryID      *string
	Kind            *models.TransactionKind
	Amount          *int64
	Description     *string
	TransactionDate *time.Time
}

// TransactionServicer defines the contract for transaction-related business
// logic. Every mutation adjusts the affected account balances within the same
// database transaction that writes the row; callers never compute balance
// deltas themselves.
type TransactionServicer interface {
	CreateTransaction(userID, accountID, categoryID string, kind models.TransactionKind, amount int64, description string, date time.Time) (*models.Transaction, error)
	CreateTransfer(userID, fromAccountID, toAccountID, categoryID string, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetPatch holds optional fields for a partial budget update.
type BudgetPatch struct {
	LimitAmount *int64
	Period      *models.BudgetPeriod
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, limitAmount int64, month time.Time, period models.BudgetPeriod) (*models.Budget, error)
	GetUserBudgets(userID string) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, patch BudgetPatch) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
}

// GoalPatch holds optional fields for a partial goal update. Status moves
// only through here; nothing transitions a goal automatically.
type GoalPatch struct {
	Name         *string
	CategoryID   *string
	TargetAmount *int64
	TargetDate   *time.Time
	Description  *string
	Status       *models.GoalStatus
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID, name string, categoryID *string, targetAmount int64, targetDate time.Time, description string) (*models.Goal, error)
	GetUserGoals(userID string) ([]models.Goal, error)
	GetGoalByID(userID, goalID string) (*models.Goal, error)
	UpdateGoal(userID, goalID string, patch GoalPatch) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
	// FundGoal and WithdrawGoal patch current_amount directly. Fund movements
	// are not ledgered as transactions and never touch an account balance.
	FundGoal(userID, goalID string, amount int64) (*models.Goal, error)
	WithdrawGoal(userID, goalID string, amount int64) (*models.Goal, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
