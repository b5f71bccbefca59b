package services

import (
	"errors"
	"time"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	gw              *gateway.Gateway
	categoryService CategoryServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(gw *gateway.Gateway, categoryService CategoryServicer) BudgetServicer {
	return &budgetService{gw: gw, categoryService: categoryService}
}

// MonthKey normalizes a date to the first of its month in UTC, which is the
// value stored in the month column and used by the uniqueness constraint.
func MonthKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CreateBudget creates a budget for an expense category in a given month.
// A second budget for the same (user, category, month) trips the database's
// uniqueness constraint, which is classified as DUPLICATE_BUDGET.
func (s *budgetService) CreateBudget(userID, categoryID string, limitAmount int64, month time.Time, period models.BudgetPeriod) (*models.Budget, error) {
	if limitAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit amount must be greater than zero")
	}
	if period == "" {
		period = models.BudgetPeriodMonthly
	}

	category, err := s.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Kind != models.CategoryKindExpense {
		return nil, apperrors.ErrBudgetNeedsExpense
	}

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  category.ID,
		LimitAmount: limitAmount,
		Month:       MonthKey(month),
		Period:      period,
	}
	if err := s.gw.Budgets.Insert(budget); err != nil {
		if gateway.IsConflict(err) {
			return nil, apperrors.Wrap(apperrors.ErrDuplicateBudget, err)
		}
		return nil, err
	}
	return budget, nil
}

// GetUserBudgets returns all budgets for the user, most recent month first.
func (s *budgetService) GetUserBudgets(userID string) ([]models.Budget, error) {
	return s.gw.Budgets.List(gateway.Query{
		Eq:      map[string]any{"user_id": userID},
		OrderBy: "month",
		Desc:    true,
	})
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	budget, err := s.gw.Budgets.FirstWhere(map[string]any{"id": budgetID, "user_id": userID})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNotFound.Code {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// UpdateBudget updates an existing budget's limit or period. Category and
// month are fixed; create a new budget instead.
func (s *budgetService) UpdateBudget(userID, budgetID string, patch BudgetPatch) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if patch.LimitAmount != nil {
		if *patch.LimitAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit amount must be greater than zero")
		}
		updates["limit_amount"] = *patch.LimitAmount
	}
	if patch.Period != nil {
		updates["period"] = *patch.Period
	}
	if len(updates) == 0 {
		return budget, nil
	}

	return s.gw.Budgets.Update(budget.ID, updates)
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}
	return s.gw.Budgets.Delete(budget.ID)
}
