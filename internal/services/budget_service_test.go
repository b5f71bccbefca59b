package services

import (
	"testing"
	"time"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
	"pocketbook/internal/testutil"
)

func newBudgetFixture(t *testing.T) (BudgetServicer, *models.User, *models.Category, *models.Category) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	gw := gateway.New(db)
	categoryService := NewCategoryService(gw)
	budgetService := NewBudgetService(gw, categoryService)

	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindIncome)

	return budgetService, user, expense, income
}

func TestMonthKeyNormalizes(t *testing.T) {
	key := MonthKey(time.Date(2025, time.June, 17, 14, 30, 0, 0, time.FixedZone("X", 3600)))
	want := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	if !key.Equal(want) {
		t.Errorf("expected %v, got %v", want, key)
	}
}

func TestCreateBudgetNormalizesMonth(t *testing.T) {
	svc, user, expense, _ := newBudgetFixture(t)

	budget, err := svc.CreateBudget(user.ID, expense.ID, 50000,
		time.Date(2025, time.June, 17, 9, 0, 0, 0, time.UTC), "")
	testutil.AssertNoError(t, err)

	if !budget.Month.Equal(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected month normalized to first of month, got %v", budget.Month)
	}
	if budget.Period != models.BudgetPeriodMonthly {
		t.Errorf("expected default period monthly, got %s", budget.Period)
	}
}

func TestCreateBudgetRejectsDuplicateMonth(t *testing.T) {
	svc, user, expense, _ := newBudgetFixture(t)

	month := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateBudget(user.ID, expense.ID, 50000, month, models.BudgetPeriodMonthly)
	testutil.AssertNoError(t, err)

	// Different day, same month.
	_, err = svc.CreateBudget(user.ID, expense.ID, 80000,
		time.Date(2025, time.June, 25, 0, 0, 0, 0, time.UTC), models.BudgetPeriodMonthly)
	testutil.AssertAppError(t, err, apperrors.ErrDuplicateBudget.Code)

	// A different month is fine.
	_, err = svc.CreateBudget(user.ID, expense.ID, 50000,
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), models.BudgetPeriodMonthly)
	testutil.AssertNoError(t, err)
}

func TestCreateBudgetRejectsNonExpenseCategory(t *testing.T) {
	svc, user, _, income := newBudgetFixture(t)

	_, err := svc.CreateBudget(user.ID, income.ID, 50000,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), models.BudgetPeriodMonthly)
	testutil.AssertAppError(t, err, apperrors.ErrBudgetNeedsExpense.Code)
}

func TestCreateBudgetRejectsNonPositiveLimit(t *testing.T) {
	svc, user, expense, _ := newBudgetFixture(t)

	_, err := svc.CreateBudget(user.ID, expense.ID, 0,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), models.BudgetPeriodMonthly)
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
}

func TestUpdateBudgetOnlyLimitAndPeriod(t *testing.T) {
	svc, user, expense, _ := newBudgetFixture(t)

	budget, err := svc.CreateBudget(user.ID, expense.ID, 50000,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), models.BudgetPeriodMonthly)
	testutil.AssertNoError(t, err)

	newLimit := int64(75000)
	updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetPatch{LimitAmount: &newLimit})
	testutil.AssertNoError(t, err)
	if updated.LimitAmount != 75000 {
		t.Errorf("expected limit 75000, got %d", updated.LimitAmount)
	}
	if !updated.Month.Equal(budget.Month) {
		t.Errorf("month must not change on update, got %v", updated.Month)
	}
	if updated.CategoryID != budget.CategoryID {
		t.Error("category must not change on update")
	}
}

func TestBudgetScopedToOwner(t *testing.T) {
	svc, user, expense, _ := newBudgetFixture(t)

	budget, err := svc.CreateBudget(user.ID, expense.ID, 50000,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), models.BudgetPeriodMonthly)
	testutil.AssertNoError(t, err)

	_, err = svc.GetBudgetByID("other-user", budget.ID)
	testutil.AssertAppError(t, err, apperrors.ErrBudgetNotFound.Code)
}
