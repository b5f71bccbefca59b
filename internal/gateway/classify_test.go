package gateway

import (
	"testing"
	"time"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/testutil"
)

func TestClassifyNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	gw := New(db)
	_, err := gw.Accounts.First("00000000-0000-0000-0000-000000000000")
	testutil.AssertAppError(t, err, apperrors.ErrNotFound.Code)
}

func TestClassifyUniqueViolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)
	month := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestBudget(t, db, user.ID, cat.ID, 10000, month)

	gw := New(db)
	dup := &models.Budget{
		UserID:      user.ID,
		CategoryID:  cat.ID,
		LimitAmount: 20000,
		Month:       month,
		Period:      models.BudgetPeriodMonthly,
	}
	err := gw.Budgets.Insert(dup)
	testutil.AssertAppError(t, err, apperrors.ErrConflict.Code)
	if !IsConflict(err) {
		t.Error("expected IsConflict to report true")
	}
}

func TestClassifyForeignKeyViolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)
	cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, cat.ID,
		models.TransactionKindExpense, 1000, time.Now())

	gw := New(db)
	err := gw.Categories.Delete(cat.ID)
	testutil.AssertAppError(t, err, apperrors.ErrForeignKeyViolation.Code)
	if !IsForeignKeyViolation(err) {
		t.Error("expected IsForeignKeyViolation to report true")
	}
}

func TestUpdateReturnsFreshRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 5000)

	gw := New(db)
	updated, err := gw.Accounts.Update(account.ID, map[string]any{"name": "Renamed"})
	testutil.AssertNoError(t, err)
	if updated.Name != "Renamed" {
		t.Errorf("expected name Renamed, got %s", updated.Name)
	}
	if updated.Balance != 5000 {
		t.Errorf("expected untouched balance 5000, got %d", updated.Balance)
	}
}
