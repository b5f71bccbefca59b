package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
	"pocketbook/internal/testutil"
)

func newCategoryFixture(t *testing.T) (CategoryServicer, *gorm.DB, *models.User) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	gw := gateway.New(db)
	user := testutil.CreateTestUser(t, db)
	return NewCategoryService(gw), db, user
}

func TestGetUserCategoriesIncludesDefaults(t *testing.T) {
	svc, db, user := newCategoryFixture(t)

	def := testutil.CreateDefaultCategory(t, db, models.CategoryKindExpense)
	own := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestCategory(t, db, other.ID, models.CategoryKindExpense)

	categories, err := svc.GetUserCategories(user.ID)
	testutil.AssertNoError(t, err)
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories (default + own), got %d", len(categories))
	}
	// Defaults sort first.
	if categories[0].ID != def.ID {
		t.Errorf("expected default category first, got %s", categories[0].Name)
	}
	if categories[1].ID != own.ID {
		t.Errorf("expected own category second, got %s", categories[1].Name)
	}
}

func TestDefaultCategoryVisibleButImmutable(t *testing.T) {
	svc, db, user := newCategoryFixture(t)
	def := testutil.CreateDefaultCategory(t, db, models.CategoryKindExpense)

	got, err := svc.GetCategoryByID(user.ID, def.ID)
	testutil.AssertNoError(t, err)
	if !got.IsDefault {
		t.Error("expected default category to be visible to any user")
	}

	name := "Renamed"
	_, err = svc.UpdateCategory(user.ID, def.ID, CategoryPatch{Name: &name})
	testutil.AssertAppError(t, err, apperrors.ErrDefaultCategory.Code)

	err = svc.DeleteCategory(user.ID, def.ID)
	testutil.AssertAppError(t, err, apperrors.ErrDefaultCategory.Code)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	svc, _, user := newCategoryFixture(t)

	_, err := svc.CreateCategory(user.ID, "Groceries", models.CategoryKindExpense, "", "#EF4444")
	testutil.AssertNoError(t, err)

	_, err = svc.CreateCategory(user.ID, "Groceries", models.CategoryKindExpense, "", "#F97316")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
}

func TestDeleteCategoryInUse(t *testing.T) {
	svc, db, user := newCategoryFixture(t)

	account := testutil.CreateTestAccount(t, db, user.ID)
	cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, cat.ID,
		models.TransactionKindExpense, 1000, time.Now())

	err := svc.DeleteCategory(user.ID, cat.ID)
	testutil.AssertAppError(t, err, apperrors.ErrCategoryInUse.Code)

	// Still present after the failed delete.
	_, err = svc.GetCategoryByID(user.ID, cat.ID)
	testutil.AssertNoError(t, err)
}

func TestDeleteUnusedCategory(t *testing.T) {
	svc, db, user := newCategoryFixture(t)
	cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)

	testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

	_, err := svc.GetCategoryByID(user.ID, cat.ID)
	testutil.AssertAppError(t, err, apperrors.ErrCategoryNotFound.Code)
}

func TestCategoriesScopedToOwner(t *testing.T) {
	svc, db, user := newCategoryFixture(t)
	cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)

	_, err := svc.GetCategoryByID("other-user", cat.ID)
	testutil.AssertAppError(t, err, apperrors.ErrCategoryNotFound.Code)
}
