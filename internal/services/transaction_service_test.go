package services

import (
	"testing"
	"time"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
	"pocketbook/internal/testutil"
)

func newTransactionFixture(t *testing.T) (TransactionServicer, AccountServicer, *models.User, *models.Account, *models.Category, *models.Category) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	gw := gateway.New(db)
	accountService := NewAccountService(gw)
	categoryService := NewCategoryService(gw)
	transactionService := NewTransactionService(gw, accountService, categoryService)

	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindIncome)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)

	return transactionService, accountService, user, account, income, expense
}

func TestCreateTransactionMovesBalance(t *testing.T) {
	svc, accounts, user, account, income, expense := newTransactionFixture(t)

	_, err := svc.CreateTransaction(user.ID, account.ID, income.ID,
		models.TransactionKindIncome, 50000, "salary", time.Now())
	testutil.AssertNoError(t, err)

	_, err = svc.CreateTransaction(user.ID, account.ID, expense.ID,
		models.TransactionKindExpense, 20000, "groceries", time.Now())
	testutil.AssertNoError(t, err)

	fresh, err := accounts.GetAccountByID(user.ID, account.ID)
	testutil.AssertNoError(t, err)
	if fresh.Balance != 130000 {
		t.Errorf("expected balance 130000, got %d", fresh.Balance)
	}
}

func TestCreateTransactionRejectsKindMismatch(t *testing.T) {
	svc, _, user, account, income, _ := newTransactionFixture(t)

	_, err := svc.CreateTransaction(user.ID, account.ID, income.ID,
		models.TransactionKindExpense, 1000, "", time.Now())
	testutil.AssertAppError(t, err, apperrors.ErrCategoryKindClash.Code)
}

func TestCreateTransactionRejectsNonPositiveAmount(t *testing.T) {
	svc, _, user, account, _, expense := newTransactionFixture(t)

	_, err := svc.CreateTransaction(user.ID, account.ID, expense.ID,
		models.TransactionKindExpense, 0, "", time.Now())
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
}

func TestCreateTransferMovesBothBalances(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	gw := gateway.New(db)
	accountService := NewAccountService(gw)
	categoryService := NewCategoryService(gw)
	svc := NewTransactionService(gw, accountService, categoryService)

	user := testutil.CreateTestUser(t, db)
	from := testutil.CreateTestAccountWithBalance(t, db, user.ID, 50000)
	to := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
	cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)

	transfer, err := svc.CreateTransfer(user.ID, from.ID, to.ID, cat.ID, 20000, "move", time.Now())
	testutil.AssertNoError(t, err)
	if transfer.Kind != models.TransactionKindTransfer {
		t.Errorf("expected transfer kind, got %s", transfer.Kind)
	}

	freshFrom, _ := accountService.GetAccountByID(user.ID, from.ID)
	freshTo, _ := accountService.GetAccountByID(user.ID, to.ID)
	if freshFrom.Balance != 30000 {
		t.Errorf("expected source balance 30000, got %d", freshFrom.Balance)
	}
	if freshTo.Balance != 30000 {
		t.Errorf("expected destination balance 30000, got %d", freshTo.Balance)
	}
}

func TestCreateTransferRejectsSameAccount(t *testing.T) {
	svc, _, user, account, _, expense := newTransactionFixture(t)

	_, err := svc.CreateTransfer(user.ID, account.ID, account.ID, expense.ID, 1000, "", time.Now())
	testutil.AssertAppError(t, err, apperrors.ErrSameAccountTransfer.Code)
}

func TestUpdateTransactionRebalances(t *testing.T) {
	svc, accounts, user, account, _, expense := newTransactionFixture(t)

	created, err := svc.CreateTransaction(user.ID, account.ID, expense.ID,
		models.TransactionKindExpense, 10000, "dinner", time.Now())
	testutil.AssertNoError(t, err)

	newAmount := int64(25000)
	_, err = svc.UpdateTransaction(user.ID, created.ID, TransactionPatch{Amount: &newAmount})
	testutil.AssertNoError(t, err)

	fresh, _ := accounts.GetAccountByID(user.ID, account.ID)
	if fresh.Balance != 75000 {
		t.Errorf("expected balance 75000 after rebalance, got %d", fresh.Balance)
	}
}

func TestDeleteTransactionReversesBalance(t *testing.T) {
	svc, accounts, user, account, _, expense := newTransactionFixture(t)

	created, err := svc.CreateTransaction(user.ID, account.ID, expense.ID,
		models.TransactionKindExpense, 10000, "", time.Now())
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, created.ID))

	fresh, _ := accounts.GetAccountByID(user.ID, account.ID)
	if fresh.Balance != 100000 {
		t.Errorf("expected balance restored to 100000, got %d", fresh.Balance)
	}

	_, err = svc.GetTransactionByID(user.ID, created.ID)
	testutil.AssertAppError(t, err, apperrors.ErrTransactionNotFound.Code)
}

func TestTransactionsScopedToOwner(t *testing.T) {
	svc, _, user, account, _, expense := newTransactionFixture(t)

	created, err := svc.CreateTransaction(user.ID, account.ID, expense.ID,
		models.TransactionKindExpense, 1000, "", time.Now())
	testutil.AssertNoError(t, err)

	_, err = svc.GetTransactionByID("other-user", created.ID)
	testutil.AssertAppError(t, err, apperrors.ErrTransactionNotFound.Code)
}
