package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestTransactionFlowMovesBalances(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "alice@example.com", "password123")

	accountID := app.createAccount(t, access, "Checking", "card", "1000.00")
	incomeID := app.createCategory(t, access, "Salary", "income")
	expenseID := app.createCategory(t, access, "Groceries", "expense")

	// Income: +500.00
	body := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"kind":"income","amount":"500.00","description":"salary"}`,
		accountID, incomeID)
	rec := app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income failed: %d %s", rec.Code, rec.Body.String())
	}

	// Expense: -125.50
	body = fmt.Sprintf(`{"account_id":%q,"category_id":%q,"kind":"expense","amount":"125.50","description":"weekly shop"}`,
		accountID, expenseID)
	rec = app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}

	if balance := app.accountBalance(t, access, accountID); balance != 137450 {
		t.Errorf("expected balance 137450 cents, got %d", balance)
	}
}

func TestTransactionKindMismatchRejected(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "bob@example.com", "password123")

	accountID := app.createAccount(t, access, "Wallet", "wallet", "")
	incomeID := app.createCategory(t, access, "Salary", "income")

	body := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"kind":"expense","amount":"10.00"}`,
		accountID, incomeID)
	rec := app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "CATEGORY_KIND_MISMATCH" {
		t.Errorf("expected CATEGORY_KIND_MISMATCH, got %s", code)
	}
}

func TestTransferFlow(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "carol@example.com", "password123")

	fromID := app.createAccount(t, access, "Checking", "card", "300.00")
	toID := app.createAccount(t, access, "Savings", "savings", "50.00")
	catID := app.createCategory(t, access, "Transfers", "expense")

	body := fmt.Sprintf(`{"from_account_id":%q,"to_account_id":%q,"category_id":%q,"amount":"100.00"}`,
		fromID, toID, catID)
	rec := app.request("POST", "/api/v1/transactions/transfer", body, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("transfer failed: %d %s", rec.Code, rec.Body.String())
	}

	if balance := app.accountBalance(t, access, fromID); balance != 20000 {
		t.Errorf("expected source balance 20000, got %d", balance)
	}
	if balance := app.accountBalance(t, access, toID); balance != 15000 {
		t.Errorf("expected destination balance 15000, got %d", balance)
	}

	// Transfer to the same account is rejected.
	body = fmt.Sprintf(`{"from_account_id":%q,"to_account_id":%q,"category_id":%q,"amount":"10.00"}`,
		fromID, fromID, catID)
	rec = app.request("POST", "/api/v1/transactions/transfer", body, access)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for same-account transfer, got %d", rec.Code)
	}
}

func TestDeleteTransactionReversesBalance(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "dave@example.com", "password123")

	accountID := app.createAccount(t, access, "Checking", "card", "200.00")
	expenseID := app.createCategory(t, access, "Dining", "expense")

	body := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"kind":"expense","amount":"75.00"}`,
		accountID, expenseID)
	rec := app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	transaction := parseJSON(t, rec)["transaction"].(map[string]interface{})
	transactionID := transaction["id"].(string)

	if balance := app.accountBalance(t, access, accountID); balance != 12500 {
		t.Errorf("expected balance 12500 after expense, got %d", balance)
	}

	rec = app.request("DELETE", "/api/v1/transactions/"+transactionID, "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}

	if balance := app.accountBalance(t, access, accountID); balance != 20000 {
		t.Errorf("expected balance restored to 20000, got %d", balance)
	}
}

func TestCategoryDeleteBlockedWhileInUse(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "eve@example.com", "password123")

	accountID := app.createAccount(t, access, "Checking", "card", "100.00")
	categoryID := app.createCategory(t, access, "Dining", "expense")

	body := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"kind":"expense","amount":"20.00"}`,
		accountID, categoryID)
	rec := app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	transaction := parseJSON(t, rec)["transaction"].(map[string]interface{})
	transactionID := transaction["id"].(string)

	rec = app.request("DELETE", "/api/v1/categories/"+categoryID, "", access)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for in-use category, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "CATEGORY_IN_USE" {
		t.Errorf("expected CATEGORY_IN_USE, got %s", code)
	}

	// After removing the transaction the delete succeeds.
	rec = app.request("DELETE", "/api/v1/transactions/"+transactionID, "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete transaction failed: %d", rec.Code)
	}
	rec = app.request("DELETE", "/api/v1/categories/"+categoryID, "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected category delete to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransactionsInvisibleToOtherUsers(t *testing.T) {
	app := setupApp(t)
	alice, _, _ := app.registerUser(t, "alice2@example.com", "password123")
	mallory, _, _ := app.registerUser(t, "mallory@example.com", "password123")

	accountID := app.createAccount(t, alice, "Checking", "card", "100.00")
	categoryID := app.createCategory(t, alice, "Dining", "expense")

	body := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"kind":"expense","amount":"20.00"}`,
		accountID, categoryID)
	rec := app.request("POST", "/api/v1/transactions", body, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d", rec.Code)
	}
	transaction := parseJSON(t, rec)["transaction"].(map[string]interface{})
	transactionID := transaction["id"].(string)

	rec = app.request("GET", "/api/v1/transactions/"+transactionID, "", mallory)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's transaction, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/accounts/"+accountID, "", mallory)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's account, got %d", rec.Code)
	}
}
