package services

import (
	"testing"
	"time"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
	"pocketbook/internal/testutil"
)

func newGoalFixture(t *testing.T) (GoalServicer, *models.User) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	gw := gateway.New(db)
	categoryService := NewCategoryService(gw)
	goalService := NewGoalService(gw, categoryService)

	user := testutil.CreateTestUser(t, db)
	return goalService, user
}

func TestCreateGoalValidation(t *testing.T) {
	svc, user := newGoalFixture(t)
	date := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateGoal(user.ID, "", nil, 100000, date, "")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)

	_, err = svc.CreateGoal(user.ID, "Vacation", nil, 0, date, "")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)

	_, err = svc.CreateGoal(user.ID, "Vacation", nil, 100000, time.Time{}, "")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)

	unknown := "00000000-0000-0000-0000-000000000000"
	_, err = svc.CreateGoal(user.ID, "Vacation", &unknown, 100000, date, "")
	testutil.AssertAppError(t, err, apperrors.ErrCategoryNotFound.Code)

	goal, err := svc.CreateGoal(user.ID, "Vacation", nil, 100000, date, "two weeks off")
	testutil.AssertNoError(t, err)
	if goal.Status != models.GoalStatusActive {
		t.Errorf("expected new goal to be active, got %s", goal.Status)
	}
	if goal.CurrentAmount != 0 {
		t.Errorf("expected new goal to start at zero, got %d", goal.CurrentAmount)
	}
}

func TestFundAndWithdrawGoal(t *testing.T) {
	svc, user := newGoalFixture(t)
	date := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	goal, err := svc.CreateGoal(user.ID, "Vacation", nil, 100000, date, "")
	testutil.AssertNoError(t, err)

	funded, err := svc.FundGoal(user.ID, goal.ID, 40000)
	testutil.AssertNoError(t, err)
	if funded.CurrentAmount != 40000 {
		t.Errorf("expected current amount 40000, got %d", funded.CurrentAmount)
	}

	withdrawn, err := svc.WithdrawGoal(user.ID, goal.ID, 15000)
	testutil.AssertNoError(t, err)
	if withdrawn.CurrentAmount != 25000 {
		t.Errorf("expected current amount 25000, got %d", withdrawn.CurrentAmount)
	}

	_, err = svc.WithdrawGoal(user.ID, goal.ID, 30000)
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)

	_, err = svc.FundGoal(user.ID, goal.ID, -5)
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
}

func TestFundingPastTargetDoesNotComplete(t *testing.T) {
	svc, user := newGoalFixture(t)
	date := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	goal, err := svc.CreateGoal(user.ID, "Vacation", nil, 100000, date, "")
	testutil.AssertNoError(t, err)

	funded, err := svc.FundGoal(user.ID, goal.ID, 150000)
	testutil.AssertNoError(t, err)
	if funded.CurrentAmount != 150000 {
		t.Errorf("expected current amount 150000, got %d", funded.CurrentAmount)
	}
	if funded.Status != models.GoalStatusActive {
		t.Errorf("reaching the target must not change status, got %s", funded.Status)
	}

	status := models.GoalStatusCompleted
	updated, err := svc.UpdateGoal(user.ID, goal.ID, GoalPatch{Status: &status})
	testutil.AssertNoError(t, err)
	if updated.Status != models.GoalStatusCompleted {
		t.Errorf("expected explicit status change to stick, got %s", updated.Status)
	}
}

func TestGoalsOrderedByDeadline(t *testing.T) {
	svc, user := newGoalFixture(t)

	later, err := svc.CreateGoal(user.ID, "Car", nil, 500000,
		time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), "")
	testutil.AssertNoError(t, err)
	sooner, err := svc.CreateGoal(user.ID, "Vacation", nil, 100000,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "")
	testutil.AssertNoError(t, err)

	goals, err := svc.GetUserGoals(user.ID)
	testutil.AssertNoError(t, err)
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].ID != sooner.ID || goals[1].ID != later.ID {
		t.Error("expected goals ordered by nearest target date first")
	}
}

func TestGoalScopedToOwner(t *testing.T) {
	svc, user := newGoalFixture(t)

	goal, err := svc.CreateGoal(user.ID, "Vacation", nil, 100000,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "")
	testutil.AssertNoError(t, err)

	_, err = svc.GetGoalByID("other-user", goal.ID)
	testutil.AssertAppError(t, err, apperrors.ErrGoalNotFound.Code)
}
