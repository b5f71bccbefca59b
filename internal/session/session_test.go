package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/middleware"
	"pocketbook/internal/models"
	"pocketbook/internal/services"
	"pocketbook/internal/testutil"
)

type fakeVerifier struct {
	claims *GoogleClaims
	err    error
}

func (f *fakeVerifier) Verify(ctx context.Context, idToken string) (*GoogleClaims, error) {
	return f.claims, f.err
}

func newHubFixture(t *testing.T, verifier GoogleVerifier) (*Hub, services.UserServicer, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	userService := services.NewUserService(db)
	return NewHub(userService, verifier), userService, db
}

func TestSignInStoresRefreshHash(t *testing.T) {
	hub, userService, _ := newHubFixture(t, nil)

	user, err := hub.SignUp("alice@example.com", "password123", "Alice")
	testutil.AssertNoError(t, err)

	session, err := hub.SignIn("alice@example.com", "password123")
	testutil.AssertNoError(t, err)
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}

	hash, err := userService.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != middleware.HashToken(session.RefreshToken) {
		t.Error("expected stored hash to match the issued refresh token")
	}
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	hub, userService, _ := newHubFixture(t, nil)

	user, err := hub.SignUp("bob@example.com", "password123", "Bob")
	testutil.AssertNoError(t, err)
	session, err := hub.SignIn("bob@example.com", "password123")
	testutil.AssertNoError(t, err)

	// Claim timestamps have second granularity; without the wait the rotated
	// token would be byte-identical to the old one.
	time.Sleep(1100 * time.Millisecond)

	rotated, err := hub.Refresh(session.RefreshToken)
	testutil.AssertNoError(t, err)
	if rotated.RefreshToken == session.RefreshToken {
		t.Fatal("expected a new refresh token")
	}

	hash, err := userService.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != middleware.HashToken(rotated.RefreshToken) {
		t.Error("expected stored hash replaced by the rotated token's hash")
	}

	// The superseded token no longer matches the stored hash.
	_, err = hub.Refresh(session.RefreshToken)
	testutil.AssertAppError(t, err, apperrors.ErrInvalidToken.Code)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	hub, _, _ := newHubFixture(t, nil)

	_, err := hub.Refresh("not-a-jwt")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidToken.Code)
}

func TestSignOutRevokesRefreshToken(t *testing.T) {
	hub, _, _ := newHubFixture(t, nil)

	user, err := hub.SignUp("carol@example.com", "password123", "Carol")
	testutil.AssertNoError(t, err)
	session, err := hub.SignIn("carol@example.com", "password123")
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, hub.SignOut(user.ID))

	_, err = hub.Refresh(session.RefreshToken)
	testutil.AssertAppError(t, err, apperrors.ErrInvalidToken.Code)
}

func TestSignInWithGoogle(t *testing.T) {
	verifier := &fakeVerifier{claims: &GoogleClaims{Sub: "sub-1", Email: "dave@example.com", Name: "Dave"}}
	hub, userService, _ := newHubFixture(t, verifier)

	session, err := hub.SignInWithGoogle(context.Background(), "id-token")
	testutil.AssertNoError(t, err)
	if session.User.Email != "dave@example.com" {
		t.Errorf("unexpected user email %s", session.User.Email)
	}

	found, err := userService.GetUserByEmail("dave@example.com")
	testutil.AssertNoError(t, err)
	if found.GoogleSub != "sub-1" {
		t.Errorf("expected google sub persisted, got %q", found.GoogleSub)
	}
}

func TestSignInWithGoogleRejectsBadToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("aud mismatch")}
	hub, _, _ := newHubFixture(t, verifier)

	_, err := hub.SignInWithGoogle(context.Background(), "id-token")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidGoogleToken.Code)
}

func TestSignInWithGoogleUnconfigured(t *testing.T) {
	hub, _, _ := newHubFixture(t, nil)

	_, err := hub.SignInWithGoogle(context.Background(), "id-token")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidGoogleToken.Code)
}

func TestRestoreNeverErrors(t *testing.T) {
	hub, _, db := newHubFixture(t, nil)

	user, err := hub.SignUp("eve@example.com", "password123", "Eve")
	testutil.AssertNoError(t, err)

	if got := hub.Restore(user.ID); got == nil || got.ID != user.ID {
		t.Error("expected restore to resolve a known active user")
	}
	if got := hub.Restore(""); got != nil {
		t.Error("expected nil for empty identity")
	}
	if got := hub.Restore("00000000-0000-0000-0000-000000000000"); got != nil {
		t.Error("expected nil for unknown identity")
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}
	if got := hub.Restore(user.ID); got != nil {
		t.Error("expected nil for deactivated user")
	}
}

func TestSessionEvents(t *testing.T) {
	hub, _, _ := newHubFixture(t, nil)

	user, err := hub.SignUp("frank@example.com", "password123", "Frank")
	testutil.AssertNoError(t, err)

	var events []Event
	hub.Subscribe(func(e Event) { events = append(events, e) })

	_, err = hub.SignIn("frank@example.com", "password123")
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, hub.SignOut(user.ID))

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventSignedIn || events[0].UserID != user.ID {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].Type != EventSignedOut || events[1].UserID != user.ID {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}
