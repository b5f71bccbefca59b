// Package session owns user identity: credential and Google sign-in, token
// issuance and rotation, and change notifications that let per-user caches
// drop state when a user signs out.
package session

import (
	"context"
	"sync"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/middleware"
	"pocketbook/internal/models"
	"pocketbook/internal/services"
)

// EventType identifies a session change.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event describes a session change for subscribers.
type Event struct {
	Type   EventType
	UserID string
}

// Session is an authenticated session: the user plus a fresh token pair.
type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// Hub coordinates sign-in, sign-out, and token refresh, and fans session
// changes out to subscribers.
type Hub struct {
	userService    services.UserServicer
	googleVerifier GoogleVerifier

	mu        sync.RWMutex
	listeners []func(Event)
}

// NewHub creates a session hub. googleVerifier may be nil, in which case
// Google sign-in is unavailable.
func NewHub(userService services.UserServicer, googleVerifier GoogleVerifier) *Hub {
	return &Hub{userService: userService, googleVerifier: googleVerifier}
}

// Subscribe registers a callback invoked on every session change. Callbacks
// run synchronously on the goroutine that triggered the change.
func (h *Hub) Subscribe(fn func(Event)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

func (h *Hub) notify(event Event) {
	h.mu.RLock()
	listeners := make([]func(Event), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.RUnlock()
	for _, fn := range listeners {
		fn(event)
	}
}

// issue generates a token pair for the user and persists the refresh hash.
func (h *Hub) issue(user *models.User) (*Session, error) {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refreshToken)); err != nil {
		return nil, err
	}
	return &Session{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// SignUp registers a new user with email and password.
func (h *Hub) SignUp(email, password, fullName string) (*models.User, error) {
	return h.userService.CreateUser(email, password, fullName)
}

// SignIn authenticates with email and password and starts a session.
func (h *Hub) SignIn(email, password string) (*Session, error) {
	user, err := h.userService.AttemptLogin(email, password)
	if err != nil {
		return nil, err
	}
	session, err := h.issue(user)
	if err != nil {
		return nil, err
	}
	h.notify(Event{Type: EventSignedIn, UserID: user.ID})
	return session, nil
}

// SignInWithGoogle verifies a Google ID token, finds or creates the matching
// user, and starts a session.
func (h *Hub) SignInWithGoogle(ctx context.Context, idToken string) (*Session, error) {
	if h.googleVerifier == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidGoogleToken, "Google sign-in is not configured")
	}
	claims, err := h.googleVerifier.Verify(ctx, idToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidGoogleToken, err)
	}
	user, err := h.userService.FindOrCreateGoogleUser(claims.Sub, claims.Email, claims.Name)
	if err != nil {
		return nil, err
	}
	session, err := h.issue(user)
	if err != nil {
		return nil, err
	}
	h.notify(Event{Type: EventSignedIn, UserID: user.ID})
	return session, nil
}

// Refresh validates a refresh token against the stored hash and rotates the
// token pair. A token that does not match the stored hash has been revoked or
// superseded.
func (h *Hub) Refresh(refreshToken string) (*Session, error) {
	claims, err := middleware.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil {
		return nil, err
	}
	if storedHash == "" || storedHash != middleware.HashToken(refreshToken) {
		return nil, apperrors.ErrInvalidToken
	}
	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return h.issue(user)
}

// SignOut revokes the user's refresh token and notifies subscribers. The
// revocation write must succeed; a failed sign-out leaves the session alive
// and is reported to the caller.
func (h *Hub) SignOut(userID string) error {
	if err := h.userService.StoreRefreshTokenHash(userID, ""); err != nil {
		return err
	}
	h.notify(Event{Type: EventSignedOut, UserID: userID})
	return nil
}

// Restore resolves the user for a previously issued session. It never
// returns an error: a stale or unknown identity yields nil and a log line,
// so callers always proceed to a definite signed-in or signed-out state.
func (h *Hub) Restore(userID string) *models.User {
	if userID == "" {
		return nil
	}
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		logger.Get().Warnw("session restore failed", "user_id", userID, "error", err)
		return nil
	}
	if !user.IsActive {
		return nil
	}
	return user
}
