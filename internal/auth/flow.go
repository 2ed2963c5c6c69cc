// package auth drives the email + one-time-code login state machine
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/session"
	"github.com/desertthunder/alchemist/internal/shared"
)

// Phase is the client's position in the login state machine.
type Phase int

const (
	LoggedOut Phase = iota
	CodeRequested
	LoggedIn
)

func (p Phase) String() string {
	switch p {
	case LoggedOut:
		return "logged_out"
	case CodeRequested:
		return "code_requested"
	case LoggedIn:
		return "logged_in"
	default:
		return ""
	}
}

// Backend is the slice of the typed client the flow depends on.
type Backend interface {
	RequestCode(ctx context.Context, email string) (*models.CodeRequest, error)
	VerifyCode(ctx context.Context, email, code string) (*models.TokenGrant, error)
}

// Library is the cache surface the flow clears on logout and refreshes after
// verification.
type Library interface {
	Refresh(ctx context.Context) error
	AddTrack(ctx context.Context, sub models.TrackSubmission) error
	Clear()
}

// Playback is reset whenever the session ends.
type Playback interface {
	Reset()
}

// Flow owns the authentication phase and the transitions between phases.
//
// State machine: LoggedOut -> CodeRequested -> LoggedIn, with a return edge
// to LoggedOut on logout or on any unauthorized backend result. A failed
// verification stays in CodeRequested; the user may resubmit the code or
// request a fresh one (expiry and rate limiting are the backend's contract).
type Flow struct {
	mu        sync.Mutex
	phase     Phase
	email     string
	detail    string
	debugCode string

	client   Backend
	sessions session.Store
	library  Library
	playback Playback
	logger   *log.Logger
}

// NewFlow creates a Flow whose initial phase is computed from the session
// store: LoggedIn if a token survived the last process, else LoggedOut.
func NewFlow(client Backend, sessions session.Store, library Library, playback Playback, logger *log.Logger) *Flow {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	phase := LoggedOut
	if _, held := sessions.Token(); held {
		phase = LoggedIn
	}

	return &Flow{
		phase:    phase,
		client:   client,
		sessions: sessions,
		library:  library,
		playback: playback,
		logger:   logger,
	}
}

// Phase returns the current authentication phase.
func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// PendingEmail returns the email a code was last requested for.
func (f *Flow) PendingEmail() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Detail returns the backend's human-readable confirmation for the last
// code request.
func (f *Flow) Detail() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detail
}

// DebugCode returns the development-mode plaintext code, if the backend
// provided one. Displayed only; never parsed as a credential.
func (f *Flow) DebugCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.debugCode
}

// RequestCode asks the backend to email a login code. On success the flow
// moves to CodeRequested; on failure the phase is unchanged and the error is
// surfaced for a manual retry. Resubmitting from CodeRequested is allowed.
func (f *Flow) RequestCode(ctx context.Context, email string) (*models.CodeRequest, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}

	resp, err := f.client.RequestCode(ctx, email)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.phase = CodeRequested
	f.email = email
	f.detail = resp.Detail
	f.debugCode = resp.DebugCode
	f.mu.Unlock()

	f.logger.Info("login code requested", "email", email)
	return resp, nil
}

// VerifyCode exchanges the emailed code for a session token.
//
// On success the token is stored, the flow moves to LoggedIn, and one
// library refresh runs before VerifyCode returns, so the caller never
// observes LoggedIn with a stale library view. A transient refresh failure
// surfaces while staying LoggedIn; an unauthorized one downgrades. On
// verification failure the flow stays in CodeRequested.
func (f *Flow) VerifyCode(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", shared.ErrValidation)
	}

	grant, err := f.client.VerifyCode(ctx, email, code)
	if err != nil {
		return err
	}

	if err := f.sessions.Set(grant.AccessToken); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	f.mu.Lock()
	f.phase = LoggedIn
	f.debugCode = ""
	f.mu.Unlock()

	f.logger.Info("logged in", "email", email)
	return f.Refresh(ctx)
}

// Logout clears the session, library and playback state from any phase.
// Idempotent.
func (f *Flow) Logout() error {
	return f.teardown()
}

// Refresh runs a library refresh, downgrading the session if the backend
// rejects the token.
func (f *Flow) Refresh(ctx context.Context) error {
	err := f.library.Refresh(ctx)
	if errors.Is(err, shared.ErrUnauthorized) {
		f.downgrade()
	}
	return err
}

// AddTrack submits a track through the cache, downgrading the session if the
// backend rejects the token.
func (f *Flow) AddTrack(ctx context.Context, sub models.TrackSubmission) error {
	err := f.library.AddTrack(ctx, sub)
	if errors.Is(err, shared.ErrUnauthorized) {
		f.downgrade()
	}
	return err
}

// downgrade performs the logout transition without a user action. This is
// the single mechanism keeping client-perceived session state consistent
// with backend authority.
func (f *Flow) downgrade() {
	f.logger.Warn("session rejected by backend, logging out")
	if err := f.teardown(); err != nil {
		f.logger.Error("failed to clear session", "err", err)
	}
}

func (f *Flow) teardown() error {
	err := f.sessions.Clear()

	f.library.Clear()
	f.playback.Reset()

	f.mu.Lock()
	f.phase = LoggedOut
	f.email = ""
	f.detail = ""
	f.debugCode = ""
	f.mu.Unlock()

	return err
}
