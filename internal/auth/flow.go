package auth

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/nav"
	"go.uber.org/zap"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgPasswordTooShort   = "Password must be at least 6 characters long"
	MsgRegistered         = "Registration successful! Redirecting..."
	MsgRegisterFailed     = "Registration failed. Email may already be in use."
)

const (
	MinPasswordLength = 6
	RedirectDelay     = 1500 * time.Millisecond
)

var ErrBusy = errors.New("auth: request already in progress")

// ValidationError is a local form check that failed before any request
// was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Error is a failed login or registration request. Message is the text
// shown to the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Authenticator is the user API.
type Authenticator interface {
	Login(ctx context.Context, creds clients.Credentials) (*clients.User, error)
	Register(ctx context.Context, req clients.RegisterRequest) (*clients.User, error)
}

// Scheduler runs fn after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

type RegistrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate applies the local password rules. A mismatch is reported before
// a short password.
func (f RegistrationForm) Validate() error {
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Message: MsgPasswordMismatch}
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		return &ValidationError{Message: MsgPasswordTooShort}
	}
	return nil
}

// View is a consistent read of the flow for rendering.
type View struct {
	Loading bool
	Error   string
	Success string
}

type Flow struct {
	users   Authenticator
	session *Session
	nav     nav.Navigator
	sched   Scheduler
	logger  *zap.Logger

	mu      sync.Mutex
	loading bool
	errMsg  string
	success string
}

// NewFlow wires the flow. A nil sched uses real timers.
func NewFlow(users Authenticator, session *Session, n nav.Navigator, sched Scheduler, logger *zap.Logger) *Flow {
	if sched == nil {
		sched = timerScheduler{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{users: users, session: session, nav: n, sched: sched, logger: logger.Named("auth")}
}

func (f *Flow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return ErrBusy
	}
	f.loading = true
	f.errMsg = ""
	f.success = ""
	return nil
}

func (f *Flow) finish(errMsg, success string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.errMsg = errMsg
	f.success = success
}

// Login signs in and returns to the catalog. Any failure is reported as
// invalid credentials; the backend's reason is only logged.
func (f *Flow) Login(ctx context.Context, email, password string) error {
	if err := f.begin(); err != nil {
		return err
	}

	u, err := f.users.Login(ctx, clients.Credentials{Email: email, Password: password})
	if err != nil {
		f.logger.Warn("login failed", zap.Int("status", clients.StatusCode(err)), zap.Error(err))
		f.finish(MsgInvalidCredentials, "")
		return &Error{Message: MsgInvalidCredentials, Err: err}
	}

	f.session.Set(*u)
	f.finish("", "")
	f.logger.Info("signed in", zap.Int64("user_id", u.ID))
	f.navigate(nav.RouteCatalog)
	return nil
}

// Register checks the form locally, creates the account, signs in and
// returns to the catalog after RedirectDelay.
func (f *Flow) Register(ctx context.Context, form RegistrationForm) error {
	if err := form.Validate(); err != nil {
		f.mu.Lock()
		f.errMsg = err.Error()
		f.success = ""
		f.mu.Unlock()
		return err
	}
	if err := f.begin(); err != nil {
		return err
	}

	u, err := f.users.Register(ctx, clients.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		msg := clients.ServerMessage(err)
		if msg == "" {
			msg = MsgRegisterFailed
		}
		f.logger.Warn("registration failed", zap.Int("status", clients.StatusCode(err)), zap.Error(err))
		f.finish(msg, "")
		return &Error{Message: msg, Err: err}
	}

	f.session.Set(*u)
	f.finish("", MsgRegistered)
	f.logger.Info("registered", zap.Int64("user_id", u.ID))
	f.sched.AfterFunc(RedirectDelay, func() { f.navigate(nav.RouteCatalog) })
	return nil
}

// Logout clears the session.
func (f *Flow) Logout() {
	f.session.Clear()
	f.finish("", "")
	f.navigate(nav.RouteCatalog)
}

func (f *Flow) navigate(to nav.Route) {
	if f.nav != nil {
		f.nav.Navigate(to)
	}
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{Loading: f.loading, Error: f.errMsg, Success: f.success}
}
