package controller

import (
	"context"
	"log/slog"
	"strings"

	"mobox/internal/repository"
	"mobox/internal/session"
)

// LoginState is the login screen's published state.
type LoginState struct {
	Email          string `json:"email"`
	Password       string `json:"-"`
	EmailError     string `json:"email_error,omitempty"`
	PasswordError  string `json:"password_error,omitempty"`
	IsLoading      bool   `json:"is_loading"`
	LoginError     string `json:"login_error,omitempty"`
	IsLoginEnabled bool   `json:"is_login_enabled"`
}

// LoginController validates the form locally, then checks the stored
// credential token by exact equality. The equality compare is a placeholder
// for a real password hash verification (see DESIGN.md).
type LoginController struct {
	repo    repository.AppRepository
	session *session.Session
	logger  *slog.Logger
	state   *stateValue[LoginState]
}

func NewLoginController(repo repository.AppRepository, sess *session.Session, logger *slog.Logger) *LoginController {
	return &LoginController{
		repo:    repo,
		session: sess,
		logger:  logger,
		state:   newStateValue(LoginState{}),
	}
}

func (c *LoginController) State() LoginState {
	return c.state.get()
}

func (c *LoginController) Watch(ctx context.Context) <-chan LoginState {
	return c.state.watch(ctx)
}

func (c *LoginController) OnEmailChange(email string) {
	c.state.update(func(s LoginState) LoginState {
		s.Email = email
		s.EmailError = ""
		s.LoginError = ""
		s.IsLoginEnabled = loginEnabled(email, s.Password)
		return s
	})
}

func (c *LoginController) OnPasswordChange(password string) {
	c.state.update(func(s LoginState) LoginState {
		s.Password = password
		s.PasswordError = ""
		s.LoginError = ""
		s.IsLoginEnabled = loginEnabled(s.Email, password)
		return s
	})
}

func loginEnabled(email, password string) bool {
	return strings.TrimSpace(email) != "" && strings.TrimSpace(password) != ""
}

// Submit validates the form, then looks the user up and compares credentials.
// On success the process-wide session is set and true is returned. Every
// failure lands in the published state; Submit never returns an error.
func (c *LoginController) Submit(ctx context.Context) bool {
	if !c.validate() {
		return false
	}

	c.state.update(func(s LoginState) LoginState {
		s.IsLoading = true
		s.LoginError = ""
		return s
	})

	current := c.state.get()
	user, err := c.repo.GetUserByEmail(ctx, strings.TrimSpace(current.Email))
	if err != nil {
		c.logger.Error("login lookup failed", "error", err)
		c.state.update(func(s LoginState) LoginState {
			s.IsLoading = false
			s.LoginError = ErrConnection
			return s
		})
		return false
	}

	// Plain equality against the stored token. Placeholder, not a hash check.
	if user == nil || user.PasswordHash != current.Password {
		c.state.update(func(s LoginState) LoginState {
			s.IsLoading = false
			s.LoginError = msgBadCredentials
			return s
		})
		return false
	}

	c.session.Set(user)
	c.logger.Info("login succeeded", "user", user.Name)
	c.state.update(func(s LoginState) LoginState {
		s.IsLoading = false
		return s
	})
	return true
}

func (c *LoginController) validate() bool {
	current := c.state.get()
	emailErr := validateLoginEmail(current.Email)
	passwordErr := validateLoginPassword(current.Password)

	c.state.update(func(s LoginState) LoginState {
		s.EmailError = emailErr
		s.PasswordError = passwordErr
		return s
	})

	return emailErr == "" && passwordErr == ""
}

func (c *LoginController) ClearErrors() {
	c.state.update(func(s LoginState) LoginState {
		s.EmailError = ""
		s.PasswordError = ""
		s.LoginError = ""
		return s
	})
}
