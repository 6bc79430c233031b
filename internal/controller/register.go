package controller

import (
	"context"
	"log/slog"
	"strings"

	"mobox/internal/models"
	"mobox/internal/repository"
)

// RegisterState is the registration screen's published state.
type RegisterState struct {
	Name            string `json:"name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"-"`
	ConfirmPassword string `json:"-"`

	NameError            string `json:"name_error,omitempty"`
	LastNameError        string `json:"last_name_error,omitempty"`
	EmailError           string `json:"email_error,omitempty"`
	PasswordError        string `json:"password_error,omitempty"`
	ConfirmPasswordError string `json:"confirm_password_error,omitempty"`

	IsLoading         bool   `json:"is_loading"`
	RegisterError     string `json:"register_error,omitempty"`
	IsRegisterEnabled bool   `json:"is_register_enabled"`
}

type RegisterController struct {
	repo   repository.AppRepository
	logger *slog.Logger
	state  *stateValue[RegisterState]
}

func NewRegisterController(repo repository.AppRepository, logger *slog.Logger) *RegisterController {
	return &RegisterController{
		repo:   repo,
		logger: logger,
		state:  newStateValue(RegisterState{}),
	}
}

func (c *RegisterController) State() RegisterState {
	return c.state.get()
}

func (c *RegisterController) Watch(ctx context.Context) <-chan RegisterState {
	return c.state.watch(ctx)
}

func (c *RegisterController) OnNameChange(name string) {
	c.state.update(func(s RegisterState) RegisterState {
		s.Name = name
		s.NameError = ""
		s.RegisterError = ""
		return recomputeEnabled(s)
	})
}

func (c *RegisterController) OnLastNameChange(lastName string) {
	c.state.update(func(s RegisterState) RegisterState {
		s.LastName = lastName
		s.LastNameError = ""
		s.RegisterError = ""
		return recomputeEnabled(s)
	})
}

func (c *RegisterController) OnEmailChange(email string) {
	c.state.update(func(s RegisterState) RegisterState {
		s.Email = email
		s.EmailError = ""
		s.RegisterError = ""
		return recomputeEnabled(s)
	})
}

func (c *RegisterController) OnPasswordChange(password string) {
	c.state.update(func(s RegisterState) RegisterState {
		s.Password = password
		s.PasswordError = ""
		s.RegisterError = ""
		// surface the mismatch early once a confirmation has been typed
		if s.ConfirmPassword != "" && password != s.ConfirmPassword {
			s.ConfirmPasswordError = msgPasswordsMismatch
		} else {
			s.ConfirmPasswordError = ""
		}
		return recomputeEnabled(s)
	})
}

func (c *RegisterController) OnConfirmPasswordChange(confirmPassword string) {
	c.state.update(func(s RegisterState) RegisterState {
		s.ConfirmPassword = confirmPassword
		s.ConfirmPasswordError = ""
		s.RegisterError = ""
		return recomputeEnabled(s)
	})
}

func recomputeEnabled(s RegisterState) RegisterState {
	s.IsRegisterEnabled = strings.TrimSpace(s.Name) != "" &&
		strings.TrimSpace(s.LastName) != "" &&
		strings.TrimSpace(s.Email) != "" &&
		strings.TrimSpace(s.Password) != "" &&
		strings.TrimSpace(s.ConfirmPassword) != ""
	return s
}

// Submit re-validates every field, rejects an already-registered email, and
// inserts the user. Field errors and the generic failure message land in the
// published state; true is returned only when the row was written.
func (c *RegisterController) Submit(ctx context.Context) bool {
	if !c.validateAllFields() {
		return false
	}

	c.state.update(func(s RegisterState) RegisterState {
		s.IsLoading = true
		s.RegisterError = ""
		return s
	})

	current := c.state.get()
	email := strings.TrimSpace(current.Email)

	existing, err := c.repo.GetUserByEmail(ctx, email)
	if err != nil {
		c.logger.Error("register lookup failed", "error", err)
		c.state.update(func(s RegisterState) RegisterState {
			s.IsLoading = false
			s.RegisterError = ErrConnection
			return s
		})
		return false
	}
	if existing != nil {
		c.state.update(func(s RegisterState) RegisterState {
			s.IsLoading = false
			s.EmailError = msgEmailTaken
			return s
		})
		return false
	}

	user := &models.User{
		Name:         strings.TrimSpace(current.Name),
		LastName:     strings.TrimSpace(current.LastName),
		Email:        email,
		PasswordHash: current.Password,
	}
	if err := c.repo.InsertUser(ctx, user); err != nil {
		c.logger.Error("register insert failed", "error", err)
		c.state.update(func(s RegisterState) RegisterState {
			s.IsLoading = false
			s.RegisterError = ErrConnection
			return s
		})
		return false
	}

	c.logger.Info("user registered", "name", user.Name, "last_name", user.LastName)
	c.state.update(func(s RegisterState) RegisterState {
		s.IsLoading = false
		return s
	})
	return true
}

func (c *RegisterController) validateAllFields() bool {
	current := c.state.get()

	nameErr := validateName(current.Name)
	lastErr := validateLastName(current.LastName)
	emailErr := validateRegisterEmail(current.Email)
	passwordErr := validateRegisterPassword(current.Password)
	confirmErr := validateConfirmPassword(current.Password, current.ConfirmPassword)

	c.state.update(func(s RegisterState) RegisterState {
		s.NameError = nameErr
		s.LastNameError = lastErr
		s.EmailError = emailErr
		s.PasswordError = passwordErr
		s.ConfirmPasswordError = confirmErr
		return s
	})

	return nameErr == "" && lastErr == "" && emailErr == "" &&
		passwordErr == "" && confirmErr == ""
}

func (c *RegisterController) ClearErrors() {
	c.state.update(func(s RegisterState) RegisterState {
		s.NameError = ""
		s.LastNameError = ""
		s.EmailError = ""
		s.PasswordError = ""
		s.ConfirmPasswordError = ""
		s.RegisterError = ""
		return s
	})
}
