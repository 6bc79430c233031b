package controller

import (
	"regexp"
	"strings"
)

// Field validation messages. Kept in one place so screens stay consistent.
const (
	msgEmailRequired     = "Email is required"
	msgEmailInvalid      = "Invalid email"
	msgEmailTooLong      = "Email is too long"
	msgEmailTaken        = "This email is already registered"
	msgPasswordRequired  = "Password is required"
	msgPasswordTooShort  = "Password must be at least 6 characters"
	msgPasswordTooLong   = "Password cannot be longer than 50 characters"
	msgPasswordUpper     = "Password must contain at least one uppercase letter"
	msgPasswordLower     = "Password must contain at least one lowercase letter"
	msgPasswordDigit     = "Password must contain at least one number"
	msgConfirmRequired   = "You must confirm the password"
	msgPasswordsMismatch = "Passwords do not match"
	msgNameRequired      = "Name is required"
	msgNameTooShort      = "Name must be at least 2 characters"
	msgNameTooLong       = "Name cannot be longer than 50 characters"
	msgNameLettersOnly   = "Name can only contain letters"
	msgLastRequired      = "Last name is required"
	msgLastTooShort      = "Last name must be at least 2 characters"
	msgLastTooLong       = "Last name cannot be longer than 50 characters"
	msgLastLettersOnly   = "Last name can only contain letters"
	msgBadCredentials    = "Incorrect email or password"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	// letters plus the accented Latin characters and spaces
	namePattern  = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	hasUppercase = regexp.MustCompile(`[A-Z]`)
	hasLowercase = regexp.MustCompile(`[a-z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// validateLoginEmail checks only what the login form needs: presence and
// shape. Registration applies the stricter rules below.
func validateLoginEmail(email string) string {
	switch {
	case strings.TrimSpace(email) == "":
		return msgEmailRequired
	case !emailPattern.MatchString(strings.TrimSpace(email)):
		return msgEmailInvalid
	default:
		return ""
	}
}

func validateLoginPassword(password string) string {
	switch {
	case password == "":
		return msgPasswordRequired
	case len(password) < 6:
		return msgPasswordTooShort
	default:
		return ""
	}
}

func validateName(name string) string {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return msgNameRequired
	case len([]rune(trimmed)) < 2:
		return msgNameTooShort
	case len([]rune(trimmed)) > 50:
		return msgNameTooLong
	case !namePattern.MatchString(name):
		return msgNameLettersOnly
	default:
		return ""
	}
}

func validateLastName(lastName string) string {
	trimmed := strings.TrimSpace(lastName)
	switch {
	case trimmed == "":
		return msgLastRequired
	case len([]rune(trimmed)) < 2:
		return msgLastTooShort
	case len([]rune(trimmed)) > 50:
		return msgLastTooLong
	case !namePattern.MatchString(lastName):
		return msgLastLettersOnly
	default:
		return ""
	}
}

func validateRegisterEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	switch {
	case trimmed == "":
		return msgEmailRequired
	case !emailPattern.MatchString(trimmed):
		return msgEmailInvalid
	case len(email) > 100:
		return msgEmailTooLong
	default:
		return ""
	}
}

func validateRegisterPassword(password string) string {
	switch {
	case password == "":
		return msgPasswordRequired
	case len(password) < 6:
		return msgPasswordTooShort
	case len(password) > 50:
		return msgPasswordTooLong
	case !hasUppercase.MatchString(password):
		return msgPasswordUpper
	case !hasLowercase.MatchString(password):
		return msgPasswordLower
	case !hasDigit.MatchString(password):
		return msgPasswordDigit
	default:
		return ""
	}
}

func validateConfirmPassword(password, confirm string) string {
	switch {
	case confirm == "":
		return msgConfirmRequired
	case password != confirm:
		return msgPasswordsMismatch
	default:
		return ""
	}
}
