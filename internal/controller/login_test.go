package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobox/internal/session"
)

func TestLogin_EnabledOnlyWhenBothFieldsFilled(t *testing.T) {
	repo, _ := newTestRepo(t)
	c := NewLoginController(repo, session.New(), discardLogger())

	assert.False(t, c.State().IsLoginEnabled)

	c.OnEmailChange("ana@example.com")
	assert.False(t, c.State().IsLoginEnabled)

	c.OnPasswordChange("Secret1")
	assert.True(t, c.State().IsLoginEnabled)
}

func TestLogin_LocalValidationBlocksSubmit(t *testing.T) {
	repo, _ := newTestRepo(t)
	c := NewLoginController(repo, session.New(), discardLogger())

	c.OnEmailChange("not-an-email")
	c.OnPasswordChange("ab")

	ok := c.Submit(context.Background())
	assert.False(t, ok)

	state := c.State()
	assert.Equal(t, msgEmailInvalid, state.EmailError)
	assert.Equal(t, msgPasswordTooShort, state.PasswordError)
	assert.False(t, state.IsLoading)
}

func TestLogin_SuccessSetsSession(t *testing.T) {
	repo, st := newTestRepo(t)
	user := insertUser(t, st, "ana@example.com", "Secret1")

	sess := session.New()
	c := NewLoginController(repo, sess, discardLogger())
	c.OnEmailChange("ana@example.com")
	c.OnPasswordChange("Secret1")

	require.True(t, c.Submit(context.Background()))

	current := sess.User()
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
	assert.NotEmpty(t, sess.ID())
	assert.Empty(t, c.State().LoginError)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo, st := newTestRepo(t)
	insertUser(t, st, "ana@example.com", "Secret1")

	sess := session.New()
	c := NewLoginController(repo, sess, discardLogger())
	c.OnEmailChange("ana@example.com")
	c.OnPasswordChange("Wrong123")

	assert.False(t, c.Submit(context.Background()))
	assert.Equal(t, msgBadCredentials, c.State().LoginError)
	assert.Nil(t, sess.User())
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo, _ := newTestRepo(t)
	sess := session.New()
	c := NewLoginController(repo, sess, discardLogger())
	c.OnEmailChange("nobody@example.com")
	c.OnPasswordChange("Secret1")

	assert.False(t, c.Submit(context.Background()))
	assert.Equal(t, msgBadCredentials, c.State().LoginError)
	assert.Nil(t, sess.User())
}

func TestLogin_TypingClearsErrors(t *testing.T) {
	repo, st := newTestRepo(t)
	insertUser(t, st, "ana@example.com", "Secret1")

	c := NewLoginController(repo, session.New(), discardLogger())
	c.OnEmailChange("ana@example.com")
	c.OnPasswordChange("Wrong123")
	c.Submit(context.Background())
	require.NotEmpty(t, c.State().LoginError)

	c.OnPasswordChange("Secret1")
	assert.Empty(t, c.State().LoginError)
}
