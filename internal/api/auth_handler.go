package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobox/internal/controller"
)

type AuthHandler struct {
	deps *Deps
}

func NewAuthHandler(deps *Deps) *AuthHandler {
	return &AuthHandler{deps: deps}
}

type registerRequest struct {
	Name            string `json:"name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A fresh form controller per request: the HTTP surface plays the role
	// of a screen typing into the fields and pressing submit.
	ctrl := controller.NewRegisterController(h.deps.Repo, h.deps.Logger)
	ctrl.OnNameChange(req.Name)
	ctrl.OnLastNameChange(req.LastName)
	ctrl.OnEmailChange(req.Email)
	ctrl.OnPasswordChange(req.Password)
	ctrl.OnConfirmPasswordChange(req.ConfirmPassword)

	if ctrl.Submit(c.Request.Context()) {
		c.JSON(http.StatusCreated, gin.H{"registered": true})
		return
	}

	state := ctrl.State()
	status := http.StatusBadRequest
	if state.RegisterError == controller.ErrConnection {
		status = http.StatusInternalServerError
	} else if state.EmailError != "" && state.NameError == "" && state.PasswordError == "" {
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{
		"registered": false,
		"state":      state,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctrl := controller.NewLoginController(h.deps.Repo, h.deps.Session, h.deps.Logger)
	ctrl.OnEmailChange(req.Email)
	ctrl.OnPasswordChange(req.Password)

	if ctrl.Submit(c.Request.Context()) {
		user := h.deps.Session.User()
		c.JSON(http.StatusOK, gin.H{
			"session_id": h.deps.Session.ID(),
			"user_id":    user.ID,
			"name":       user.Name,
			"last_name":  user.LastName,
		})
		return
	}

	state := ctrl.State()
	status := http.StatusUnauthorized
	if state.EmailError != "" || state.PasswordError != "" {
		status = http.StatusBadRequest
	} else if state.LoginError == controller.ErrConnection {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"state": state})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.deps.Session.Clear()
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}
