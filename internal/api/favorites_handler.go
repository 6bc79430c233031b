package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mobox/internal/controller"
)

type FavoritesHandler struct {
	deps *Deps
}

func NewFavoritesHandler(deps *Deps) *FavoritesHandler {
	return &FavoritesHandler{deps: deps}
}

// List reports the favorites screen state for the session user.
func (h *FavoritesHandler) List(c *gin.Context) {
	ctrl := controller.NewFavoritesController(h.deps.Repo, h.deps.Session, h.deps.Logger)
	defer ctrl.Close()

	states := ctrl.Watch(c.Request.Context())
	deadline := time.After(settleTimeout)

	for {
		select {
		case state := <-states:
			switch state.Phase {
			case controller.PhaseLoading:
				continue
			case controller.PhaseError:
				c.JSON(http.StatusInternalServerError, gin.H{
					"phase": state.Phase.String(),
					"error": state.ErrorMessage,
				})
				return
			default:
				c.JSON(http.StatusOK, gin.H{
					"phase":  state.Phase.String(),
					"movies": state.Movies,
				})
				return
			}
		case <-deadline:
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "favorites did not settle"})
			return
		}
	}
}

type toggleRequest struct {
	// Confirm mirrors the remove-confirmation dialog: removing an existing
	// favorite requires a second, confirmed call.
	Confirm bool `json:"confirm"`
}

// Toggle is the favorite button. Adding happens directly; removing first
// answers with confirm_required until the caller confirms.
func (h *FavoritesHandler) Toggle(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctrl := controller.NewMovieDetailController(h.deps.Repo, h.deps.Session, movieID, h.deps.Logger)
	defer ctrl.Close()

	state, ok := settleDetail(c, ctrl)
	if !ok {
		return
	}
	if state.Phase == controller.PhaseError {
		c.JSON(http.StatusNotFound, gin.H{"error": state.ErrorMessage})
		return
	}

	ctx := c.Request.Context()
	ctrl.OnFavoriteClick(ctx)

	after := ctrl.State()
	if after.ShowRemoveDialog {
		if !req.Confirm {
			c.JSON(http.StatusConflict, gin.H{
				"confirm_required": true,
				"is_favorite":      after.IsFavorite,
			})
			return
		}
		ctrl.ConfirmRemoveFavorite(ctx)
	}

	// The authoritative flag comes from the live query's next emission.
	final := drainDetail(ctrl.Watch(ctx), ctrl.State())
	c.JSON(http.StatusOK, gin.H{"is_favorite": final.IsFavorite})
}

// Remove is the pre-confirmed removal path: the DELETE verb stands in for the
// dialog's confirm button. Removing a non-favorite is a no-op.
func (h *FavoritesHandler) Remove(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	ctrl := controller.NewMovieDetailController(h.deps.Repo, h.deps.Session, movieID, h.deps.Logger)
	defer ctrl.Close()

	state, ok := settleDetail(c, ctrl)
	if !ok {
		return
	}
	if state.Phase == controller.PhaseError {
		c.JSON(http.StatusNotFound, gin.H{"error": state.ErrorMessage})
		return
	}

	ctx := c.Request.Context()
	if state.IsFavorite {
		ctrl.OnFavoriteClick(ctx)
		ctrl.ConfirmRemoveFavorite(ctx)
	}

	final := drainDetail(ctrl.Watch(ctx), ctrl.State())
	c.JSON(http.StatusOK, gin.H{"is_favorite": final.IsFavorite})
}
