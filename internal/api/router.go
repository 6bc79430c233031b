// Package api is the HTTP rendition of the UI layer: a pure consumer of the
// controllers' observable state and command methods. Nothing in here touches
// the store directly.
package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"mobox/internal/config"
	"mobox/internal/controller"
	"mobox/internal/repository"
	"mobox/internal/session"
)

// Deps carries everything the handlers need, built once in the composition
// root.
type Deps struct {
	Cfg     *config.Config
	Repo    repository.AppRepository
	Session *session.Session
	Home    *controller.HomeController
	Logger  *slog.Logger
}

func NewRouter(deps *Deps) *gin.Engine {
	if deps.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Logger))

	authHandler := NewAuthHandler(deps)
	catalogHandler := NewCatalogHandler(deps)
	favoritesHandler := NewFavoritesHandler(deps)

	auth := r.Group("/auth")
	auth.Use(AuthRateLimit(deps.Cfg.AuthRatePerSecond, deps.Cfg.AuthRateBurst))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	r.GET("/home", catalogHandler.Home)
	r.GET("/search", catalogHandler.Search)

	movies := r.Group("/movies")
	movies.Use(RequireSession(deps))
	{
		movies.GET("/:id", catalogHandler.MovieDetail)
		movies.GET("/:id/similar", catalogHandler.SimilarMovies)
		movies.POST("/:id/favorite", favoritesHandler.Toggle)
		movies.DELETE("/:id/favorite", favoritesHandler.Remove)
	}

	r.GET("/favorites", RequireSession(deps), favoritesHandler.List)

	return r
}
