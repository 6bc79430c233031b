package repository

import (
	"context"

	"mobox/internal/models"
	"mobox/internal/store"
)

// AppRepository stabilizes the store's surface for the controllers. Pure
// pass-through: no extra logic, no extra error handling.
type AppRepository interface {
	InsertUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	InsertMovie(ctx context.Context, movie *models.Movie) error
	GetMovieByID(ctx context.Context, movieID int64) (*models.Movie, error)
	GetAllMoviesList(ctx context.Context) ([]models.Movie, error)

	AddFavorite(ctx context.Context, userID, movieID int64) error
	RemoveFavorite(ctx context.Context, userID, movieID int64) error

	PopularMovies(ctx context.Context) <-chan store.Emission[[]models.Movie]
	AllMovies(ctx context.Context) <-chan store.Emission[[]models.Movie]
	SearchMovies(ctx context.Context, query string) <-chan store.Emission[[]models.Movie]
	FavoriteMovies(ctx context.Context, userID int64) <-chan store.Emission[[]models.Movie]
	IsFavorite(ctx context.Context, userID, movieID int64) <-chan store.Emission[bool]
}

type appRepository struct {
	store *store.Store
}

// NewAppRepository creates the façade over the gateway.
func NewAppRepository(st *store.Store) AppRepository {
	return &appRepository{store: st}
}

func (r *appRepository) InsertUser(ctx context.Context, user *models.User) error {
	return r.store.InsertUser(ctx, user)
}

func (r *appRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.store.GetUserByEmail(ctx, email)
}

func (r *appRepository) InsertMovie(ctx context.Context, movie *models.Movie) error {
	return r.store.InsertMovie(ctx, movie)
}

func (r *appRepository) GetMovieByID(ctx context.Context, movieID int64) (*models.Movie, error) {
	return r.store.GetMovieByID(ctx, movieID)
}

func (r *appRepository) GetAllMoviesList(ctx context.Context) ([]models.Movie, error) {
	return r.store.GetAllMoviesList(ctx)
}

func (r *appRepository) AddFavorite(ctx context.Context, userID, movieID int64) error {
	return r.store.AddFavorite(ctx, userID, movieID)
}

func (r *appRepository) RemoveFavorite(ctx context.Context, userID, movieID int64) error {
	return r.store.RemoveFavorite(ctx, userID, movieID)
}

func (r *appRepository) PopularMovies(ctx context.Context) <-chan store.Emission[[]models.Movie] {
	return r.store.PopularMovies(ctx)
}

func (r *appRepository) AllMovies(ctx context.Context) <-chan store.Emission[[]models.Movie] {
	return r.store.AllMovies(ctx)
}

func (r *appRepository) SearchMovies(ctx context.Context, query string) <-chan store.Emission[[]models.Movie] {
	return r.store.SearchMovies(ctx, query)
}

func (r *appRepository) FavoriteMovies(ctx context.Context, userID int64) <-chan store.Emission[[]models.Movie] {
	return r.store.FavoriteMovies(ctx, userID)
}

func (r *appRepository) IsFavorite(ctx context.Context, userID, movieID int64) <-chan store.Emission[bool] {
	return r.store.IsFavorite(ctx, userID, movieID)
}
