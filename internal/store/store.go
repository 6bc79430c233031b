package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mobox/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the typed query/command gateway over the relational schema.
// Every insert in scope uses ignore-on-conflict semantics: a violated
// uniqueness or primary-key constraint is a silent no-op, never an error.
// Writes that actually change rows are reported to the notifier so live
// queries re-emit.
type Store struct {
	db       *gorm.DB
	notifier *Notifier
	logger   *slog.Logger
}

func New(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{
		db:       db,
		notifier: NewNotifier(),
		logger:   logger,
	}
}

// Notifier exposes the change registry, mainly for tests that assert on
// coalescing behavior.
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// --- Users ---

// InsertUser creates the user unless the email is already taken, in which
// case nothing happens and the existing row is left untouched.
func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user)
	if tx.Error != nil {
		return fmt.Errorf("insert user: %w", tx.Error)
	}
	if tx.RowsAffected > 0 {
		s.notifier.Notify(TableUsers)
	}
	return nil
}

// GetUserByEmail returns the unique user for the email, or nil if none.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the user; favorites cascade away with it.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	tx := s.db.WithContext(ctx).Delete(&models.User{}, userID)
	if tx.Error != nil {
		return fmt.Errorf("delete user: %w", tx.Error)
	}
	if tx.RowsAffected > 0 {
		s.notifier.Notify(TableUsers, TableFavorites)
	}
	return nil
}

// --- Movies ---

func (s *Store) InsertMovie(ctx context.Context, movie *models.Movie) error {
	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(movie)
	if tx.Error != nil {
		return fmt.Errorf("insert movie: %w", tx.Error)
	}
	if tx.RowsAffected > 0 {
		s.notifier.Notify(TableMovies)
	}
	return nil
}

// GetMovieByID returns the movie, or nil if absent.
func (s *Store) GetMovieByID(ctx context.Context, movieID int64) (*models.Movie, error) {
	var movie models.Movie
	if err := s.db.WithContext(ctx).First(&movie, movieID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movie by id: %w", err)
	}
	return &movie, nil
}

// GetAllMoviesList is the one-shot catalog read used by the seed guard.
func (s *Store) GetAllMoviesList(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if err := s.db.WithContext(ctx).Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// DeleteMovie removes the movie; favorites cascade away with it.
func (s *Store) DeleteMovie(ctx context.Context, movieID int64) error {
	tx := s.db.WithContext(ctx).Delete(&models.Movie{}, movieID)
	if tx.Error != nil {
		return fmt.Errorf("delete movie: %w", tx.Error)
	}
	if tx.RowsAffected > 0 {
		s.notifier.Notify(TableMovies, TableFavorites)
	}
	return nil
}

// --- Favorites ---

// AddFavorite marks the movie as a favorite of the user. Adding an existing
// pair is a silent no-op.
func (s *Store) AddFavorite(ctx context.Context, userID, movieID int64) error {
	favorite := &models.Favorite{UserID: userID, MovieID: movieID}
	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(favorite)
	if tx.Error != nil {
		return fmt.Errorf("add favorite: %w", tx.Error)
	}
	if tx.RowsAffected > 0 {
		s.notifier.Notify(TableFavorites)
	}
	return nil
}

// RemoveFavorite deletes the pair; removing an absent pair is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, userID, movieID int64) error {
	tx := s.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.Favorite{})
	if tx.Error != nil {
		return fmt.Errorf("remove favorite: %w", tx.Error)
	}
	if tx.RowsAffected > 0 {
		s.notifier.Notify(TableFavorites)
	}
	return nil
}

// --- Live queries ---

// PopularMovies re-emits all movies flagged popular whenever the movie table
// changes.
func (s *Store) PopularMovies(ctx context.Context) <-chan Emission[[]models.Movie] {
	return newLive(ctx, s.notifier, s.logger, func(ctx context.Context) ([]models.Movie, error) {
		var movies []models.Movie
		if err := s.db.WithContext(ctx).Where("is_popular = ?", true).Find(&movies).Error; err != nil {
			return nil, fmt.Errorf("popular movies: %w", err)
		}
		return movies, nil
	}, TableMovies)
}

// AllMovies re-emits the whole catalog whenever the movie table changes.
func (s *Store) AllMovies(ctx context.Context) <-chan Emission[[]models.Movie] {
	return newLive(ctx, s.notifier, s.logger, func(ctx context.Context) ([]models.Movie, error) {
		var movies []models.Movie
		if err := s.db.WithContext(ctx).Find(&movies).Error; err != nil {
			return nil, fmt.Errorf("all movies: %w", err)
		}
		return movies, nil
	}, TableMovies)
}

// SearchMovies re-emits the movies whose title contains the query as a raw,
// case-sensitive substring. No tokenization, no ranking.
func (s *Store) SearchMovies(ctx context.Context, query string) <-chan Emission[[]models.Movie] {
	return newLive(ctx, s.notifier, s.logger, func(ctx context.Context) ([]models.Movie, error) {
		var movies []models.Movie
		// instr keeps the match case-sensitive; sqlite LIKE folds ASCII case.
		if err := s.db.WithContext(ctx).Where("instr(title, ?) > 0", query).Find(&movies).Error; err != nil {
			return nil, fmt.Errorf("search movies: %w", err)
		}
		return movies, nil
	}, TableMovies)
}

// FavoriteMovies re-emits the user's favorite movies whenever either the
// favorites or the movie table changes.
func (s *Store) FavoriteMovies(ctx context.Context, userID int64) <-chan Emission[[]models.Movie] {
	return newLive(ctx, s.notifier, s.logger, func(ctx context.Context) ([]models.Movie, error) {
		var movies []models.Movie
		if err := s.db.WithContext(ctx).
			Model(&models.Movie{}).
			Joins("INNER JOIN favorites ON favorites.movie_id = movies.id").
			Where("favorites.user_id = ?", userID).
			Find(&movies).Error; err != nil {
			return nil, fmt.Errorf("favorite movies: %w", err)
		}
		return movies, nil
	}, TableFavorites, TableMovies)
}

// IsFavorite re-emits whether the pair exists whenever the favorites table
// changes.
func (s *Store) IsFavorite(ctx context.Context, userID, movieID int64) <-chan Emission[bool] {
	return newLive(ctx, s.notifier, s.logger, func(ctx context.Context) (bool, error) {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.Favorite{}).
			Where("user_id = ? AND movie_id = ?", userID, movieID).
			Count(&count).Error; err != nil {
			return false, fmt.Errorf("is favorite: %w", err)
		}
		return count > 0, nil
	}, TableFavorites)
}
