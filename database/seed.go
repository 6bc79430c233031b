package database

import (
	"context"
	"fmt"
	"log/slog"

	"mobox/internal/models"
	"mobox/internal/store"
)

// SeedCatalog inserts the starter catalog on first run. Guarded by an
// emptiness check so repeated process starts are no-ops.
func SeedCatalog(ctx context.Context, st *store.Store, logger *slog.Logger) error {
	existing, err := st.GetAllMoviesList(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing catalog: %w", err)
	}
	if len(existing) > 0 {
		// Catalog already seeded, skip
		return nil
	}

	for _, movie := range starterCatalog() {
		m := movie
		if err := st.InsertMovie(ctx, &m); err != nil {
			return fmt.Errorf("failed to seed movie %q: %w", m.Title, err)
		}
	}

	logger.Info("Seeded starter catalog", "movies", len(starterCatalog()))
	return nil
}

func starterCatalog() []models.Movie {
	return []models.Movie{
		{Title: "Superman", Description: "The last son of Krypton arrives on Earth with extraordinary powers.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/vS7N2Qd3r2jGj5J1dGg3fGj1d.jpg", Genre: "Action", IsPopular: true},
		{Title: "Batman", Description: "Gotham's protector, a dark vigilante.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/qJ2tW6WMUDux911JEJWApGW3e1I.jpg", Genre: "Action", IsPopular: false},
		{Title: "Spider-Man", Description: "A young man with arachnid abilities protects New York.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/rPdxQ4jH0l2G5m1yJtK5C5P7Lq.jpg", Genre: "Adventure", IsPopular: true},
		{Title: "Wonder Woman", Description: "An Amazon princess fighting for justice in the world of men.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/vR1mQ6Y5p3sWn5jC6j1dGg6o0h.jpg", Genre: "Action", IsPopular: true},
		{Title: "The Flash", Description: "A speedster who travels through time to save his family.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/yYwGysL2v7X0o5N3JtK3N3O4Lq.jpg", Genre: "Science Fiction", IsPopular: false},
		{Title: "Aquaman", Description: "The king of Atlantis must unite with the surface to save both worlds.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/xXmC61JtG1z2v7X2F3G1w4H0b.jpg", Genre: "Adventure", IsPopular: true},
		{Title: "Joker", Description: "A failed comedian spirals into revolution and crime.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/udDclJoHjfub872PVSWTf2htzQo.jpg", Genre: "Drama", IsPopular: true},
		{Title: "Inception", Description: "A thief who steals corporate secrets through dream-sharing technology.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/gC2J5c7F5F0M5N5G4E6H1K1D0w.jpg", Genre: "Science Fiction", IsPopular: false},
		{Title: "Interstellar", Description: "A team of explorers travels through a wormhole to save humanity.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/g5rT2r2n3J5m4N6Q8T3C4F1A0h.jpg", Genre: "Science Fiction", IsPopular: true},
		{Title: "Parasite", Description: "A poor family infiltrates the life of a wealthy household.", PosterURL: "https://www.themoviedb.org/t/p/w600_and_h900_bestv2/5m2W3bQpM1D6N7G0P5F3F1G0J0k.jpg", Genre: "Drama", IsPopular: true},
	}
}
