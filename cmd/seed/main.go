// Package main seeds the database with demo users and watch lists.
//
// Titles come from a built-in list, or from the remote catalog's popular
// movies when -from-catalog is set and TMDB_API_KEY is available.
//
// Usage:
//
//	DATA_PATH=~/CineSphere/data go run ./cmd/seed
//	DATA_PATH=~/CineSphere/data go run ./cmd/seed -users 5 -movies 40 -from-catalog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/cinesphere/cinesphere-server/internal/auth"
	"github.com/cinesphere/cinesphere-server/internal/catalog"
	"github.com/cinesphere/cinesphere-server/internal/config"
	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/logger"
	"github.com/cinesphere/cinesphere-server/internal/store"
	"github.com/cinesphere/cinesphere-server/internal/store/sqlite"
)

var (
	dataPath    = flag.String("data-path", "", "Data directory (default: $DATA_PATH or ~/CineSphere/data)")
	userCount   = flag.Int("users", 3, "Number of demo users to create")
	movieCount  = flag.Int("movies", 25, "Movies per user's watch list")
	password    = flag.String("password", "cinesphere", "Password for every demo user")
	fromCatalog = flag.Bool("from-catalog", false, "Take titles from the catalog's popular movies")
)

// builtinMovies are used when the catalog is not queried.
var builtinMovies = []domain.Movie{
	{ID: 603, Title: "Matrix", PosterPath: "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg"},
	{ID: 680, Title: "Pulp Fiction"},
	{ID: 550, Title: "El club de la lucha"},
	{ID: 13, Title: "Forrest Gump"},
	{ID: 155, Title: "El caballero oscuro"},
	{ID: 27205, Title: "Origen"},
	{ID: 157336, Title: "Interstellar"},
	{ID: 238, Title: "El padrino"},
	{ID: 424, Title: "La lista de Schindler"},
	{ID: 129, Title: "El viaje de Chihiro"},
	{ID: 194, Title: "Amélie"},
	{ID: 496243, Title: "Parásitos"},
	{ID: 769, Title: "Uno de los nuestros"},
	{ID: 274, Title: "El silencio de los corderos"},
	{ID: 78, Title: "Blade Runner"},
	{ID: 348, Title: "Alien, el octavo pasajero"},
	{ID: 679, Title: "Aliens: El regreso"},
	{ID: 1417, Title: "El laberinto del fauno"},
	{ID: 120, Title: "El señor de los anillos: La comunidad del anillo"},
	{ID: 11, Title: "La guerra de las galaxias"},
	{ID: 105, Title: "Regreso al futuro"},
	{ID: 329, Title: "Parque Jurásico"},
	{ID: 597, Title: "Titanic"},
	{ID: 862, Title: "Toy Story"},
	{ID: 8587, Title: "El rey león"},
	{ID: 4935, Title: "El castillo ambulante"},
	{ID: 12477, Title: "La tumba de las luciérnagas"},
	{ID: 372058, Title: "Your Name"},
	{ID: 19404, Title: "Dilwale Dulhania Le Jayenge"},
	{ID: 389, Title: "12 hombres sin piedad"},
}

func main() {
	flag.Parse()

	dbPath := config.DataConfig{Path: resolveDataPath(*dataPath)}.DatabasePath()
	fmt.Printf("Opening database at: %s\n", dbPath)

	st, err := sqlite.Open(dbPath, logger.Discard().Logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	movies := builtinMovies
	if *fromCatalog {
		popular, err := loadPopular(ctx, *movieCount)
		if err != nil {
			log.Printf("Catalog unavailable, using built-in titles: %v", err)
		} else {
			movies = popular
		}
	}

	hasher := auth.NewHasher(auth.DefaultParams)
	hash, err := hasher.Hash(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	statuses := domain.Statuses()

	for n := 1; n <= *userCount; n++ {
		username := fmt.Sprintf("demo%d", n)

		userID, err := st.CreateUser(ctx, &domain.User{Username: username, PasswordHash: hash})
		if errors.Is(err, store.ErrAlreadyExists) {
			user, getErr := st.GetUserByUsername(ctx, username)
			if getErr != nil {
				log.Fatalf("Failed to load existing user %s: %v", username, getErr)
			}
			userID = user.ID
			fmt.Printf("\nUser %s already exists (id %d)\n", username, userID)
		} else if err != nil {
			log.Fatalf("Failed to create user %s: %v", username, err)
		} else {
			fmt.Printf("\nCreated user %s (id %d)\n", username, userID)
		}

		added, skipped := 0, 0
		for _, i := range rand.Perm(len(movies))[:min(*movieCount, len(movies))] {
			m := movies[i]
			_, err := st.AddEntry(ctx, &domain.WatchListEntry{
				UserID:     userID,
				MovieID:    m.ID,
				Title:      m.Title,
				PosterPath: m.PosterPath,
				Status:     statuses[rand.IntN(len(statuses))],
			})
			switch {
			case errors.Is(err, store.ErrAlreadyExists):
				skipped++
			case err != nil:
				log.Fatalf("Failed to add movie %d for %s: %v", m.ID, username, err)
			default:
				added++
			}
		}

		counts, err := st.CountEntriesGroupedByStatus(ctx, userID)
		if err != nil {
			log.Fatalf("Failed to count entries for %s: %v", username, err)
		}
		fmt.Printf("  added %d, already present %d\n", added, skipped)
		for _, s := range statuses {
			fmt.Printf("  %-9s %d\n", s, counts[s])
		}
	}

	fmt.Printf("\nDone. Log in as demo1..demo%d with password %q\n", *userCount, *password)
}

// loadPopular pulls enough popular titles from the catalog to fill want
// slots.
func loadPopular(ctx context.Context, want int) ([]domain.Movie, error) {
	client, err := catalog.NewClient(catalog.Config{
		APIKey:  os.Getenv("TMDB_API_KEY"),
		BaseURL: os.Getenv("TMDB_BASE_URL"),
	}, logger.Discard().Logger)
	if err != nil {
		return nil, err
	}

	var movies []domain.Movie
	for page := 1; len(movies) < want; page++ {
		res, err := client.Popular(ctx, page)
		if err != nil {
			return nil, err
		}
		movies = append(movies, res.Results...)
		if !res.HasMore() {
			break
		}
	}
	return movies, nil
}

// resolveDataPath applies the server's precedence: flag, then DATA_PATH,
// then the default under the home directory.
func resolveDataPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("DATA_PATH"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to resolve home directory: %v", err)
	}
	return filepath.Join(home, "CineSphere", "data")
}
