// Package main prints a user's watch list straight from the database.
//
// Rows are read a page at a time, newest first, the same way the mobile
// client scrolls through the list.
//
// Usage:
//
//	DATA_PATH=~/CineSphere/data go run ./cmd/mylist -user neo
//	go run ./cmd/mylist -data-path /srv/cinesphere -user neo -page-size 5 -status WATCHED
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/cinesphere/cinesphere-server/internal/config"
	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/logger"
	"github.com/cinesphere/cinesphere-server/internal/pager"
	"github.com/cinesphere/cinesphere-server/internal/store"
	"github.com/cinesphere/cinesphere-server/internal/store/sqlite"
)

var (
	dataPath = flag.String("data-path", "", "Data directory (default: $DATA_PATH or ~/CineSphere/data)")
	username = flag.String("user", "", "Username whose list to print")
	pageSize = flag.Int("page-size", store.DefaultPageSize, "Rows fetched per page (at most 100)")
	status   = flag.String("status", "", "Only print entries with this status")
)

func main() {
	flag.Parse()

	if *username == "" {
		log.Fatal("-user is required")
	}

	if *pageSize > store.MaxPageSize {
		log.Fatalf("Invalid -page-size: %d exceeds the maximum of %d", *pageSize, store.MaxPageSize)
	}

	var filter domain.Status
	if *status != "" {
		s, err := domain.ParseStatus(*status)
		if err != nil {
			log.Fatalf("Invalid -status: %v", err)
		}
		filter = s
	}

	dbPath := config.DataConfig{Path: resolveDataPath(*dataPath)}.DatabasePath()
	st, err := sqlite.Open(dbPath, logger.Discard().Logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	user, err := st.GetUserByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("Failed to find user %q: %v", *username, err)
	}

	cursor, err := pager.New[*domain.WatchListEntry](*pageSize, func(ctx context.Context, limit, offset int) ([]*domain.WatchListEntry, error) {
		return st.ListEntriesPage(ctx, user.ID, store.OffsetParams{Limit: limit, Offset: offset})
	})
	if err != nil {
		log.Fatalf("Invalid -page-size: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MOVIE\tSTATUS\tTITLE")

	printed, pages := 0, 0
	for {
		res, err := cursor.Next(ctx)
		if err != nil {
			log.Fatalf("Failed to read page %d: %v", pages+1, err)
		}
		if res.Empty {
			fmt.Printf("%s has an empty watch list\n", user.Username)
			return
		}
		pages++

		for _, e := range res.Items {
			if filter != "" && e.Status != filter {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", e.MovieID, e.Status, e.Title)
			printed++
		}
		if res.LastPage {
			break
		}
	}
	w.Flush()

	fmt.Printf("\n%d entries (%d pages of up to %d, %d rows read)\n",
		printed, pages, cursor.PageSize(), cursor.Offset())
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
