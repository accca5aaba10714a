package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"library-management/internal/config"
	"library-management/internal/logging"
	"library-management/library"
)

// catalogEntry is one book in the YAML catalog.
type catalogEntry struct {
	Title  string  `yaml:"title"`
	Author *string `yaml:"author"`
	Year   *int    `yaml:"year"`
	Genre  *string `yaml:"genre"`
}

type catalog struct {
	Books []catalogEntry `yaml:"books"`
}

func main() {
	catalogPath := flag.String("catalog", "books.yaml", "YAML catalog of books to import")
	configFile := flag.String("config", "", "Config file (yaml, toml or json)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logging.Apply(cfg.Log, 0)

	f, err := os.Open(*catalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *catalogPath).Msg("Failed to open catalog")
	}
	entries, err := readCatalog(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("path", *catalogPath).Msg("Failed to parse catalog")
	}

	ctx := context.Background()
	manager, err := library.NewLibraryManager(ctx, library.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer manager.Close()

	fmt.Printf("Importing %d books from %s...\n", len(entries), *catalogPath)
	imported, failed := importBooks(ctx, manager.Books, entries, os.Stdout)

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", imported)
	fmt.Printf("Errors: %d\n", failed)
}

func readCatalog(r io.Reader) ([]catalogEntry, error) {
	var c catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return c.Books, nil
}

// importBooks adds every entry, reporting each one on w. A failing entry is
// counted and skipped.
func importBooks(ctx context.Context, books *library.BookManager, entries []catalogEntry, w io.Writer) (imported, failed int) {
	for _, e := range entries {
		fmt.Fprintf(w, "Importing: %s... ", truncateString(e.Title, 50))
		id, err := books.Add(ctx, e.Title, e.Author, e.Year, e.Genre)
		if err != nil {
			fmt.Fprintf(w, "ERROR - %v\n", err)
			failed++
			continue
		}
		fmt.Fprintf(w, "SUCCESS (ID: %d)\n", id)
		imported++
	}
	return imported, failed
}

func truncateString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
