package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-management/internal/config"
	"library-management/internal/logging"
	"library-management/library"
)

var (
	version = "dev"
	commit  = "none"
)

// CLI flags
var (
	configFile string
	dbDriver   string
	dbDSN      string
	verbosity  int
)

var cfg *config.Config

func main() {
	rootCmd := &cobra.Command{
		Use:   "library-management",
		Short: "Library management data-access tool",
		Long: `Manage library users, employees and books stored in SQLite or PostgreSQL.

Run "demo" for the scripted walkthrough or "shell" for an interactive session.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Database driver: sqlite3, sqlite or postgres (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&dbDSN, "db-dsn", "d", "", "Database path or DSN (overrides config)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(
		demoCmd(),
		shellCmd(),
		userCmd(),
		employeeCmd(),
		bookCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("library-management %s (commit: %s)\n", version, commit)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if dbDriver != "" {
		loaded.Database.Driver = dbDriver
	}
	if dbDSN != "" {
		loaded.Database.DSN = dbDSN
	}
	cfg = loaded

	logging.Apply(cfg.Log, verbosity)
	return nil
}

// openManager connects to the configured store and applies the schema.
func openManager(ctx context.Context) (*library.LibraryManager, error) {
	mgr, err := library.NewLibraryManager(ctx, library.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug().Str("driver", mgr.Driver()).Msg("Library database ready")
	return mgr, nil
}

// readPassword securely reads a password with masking. When stdin is not a
// terminal the password is taken from the next line of sc.
func readPassword(sc *bufio.Scanner, prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return strings.TrimSpace(sc.Text()), nil
	}
	bytePassword, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}
