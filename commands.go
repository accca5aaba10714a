package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"library-management/library"
)

// withManager opens the store for the duration of fn.
func withManager(cmd *cobra.Command, fn func(mgr *library.LibraryManager) error) error {
	mgr, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer mgr.Close()
	return fn(mgr)
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Register, authenticate and look up users"}

	var email, password string
	register := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(mgr *library.LibraryManager) error {
				pw, err := passwordFlagOrPrompt(password)
				if err != nil {
					return err
				}
				id, err := mgr.Users.Register(cmd.Context(), args[0], pw, email)
				if err != nil {
					return err
				}
				fmt.Printf("Registered '%s' with ID %d\n", args[0], id)
				return nil
			})
		},
	}
	register.Flags().StringVar(&email, "email", "", "Email address")
	register.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")

	var loginPassword string
	login := &cobra.Command{
		Use:   "login <username>",
		Short: "Check credentials and print a session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(mgr *library.LibraryManager) error {
				pw, err := passwordFlagOrPrompt(loginPassword)
				if err != nil {
					return err
				}
				session, err := mgr.Users.Login(cmd.Context(), args[0], pw)
				if err != nil {
					return err
				}
				fmt.Printf("%s is logged in (session %s).\n", session.Username, session.Token)
				return nil
			})
		},
	}
	login.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")

	profile := &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(mgr *library.LibraryManager) error {
				user, err := mgr.Users.ShowProfile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printUser(os.Stdout, user)
				return nil
			})
		},
	}

	cmd.AddCommand(register, login, profile)
	return cmd
}

func passwordFlagOrPrompt(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	pw, err := readPassword(bufio.NewScanner(os.Stdin), "Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

func employeeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "employee", Short: "Add and look up employees"}

	var position string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(mgr *library.LibraryManager) error {
				id, err := mgr.Employees.Add(cmd.Context(), args[0], position)
				if err != nil {
					return err
				}
				fmt.Printf("Added employee '%s' with ID %d\n", args[0], id)
				return nil
			})
		},
	}
	add.Flags().StringVar(&position, "position", "", "Job title")

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show employees with exactly this name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(mgr *library.LibraryManager) error {
				employees, err := mgr.Employees.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printEmployees(os.Stdout, employees)
				return nil
			})
		},
	}

	cmd.AddCommand(add, show)
	return cmd
}

// bookInfoFlags binds --author, --year and --genre. Flags that are not given
// stay nil.
type bookInfoFlags struct {
	author, genre string
	year          int
}

func (f *bookInfoFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.author, "author", "", "Author")
	cmd.Flags().IntVar(&f.year, "year", 0, "Publication year")
	cmd.Flags().StringVar(&f.genre, "genre", "", "Genre")
}

func (f *bookInfoFlags) info(cmd *cobra.Command) library.BookInfo {
	var info library.BookInfo
	if cmd.Flags().Changed("author") {
		info.Author = library.StringPtr(f.author)
	}
	if cmd.Flags().Changed("year") {
		info.PublicationYear = library.IntPtr(f.year)
	}
	if cmd.Flags().Changed("genre") {
		info.Genre = library.StringPtr(f.genre)
	}
	return info
}

func bookCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "book", Short: "Add, update and search books"}

	var addFlags bookInfoFlags
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := addFlags.info(cmd)
			return withManager(cmd, func(mgr *library.LibraryManager) error {
				id, err := mgr.Books.Add(cmd.Context(), args[0], info.Author, info.PublicationYear, info.Genre)
				if err != nil {
					return err
				}
				fmt.Printf("Added book ID %d\n", id)
				return nil
			})
		},
	}
	addFlags.bind(add)

	var updateFlags bookInfoFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Overwrite author, year and genre of a book",
		Long:  "Overwrite author, year and genre of a book. Fields whose flag is omitted are cleared.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid book ID %q: %w", args[0], err)
			}
			info := updateFlags.info(cmd)
			return withManager(cmd, func(mgr *library.LibraryManager) error {
				if err := mgr.Books.UpdateInfo(cmd.Context(), id, info); err != nil {
					return err
				}
				book, err := mgr.Books.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				printBooks(os.Stdout, []library.Book{*book})
				return nil
			})
		},
	}
	updateFlags.bind(update)

	search := &cobra.Command{
		Use:   "search <field=value>...",
		Short: "Search books by title, author or genre substring",
		Long: `Search books whose fields contain the given values. Accepted fields are
title, author and genre; others are ignored. All filters must match.`,
		Example: `  library-management book search author="F. M" genre=Classic`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := parseSearchArgs(args)
			return withManager(cmd, func(mgr *library.LibraryManager) error {
				books, err := searchBooks(cmd.Context(), mgr, os.Stdout, filters)
				if err != nil {
					return err
				}
				if books != nil {
					printBooks(os.Stdout, books)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(add, update, search)
	return cmd
}

// searchBooks runs a search for the book search command. No criteria and no
// matches are reported on w and are not failures; any other error is
// returned so the command exits non-zero.
func searchBooks(ctx context.Context, mgr *library.LibraryManager, w io.Writer, filters []library.SearchFilter) ([]library.Book, error) {
	books, err := mgr.Books.Search(ctx, filters...)
	switch {
	case err == nil:
		return books, nil
	case errors.Is(err, library.ErrNoCriteria), errors.Is(err, library.ErrNotFound):
		outcome(w, "search books", err)
		return nil, nil
	default:
		return nil, err
	}
}

// parseSearchArgs turns field=value arguments into filters, keeping their
// order. Arguments naming anything but an allowed field are dropped.
func parseSearchArgs(args []string) []library.SearchFilter {
	filters := make([]library.SearchFilter, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			log.Debug().Str("arg", arg).Msg("Ignoring search argument without '='")
			continue
		}
		field, ok := library.ParseSearchField(name)
		if !ok {
			log.Debug().Str("field", name).Msg("Ignoring unknown search field")
			continue
		}
		filters = append(filters, library.SearchFilter{Field: field, Value: value})
	}
	return filters
}
