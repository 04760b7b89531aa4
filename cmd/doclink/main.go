package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jward/doclink"
	"github.com/jward/doclink/internal/manifest"
	"github.com/jward/doclink/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagFormat  string
	flagVerbose bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "doclink",
	Short:         "Resolve documentation links against a symbol hierarchy",
	Long:          "Doclink imports a documentation bundle's hierarchy into a SQLite snapshot and resolves documentation and symbol links against it.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .doclink/hierarchy.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log resolution details to stderr")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(pathsCmd)
}

var flagForce bool

var importCmd = &cobra.Command{
	Use:   "import <manifest.yaml>",
	Short: "Import a bundle manifest into the snapshot database",
	Long:  "Reads a YAML manifest describing modules, symbols, articles and tutorials, and writes the resulting hierarchy to the SQLite database.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagForce, "force", false, "delete an existing database before importing")
}

func runImport(cmd *cobra.Command, args []string) error {
	start := time.Now()

	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	h, err := m.Build(hierarchyOptions()...)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
	} else if _, err := os.Stat(dbPath); err == nil {
		return fmt.Errorf("database already exists: %s (use --force to replace it)", dbPath)
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}
	if err := doclink.Save(h, s); err != nil {
		return err
	}
	n, err := s.CountNodes()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Imported %d nodes from %s in %s\n",
		n, args[0], time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	return nil
}

// newLogger returns a slog logger backed by charmbracelet/log.
func newLogger() *slog.Logger {
	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "doclink",
		Level:  level,
	})
	return slog.New(handler)
}

func hierarchyOptions() []doclink.Option {
	return []doclink.Option{doclink.WithLogger(newLogger())}
}

// openHierarchy loads the hierarchy from the --db path (or default).
func openHierarchy() (*doclink.Hierarchy, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'doclink import' first)", dbPath)
	}
	return doclink.Open(dbPath, hierarchyOptions()...)
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	repoRoot := findRepoRoot(cwd)
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB, nil
		}
		return filepath.Join(cwd, flagDB), nil
	}
	return filepath.Join(repoRoot, ".doclink", "hierarchy.db"), nil
}
