package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/config"
	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/storage"
	"github.com/pable/go-tennis-grader/pkg/logger"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "tennis-grader",
	Short: "Tennis match grading and rally statistics",
	Long: `Score graded tennis matches rally by rally and report serve, shot and
risk statistics. Matches are stored in a local SQLite database.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (falls back to $GRADER_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(ralliesCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig layers flags over the config file and GRADER_* environment,
// then installs the logger on stderr.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if !cmd.Flags().Changed("db") {
		dbPath = cfg.DBPath
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if err := logger.Init(os.Stderr, cfg.LogFormat); err != nil {
		return err
	}
	return logger.SetLevelString(logLevel)
}

// openStore opens the database, creating its directory on first use.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// findMatch loads a match by ID or unique ID prefix. It returns nil, nil
// when nothing matches.
func findMatch(db *storage.DB, idOrPrefix string) (*model.MatchData, error) {
	m, err := db.GetMatch(idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if m != nil {
		return m, nil
	}
	s, err := db.GetMatchByPrefix(idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("query match: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	m, err = db.GetMatch(s.ID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

// mustFindMatch is findMatch that turns a miss into an error.
func mustFindMatch(db *storage.DB, idOrPrefix string) (*model.MatchData, error) {
	m, err := findMatch(db, idOrPrefix)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("no match found with ID prefix %q", idOrPrefix)
	}
	return m, nil
}
