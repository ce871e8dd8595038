package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fenilsonani/tidyplan/internal/config"
	"github.com/fenilsonani/tidyplan/internal/planner"
	"github.com/fenilsonani/tidyplan/internal/reporter"
	"github.com/fenilsonani/tidyplan/internal/rules"
	"github.com/fenilsonani/tidyplan/internal/scan"
	"github.com/fenilsonani/tidyplan/internal/ui"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath    string
	verbose       bool
	rulesPath     string
	outputFile    string
	outputFmt     string
	scanDepth     int
	includeHidden bool
	bestEffort    bool
	categoryRoot  string
	maxSuffix     int
	noSuffix      bool
	interactive   bool
)

// Exit codes follow the convention: 3 for a missing folder, 4 for rules or
// configuration problems, 10 for scan failures at runtime.
const (
	exitNotFound = 3
	exitConfig   = 4
	exitRuntime  = 10
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var loadErr *rules.LoadError
	if errors.As(err, &loadErr) {
		return exitConfig
	}
	var cfgErr *config.LoadError
	if errors.As(err, &cfgErr) {
		return exitConfig
	}
	var scanErr *scan.Error
	if errors.As(err, &scanErr) {
		if os.IsNotExist(scanErr.Err) {
			return exitNotFound
		}
		return exitRuntime
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "tidyplan",
	Short: "Local-first file organizer planner",
	Long: `Tidyplan scans folders, classifies every file against a rule set and
emits an ordered plan of proposed moves. It never touches your files: the
plan is computed, shown and saved, nothing more.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var planCmd = &cobra.Command{
	Use:   "plan [folders...]",
	Short: "Compute an organization plan for one or more folders",
	Long: `Scans the given folders (defaults to ~/Downloads), classifies each file
and writes a JSON plan of proposed moves. Read-only: no file is touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Flags override the config file.
		if cmd.Flags().Changed("depth") {
			cfg.ScanDepth = scanDepth
		}
		if cmd.Flags().Changed("hidden") {
			cfg.IncludeHidden = includeHidden
		}
		if cmd.Flags().Changed("best-effort") {
			cfg.BestEffort = bestEffort
		}
		if cmd.Flags().Changed("max-suffix") {
			cfg.MaxSuffix = maxSuffix
		}
		if cmd.Flags().Changed("category-root") {
			cfg.CategoryRoot = categoryRoot
		}
		if rulesPath != "" {
			cfg.RulesPath = rulesPath
		}

		roots := args
		if len(roots) == 0 {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			roots = []string{filepath.Join(home, "Downloads")}
		}

		set, err := loadRules(cfg)
		if err != nil {
			return err
		}

		p, err := planner.Build(roots, set, planner.Options{
			CategoryRoot:     cfg.CategoryRoot,
			MaxDepth:         cfg.ScanDepth,
			IncludeHidden:    cfg.IncludeHidden,
			BestEffort:       cfg.BestEffort,
			MaxSuffix:        cfg.MaxSuffix,
			NoDisambiguation: noSuffix,
		})
		if err != nil {
			return err
		}

		out := outputFile
		if out == "" {
			out = p.DefaultOutputPath()
		}
		if err := p.SaveToFile(out); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}

		if interactive {
			if err := ui.RunPreview(p); err != nil {
				return fmt.Errorf("preview failed: %w", err)
			}
		} else {
			rptr := reporter.New(os.Stdout, reporter.ParseFormat(outputFmt))
			if err := rptr.Report(p); err != nil {
				return fmt.Errorf("failed to render plan: %w", err)
			}
		}

		if cfg.Verbose || verbose {
			fmt.Fprintf(os.Stderr, "plan written to %s\n", out)
		}
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the compiled rule set",
	Long:  `Loads the rules file and prints the categories and rule counts it compiles to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if rulesPath != "" {
			cfg.RulesPath = rulesPath
		}

		set, err := loadRules(cfg)
		if err != nil {
			return err
		}

		source := cfg.RulesPath
		if source == "" {
			source = "(built-in)"
		}
		fmt.Printf("Rules file: %s\n", source)
		fmt.Printf("Rules compiled: %d\n", set.Len())
		fmt.Printf("Default category: %s\n", set.DefaultCategory())
		fmt.Println("Categories:")
		for _, cat := range set.Categories() {
			fmt.Printf("  %s\n", cat)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long:  `Shows the configuration file location and its effective values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("Scan depth: %d\n", cfg.ScanDepth)
		fmt.Printf("Best effort: %v\n", cfg.BestEffort)
		fmt.Printf("Max suffix: %d\n", cfg.MaxSuffix)
		if cfg.RulesPath != "" {
			fmt.Printf("Rules path: %s\n", cfg.RulesPath)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&rulesPath, "rules", "r", "", "rules file path (JSON or YAML)")

	planCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the plan JSON here (default: temp dir)")
	planCmd.Flags().StringVar(&outputFmt, "format", "summary", "terminal output format (summary, table, json, yaml)")
	planCmd.Flags().IntVar(&scanDepth, "depth", 1, "scan depth below each folder")
	planCmd.Flags().BoolVar(&includeHidden, "hidden", false, "include hidden files")
	planCmd.Flags().BoolVar(&bestEffort, "best-effort", false, "skip unreadable folders instead of failing")
	planCmd.Flags().StringVar(&categoryRoot, "category-root", "", "base directory for category folders (default: first scanned folder)")
	planCmd.Flags().IntVar(&maxSuffix, "max-suffix", 0, "bound for \"name (N)\" conflict suffixes")
	planCmd.Flags().BoolVar(&noSuffix, "no-disambiguation", false, "conflict-skip duplicates instead of suffixing")
	planCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the plan preview TUI")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}

func loadRules(cfg *config.Config) (*rules.Set, error) {
	if cfg.RulesPath == "" {
		return rules.Default(), nil
	}
	return rules.Load(cfg.RulesPath)
}
