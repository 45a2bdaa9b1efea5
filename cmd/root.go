package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	gifilter "github.com/mtakeda/gifilter"
	"github.com/mtakeda/gifilter/pkg/version"
)

var (
	flagPath     string
	flagPatterns []string
	flagCase     string // auto|yes|no
	flagWorkers  int
	flagStats    bool
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:     "gifilter",
	Short:   "List files surviving gitignore-style exclusion rules",
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(flagVerbose)

		opts := gifilter.Options{
			CustomPatterns: flagPatterns,
			Workers:        flagWorkers,
			Logger:         &logger,
		}
		switch strings.ToLower(flagCase) {
		case "auto", "":
			// defer to git config
		case "yes", "true", "on":
			v := true
			opts.CaseSensitive = &v
		case "no", "false", "off":
			v := false
			opts.CaseSensitive = &v
		default:
			return fmt.Errorf("invalid --case-sensitive %q (want auto, yes or no)", flagCase)
		}

		res, err := gifilter.Scan(flagPath, opts)
		if err != nil {
			return err
		}

		for _, f := range res.Files {
			fmt.Fprintln(os.Stdout, f)
		}
		if flagStats {
			printStats(res.Stats)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// printStats renders the session summary to stderr so stdout stays a clean
// file list.
func printStats(s gifilter.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stderr)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Files", s.Files},
		{"Tasks", s.Tasks},
		{"Workers", s.Workers},
		{"Patterns", s.Patterns},
		{"Cache hits", s.CacheHits},
		{"Cache misses", s.CacheMiss},
		{"Hit ratio", fmt.Sprintf("%.2f", s.HitRatio())},
		{"Elapsed", s.Elapsed.String()},
	})
	t.Render()
}

func init() {
	rootCmd.Flags().StringVarP(&flagPath, "path", "p", ".", "directory to scan")
	rootCmd.Flags().StringArrayVar(&flagPatterns, "pattern", nil, "extra ignore pattern, root-scoped (repeatable)")
	rootCmd.Flags().StringVar(&flagCase, "case-sensitive", "auto", "case-sensitive matching: auto, yes or no")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker pool size (0 = number of CPUs)")
	rootCmd.Flags().BoolVar(&flagStats, "stats", false, "print a scan summary table to stderr")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}
