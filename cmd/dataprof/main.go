package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dataprof/dataprof/pkg/config"
	"github.com/dataprof/dataprof/pkg/ingest"
	"github.com/dataprof/dataprof/pkg/logger"
	"github.com/dataprof/dataprof/pkg/profile"
	"github.com/dataprof/dataprof/pkg/store"

	// Register the statistics engine as the column codec
	_ "github.com/dataprof/dataprof/pkg/statistics"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	root := &cobra.Command{
		Use:   "dataprof",
		Short: "dataprof - Streaming statistics profiling for tabular data",
		Long: `dataprof builds per-column statistical profiles over arbitrarily large
datasets without retaining raw data, merges profiles computed on separate
partitions, and stores them as length-delimited binary streams.`,
	}

	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Config{Level: logLevel, Encoding: "console"})
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dataprof v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newProfileCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newCatCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newProfileCmd profiles a CSV file and appends the result to a store file.
func newProfileCmd() *cobra.Command {
	var configFile, name, output, compression string
	var noHeader bool

	cmd := &cobra.Command{
		Use:   "profile <csv-file>",
		Short: "Profile a CSV file and store the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewSessionConfig(name)
			if configFile != "" {
				if err := config.Load(configFile, cfg); err != nil {
					return err
				}
			}
			if name != "" {
				cfg.Dataset = name
			}
			if output != "" {
				cfg.Store.Path = output
			}
			if compression != "" {
				cfg.Store.Compression = compression
			}
			if cfg.Dataset == "" {
				cfg.Dataset = "dataset"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			p, err := ingest.CSVProfile(cfg.Dataset, profile.Config{
				SessionID:     cfg.SessionID,
				DataTimestamp: cfg.ParsedDataTimestamp(),
				Tags:          cfg.Tags,
				Metadata:      cfg.Metadata,
			}, args[0], !noHeader)
			if err != nil {
				return err
			}

			logger.Info("profile built",
				zap.String("dataset", p.Name()),
				zap.String("session_id", p.SessionID()),
				zap.Int("columns", len(p.ColumnNames())))

			if cfg.Store.Path == "" {
				return printFlatSummary(p)
			}

			codec, err := store.ParseCompression(cfg.Store.Compression)
			if err != nil {
				return err
			}
			return store.WriteFile(cfg.Store.Path, codec, p)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to session configuration YAML file")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Profile name (overrides config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Store file to write; prints a summary when omitted")
	cmd.Flags().StringVar(&compression, "compression", "", "Store compression codec (none, gzip, snappy, s2, zstd, lz4)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Treat the first CSV row as data")
	return cmd
}

// newMergeCmd merges every profile in a store file into one.
func newMergeCmd() *cobra.Command {
	var compression, output string

	cmd := &cobra.Command{
		Use:   "merge <store-file>",
		Short: "Merge all profiles in a store file into one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := store.ParseCompression(compression)
			if err != nil {
				return err
			}
			profiles, err := store.ReadFile(args[0], codec)
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				return fmt.Errorf("store %s holds no profiles", args[0])
			}

			merged := profiles[0]
			for _, p := range profiles[1:] {
				merged, err = merged.Merge(p)
				if err != nil {
					return err
				}
			}

			logger.Info("profiles merged",
				zap.Int("inputs", len(profiles)),
				zap.String("session_id", merged.SessionID()))

			if output == "" {
				return printFlatSummary(merged)
			}
			return store.WriteFile(output, codec, merged)
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "none", "Store compression codec")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Store file to write; prints a summary when omitted")
	return cmd
}

// newShowCmd prints the flat summary of every profile in a store file.
func newShowCmd() *cobra.Command {
	var compression string

	cmd := &cobra.Command{
		Use:   "show <store-file>",
		Short: "Print flat summaries of stored profiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := store.ParseCompression(compression)
			if err != nil {
				return err
			}
			profiles, err := store.ReadFile(args[0], codec)
			if err != nil {
				return err
			}
			for _, p := range profiles {
				if err := printFlatSummary(p); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "none", "Store compression codec")
	return cmd
}

// newCatCmd lists the profiles in a store file without expanding them.
func newCatCmd() *cobra.Command {
	var compression string

	cmd := &cobra.Command{
		Use:   "cat <store-file>",
		Short: "List profiles in a store file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := store.ParseCompression(compression)
			if err != nil {
				return err
			}
			profiles, err := store.ReadFile(args[0], codec)
			if err != nil {
				return err
			}
			for i, p := range profiles {
				fmt.Printf("%d\t%s\tsession=%s\tcolumns=%d\n",
					i, p.Name(), p.SessionID(), len(p.ColumnNames()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "none", "Store compression codec")
	return cmd
}

// printFlatSummary writes a human-readable scalar summary to stdout.
func printFlatSummary(p *profile.Profile) error {
	flat, err := p.FlatSummary()
	if err != nil {
		return err
	}

	fmt.Printf("profile %q (session %s)\n", p.Name(), p.SessionID())
	for _, row := range flat.Summary {
		name, _ := row["column"].(string)
		fmt.Printf("  column %s\n", name)

		keys := make([]string, 0, len(row))
		for k := range row {
			if k == "column" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    %-28s %v\n", k, row[k])
		}
	}
	return nil
}
