// Package main provides the lattice command, which discovers and labels
// concepts in a JSONL export of publications.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/lattice/internal/logger"
	"github.com/cognicore/lattice/internal/source"
	"github.com/cognicore/lattice/pkg/lattice"
	"github.com/cognicore/lattice/pkg/lattice/config"
	"github.com/cognicore/lattice/pkg/lattice/fca"
	"github.com/cognicore/lattice/pkg/lattice/store"
	"github.com/cognicore/lattice/pkg/lattice/store/memstore"
	"github.com/cognicore/lattice/pkg/lattice/store/sqlite"
	"github.com/cognicore/lattice/pkg/lattice/tags"
)

const (
	Version = "0.1.0"
	appName = "lattice"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath   string
	stoplistPath string
	logLevel     string
	logFormat    string
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Concept discovery for publication working sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.stoplistPath, "stoplist", "", "Stoplist file (YAML), overrides config stopwords")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "console", "Log format (console, json)")

	cmd.AddCommand(analyzeCmd(&g), conceptsCmd(&g), historyCmd(&g), showCmd(&g))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// setup loads configuration and builds an engine.
func (g *globalFlags) setup(extraKeywords []string) (*lattice.Engine, []string, *zap.Logger, error) {
	log, err := logger.New(g.logLevel, g.logFormat)
	if err != nil {
		return nil, nil, nil, err
	}

	loader := config.Loader{ConfigPath: g.configPath, StoplistPath: g.stoplistPath}
	comp, err := loader.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	kws := append(append([]string(nil), comp.Keywords...), extraKeywords...)
	engine := lattice.New(lattice.Options{
		Stopwords: comp.Stopwords,
		Analysis:  &comp.Analysis,
		Logger:    log,
	})
	return engine, kws, log, nil
}

func loadDocuments(path string, log *zap.Logger) ([]fca.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("--input required")
	}
	docs, err := source.LoadFromJSONL(path, log)
	if err != nil {
		return nil, err
	}
	if err := lattice.ValidateDocuments(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func analyzeCmd(g *globalFlags) *cobra.Command {
	var (
		input    string
		keywords []string
		dbPath   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank, name and assign concepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, kws, log, err := g.setup(keywords)
			if err != nil {
				return err
			}
			defer log.Sync()

			plain, err := loadDocuments(input, log)
			if err != nil {
				return err
			}
			docs := make([]*tags.Document, len(plain))
			for i, d := range plain {
				docs[i] = &tags.Document{Document: d}
			}

			report := engine.Analyze(docs, kws)
			run := store.NewRecorder().Record(report, kws, len(docs))

			archived, err := archive(cmd.Context(), dbPath, run)
			if err != nil {
				return err
			}
			if dbPath != "" {
				log.Info("run archived", zap.String("id", run.ID), zap.String("db", dbPath))
			}

			return writeJSON(cmd.OutOrStdout(), newRunOutput(archived, report.Assignments))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to JSONL file (required)")
	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "Boost keyword expression, repeatable (e.g. \"VISUAL|VIS\")")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to archive the run (in-memory when unset)")
	return cmd
}

func conceptsCmd(g *globalFlags) *cobra.Command {
	var (
		input    string
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "concepts",
		Short: "Print every formal concept of the working set",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, kws, log, err := g.setup(keywords)
			if err != nil {
				return err
			}
			defer log.Sync()

			docs, err := loadDocuments(input, log)
			if err != nil {
				return err
			}

			concepts := engine.ComputeConcepts(docs, kws)
			out := make([]conceptOutput, len(concepts))
			for i, c := range concepts {
				out[i] = conceptOutput{Extent: c.Extent, Intent: attributeStrings(c.Intent)}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to JSONL file (required)")
	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "Boost keyword expression, repeatable")
	return cmd
}

func historyCmd(g *globalFlags) *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := make([]summaryOutput, len(runs))
			for i, r := range runs {
				out[i] = summaryOutput{
					ID:        r.ID,
					CreatedAt: r.CreatedAt.Format(time.RFC3339),
					Keywords:  r.Keywords,
					Documents: r.Documents,
					Concepts:  len(r.Concepts),
				}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (required)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func showCmd(g *globalFlags) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), newRunOutput(run, nil))
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (required)")
	return cmd
}

func openStore(ctx context.Context, dbPath string) (store.Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("--db required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return sqlite.OpenSQLite(ctx, dbPath)
}

// archive saves run and returns it as read back from the store. Without a
// database path the run lives in memory for the duration of the command.
func archive(ctx context.Context, dbPath string, run store.Run) (store.Run, error) {
	var (
		st  store.Store
		err error
	)
	if dbPath == "" {
		st = memstore.New()
	} else if st, err = openStore(ctx, dbPath); err != nil {
		return store.Run{}, err
	}
	defer st.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return store.Run{}, fmt.Errorf("archive run: %w", err)
	}
	return st.GetRun(ctx, run.ID)
}

func attributeStrings(attrs []fca.Attribute) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.String()
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
