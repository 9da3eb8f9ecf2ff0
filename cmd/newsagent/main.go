package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/VamsiPutheti12/News-Agent/internal/cohort"
	"github.com/VamsiPutheti12/News-Agent/internal/config"
	"github.com/VamsiPutheti12/News-Agent/internal/pipeline"
	"github.com/VamsiPutheti12/News-Agent/internal/server"
	"github.com/VamsiPutheti12/News-Agent/internal/store"
	"github.com/VamsiPutheti12/News-Agent/internal/summarize"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newsagent",
	Short:   "Weekly AI content digests",
	Long:    "newsagent collects AI news and papers, ranks them, and curates a weekly digest.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !verbose {
			if level, perr := log.ParseLevel(cfg.Logging.Level); perr == nil {
				log.SetLevel(level)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsagent", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newsagent/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure feeds, categories, and the summarization API key.")
		return nil
	},
}

// --- run command ---

var (
	dryRun bool
	topN   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: fetch -> filter -> classify -> summarize -> rank -> store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if topN > 0 {
			cfg.Ranking.TopN = topN
		}

		var db *store.DB
		if !dryRun {
			var err error
			db, err = openDB()
			if err != nil {
				return err
			}
			defer db.Close()
		}

		ctx := context.Background()
		summarizer, cleanup := buildSummarizer(ctx)
		defer cleanup()

		pipe := pipeline.New(cfg, db, summarizer)
		result := pipe.Run(ctx)

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d: %s\n", i+1, step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		if result.Err != nil {
			return result.Err
		}

		fmt.Printf("\nWeek %s curated: %d items.\n", result.CohortKey, len(result.Selected))
		for i, it := range result.Selected {
			fmt.Printf("  %2d. [%s] %s (%.3f)\n", i+1, it.Category, it.Title, it.Score)
		}

		if dryRun {
			fmt.Println("\n[dry-run] Nothing was stored.")
		} else {
			fmt.Println("\nRun 'newsagent serve' to view the digest.")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without storing results")
	runCmd.Flags().IntVar(&topN, "top", 0, "Override the number of items to select")
}

// buildSummarizer wires the Gemini provider when an API key is present.
// Without one the pipeline still runs; items keep their excerpt summaries
// and neutral importance.
func buildSummarizer(ctx context.Context) (pipeline.Summarizer, func()) {
	if !cfg.Summarization.Enabled {
		return nil, func() {}
	}

	apiKey := os.Getenv(cfg.Summarization.APIKeyEnv)
	if apiKey == "" {
		log.Warnf("%s not set, skipping summarization", cfg.Summarization.APIKeyEnv)
		return nil, func() {}
	}

	provider, err := summarize.NewGemini(ctx, apiKey, cfg.Summarization.Model)
	if err != nil {
		log.WithError(err).Warn("Summarizer unavailable, continuing without enrichment")
		return nil, func() {}
	}

	s := summarize.New(provider, summarize.Options{
		Concurrency: cfg.Summarization.Concurrency,
		Timeout:     time.Duration(cfg.Summarization.TimeoutSeconds) * time.Second,
		MaxRetries:  cfg.Summarization.MaxRetries,
	})
	return s, provider.Close
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve digests over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		srv, err := server.New(db)
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if servePort > 0 {
			port = servePort
		}

		addr := fmt.Sprintf("127.0.0.1:%d", port)
		fmt.Printf("Serving digests on http://%s\n", addr)
		return http.ListenAndServe(addr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override the server port")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored cohorts and item counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		current := cohort.ForTime(time.Now())
		fmt.Printf("Current week: %s\n\n", current.Key())

		counts, err := db.CountByCohort()
		if err != nil {
			return fmt.Errorf("reading cohorts: %w", err)
		}
		if len(counts) == 0 {
			fmt.Println("No items stored yet. Run 'newsagent run' first.")
			return nil
		}

		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))

		fmt.Println("Stored weeks:")
		for _, k := range keys {
			marker := ""
			if k == current.Key() {
				marker = "  (current)"
			}
			fmt.Printf("  %s: %d items%s\n", k, counts[k], marker)
		}
		return nil
	},
}

func openDB() (*store.DB, error) {
	dbPath := filepath.Join(cfg.GetDataDir(), "newsagent.db")
	return store.Open(dbPath)
}
