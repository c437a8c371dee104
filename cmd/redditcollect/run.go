package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	collector "github.com/cnu-smr/reddit-collector"
	"github.com/cnu-smr/reddit-collector/pkg/export"
	"github.com/cnu-smr/reddit-collector/pkg/metrics"
	"github.com/cnu-smr/reddit-collector/pkg/store"
	"github.com/cnu-smr/reddit-collector/pkg/types"
)

var runConfigPath string

// runConfig describes a batch of collection jobs.
type runConfig struct {
	KeysFile    string   `yaml:"keys_file"`
	OutputDir   string   `yaml:"output_dir"`
	Formats     []string `yaml:"formats"` // csv, json, sqlite
	SQLitePath  string   `yaml:"sqlite_path"`
	Schedule    string   `yaml:"schedule"` // cron expression; empty runs once
	MetricsAddr string   `yaml:"metrics_addr"`

	RateLimit struct {
		WindowTimeSec int `yaml:"window_time_sec"`
		MaxRequests   int `yaml:"max_requests_in_window"`
	} `yaml:"ratelimit"`

	Jobs []jobConfig `yaml:"jobs"`
}

type jobConfig struct {
	Subreddit     string   `yaml:"subreddit"`
	Terms         []string `yaml:"terms"`
	Count         int      `yaml:"count"`
	Sort          string   `yaml:"sort"`
	FetchComments bool     `yaml:"fetch_comments"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a batch of collection jobs from a config file",
	Long: `Run every collection job described in a YAML config file, once or on
a cron schedule. Each job searches one subreddit for a list of terms and can
optionally fetch the full comment tree of every matched post. Results are
written per job and term to the configured formats.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", runConfigPath, err)
		}

		var cfg runConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", runConfigPath, err)
		}
		applyRunDefaults(&cfg)

		if cfg.KeysFile != "" {
			keysFile = cfg.KeysFile
		}
		if cfg.RateLimit.WindowTimeSec > 0 {
			windowTimeSec = cfg.RateLimit.WindowTimeSec
		}
		if cfg.RateLimit.MaxRequests > 0 {
			maxRequests = cfg.RateLimit.MaxRequests
		}

		recorder := metrics.NewPrometheus(prometheus.DefaultRegisterer)
		client, err := newCollectorClient(recorder)
		if err != nil {
			return err
		}

		if cfg.MetricsAddr != "" {
			go serveMetrics(cfg.MetricsAddr)
		}

		if cfg.Schedule == "" {
			return runJobs(cmd.Context(), client, &cfg)
		}
		return runScheduled(client, &cfg)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "collect.yaml", "config file path")

	rootCmd.AddCommand(runCmd)
}

func applyRunDefaults(cfg *runConfig) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = []string{"csv"}
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.OutputDir, "archive.db")
	}
}

// runScheduled keeps the process alive and fires the job batch on the
// configured cron schedule until interrupted.
func runScheduled(client *collector.Client, cfg *runConfig) error {
	logger := newLogger()

	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()

		start := time.Now()
		if err := runJobs(ctx, client, cfg); err != nil {
			logger.Error("scheduled collection failed", "err", err)
			return
		}
		logger.Info("scheduled collection complete", "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}

	c.Start()
	defer c.Stop()
	logger.Info("scheduler started", "schedule", cfg.Schedule)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

func runJobs(ctx context.Context, client *collector.Client, cfg *runConfig) error {
	var archive *store.Store
	if hasFormat(cfg.Formats, "sqlite") {
		var err error
		archive, err = store.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	for _, job := range cfg.Jobs {
		sort := types.SortBy(job.Sort)
		count := job.Count
		if count <= 0 {
			count = 1000
		}

		for _, term := range job.Terms {
			posts, err := client.SearchPosts(ctx, job.Subreddit, term, count, sort)
			if err != nil {
				return err
			}

			if err := writeJobPosts(cfg, job.Subreddit, term, posts, archive); err != nil {
				return err
			}

			if !job.FetchComments {
				continue
			}
			for _, post := range posts {
				comments, err := client.GetComments(ctx, &types.CommentsRequest{PostID: post.ID})
				if err != nil {
					return err
				}
				if err := writeJobComments(cfg, job.Subreddit, post.ID, comments, archive); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func writeJobPosts(cfg *runConfig, subreddit, term string, posts []*types.Post, archive *store.Store) error {
	base := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_posts", subreddit, term))

	for _, format := range cfg.Formats {
		switch format {
		case "csv":
			if err := writeFile(base+".csv", func(f *os.File) error {
				return export.WritePostsCSV(f, posts)
			}); err != nil {
				return err
			}
		case "json":
			if err := writeFile(base+".json", func(f *os.File) error {
				return export.WriteRawJSON(f, posts)
			}); err != nil {
				return err
			}
		case "sqlite":
			if err := archive.SavePosts(posts); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
	}

	return nil
}

func writeJobComments(cfg *runConfig, subreddit, postID string, comments []*types.Comment, archive *store.Store) error {
	base := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_comments", subreddit, postID))

	for _, format := range cfg.Formats {
		switch format {
		case "csv":
			if err := writeFile(base+".csv", func(f *os.File) error {
				return export.WriteCommentsCSV(f, comments)
			}); err != nil {
				return err
			}
		case "json":
			if err := writeFile(base+".json", func(f *os.File) error {
				return export.WriteRawJSON(f, comments)
			}); err != nil {
				return err
			}
		case "sqlite":
			if err := archive.SaveComments(comments); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
	}

	return nil
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func hasFormat(formats []string, want string) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	_ = http.ListenAndServe(addr, mux)
}
