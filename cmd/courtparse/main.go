package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/courtdocs/internal/async"
	"github.com/joseph-ayodele/courtdocs/internal/common"
	"github.com/joseph-ayodele/courtdocs/internal/export"
	"github.com/joseph-ayodele/courtdocs/internal/insights"
	"github.com/joseph-ayodele/courtdocs/internal/logging"
	"github.com/joseph-ayodele/courtdocs/internal/pipeline"
	"github.com/joseph-ayodele/courtdocs/internal/server"
	"github.com/joseph-ayodele/courtdocs/internal/source"
)

var (
	envFile string
	cfg     *common.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "courtparse",
	Short: "Parse Ukrainian court decisions into structured records",
	Long: `courtparse extracts case form, decision status, parties, dates and
cited articles from court decision texts, stores the results and computes
aggregate insights over them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		cfg = common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		l, closer := logging.New(cfg.Log, os.Stderr)
		logger = l
		slog.SetDefault(logger)
		cobra.OnFinalize(func() { _ = closer.Close() })
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with configuration overrides")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	var noDB bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a single decision and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, logger, appOptions{withDB: !noDB, withParser: true})
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.proc.ProcessFile(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Document)
		},
	}

	cmd.Flags().BoolVar(&noDB, "no-db", false, "skip parse_job and parsed_document bookkeeping")
	return cmd
}

func batchCmd() *cobra.Command {
	var (
		dir     string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Parse every supported file in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dir == "" {
				dir = cfg.Server.InputRoot
			}
			if workers <= 0 {
				workers = cfg.Worker.Workers
			}

			paths, err := source.List(dir)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no supported files in %s\n", dir)
				return nil
			}

			a, err := newApp(ctx, cfg, logger, appOptions{withDB: true, withParser: true})
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := pipeline.RunBatch(ctx, a.proc, paths, logger,
				async.WithWorkers(workers),
				async.WithQueueSize(cfg.Worker.QueueSize),
				async.WithProcessTimeout(cfg.Worker.ProcessTimeout),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsed %d/%d documents\n", report.Parsed, report.Total)
			for path, msg := range report.Failures {
				fmt.Fprintf(out, "  FAILED %s: %s\n", filepath.Base(path), msg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "input directory (defaults to INPUT_ROOT)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of parallel workers (defaults to WORKERS)")
	return cmd
}

func insightsCmd() *cobra.Command {
	var (
		from string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Compute efficiency and corpus statistics over parsed documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, logger, appOptions{withDB: from == "db"})
			if err != nil {
				return err
			}
			defer a.Close()

			var src insights.Source
			switch from {
			case "db":
				src = insights.RepositorySource{Repo: a.docs}
			case "storage":
				src = insights.StorageSource{Store: a.store}
			default:
				return fmt.Errorf("%w: --from must be db or storage", common.ErrInvalidInput)
			}

			report, err := insights.Analyze(ctx, src, logger)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			effJSON, err := report.EfficiencyJSON()
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(out, "efficiency.json"), effJSON, 0o644); err != nil {
				return err
			}
			xlsx, err := export.NewService(logger).InsightsXLSX(ctx, report)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(out, "insights.xlsx"), xlsx, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Analysed %d documents, average efficiency %.3f%%\n",
				report.Documents, report.Efficiency.AveragePercentage)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "db", "where to read parsed documents from: db or storage")
	cmd.Flags().StringVar(&out, "out", "./data/insights", "output directory for efficiency.json and insights.xlsx")
	return cmd
}

func watchCmd() *cobra.Command {
	var (
		dir         string
		initialScan bool
		debounce    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Parse decisions as they appear in the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if dir == "" {
				dir = cfg.Server.InputRoot
			}

			a, err := newApp(ctx, cfg, logger, appOptions{withDB: true, withParser: true})
			if err != nil {
				return err
			}
			defer a.Close()

			q := async.NewProcessorQueue(a.proc, logger,
				async.WithWorkers(cfg.Worker.Workers),
				async.WithQueueSize(cfg.Worker.QueueSize),
				async.WithProcessTimeout(cfg.Worker.ProcessTimeout),
			)
			defer q.Shutdown(context.WithoutCancel(ctx))

			events, errs, err := source.Watch(ctx, source.WatchConfig{
				Roots:       []string{dir},
				InitialScan: initialScan,
				Debounce:    debounce,
			}, logger)
			if err != nil {
				return err
			}
			logger.Info("watch.started", "dir", dir)

			for {
				select {
				case path, ok := <-events:
					if !ok {
						return nil
					}
					if err := q.Enqueue(ctx, async.NewJob(path)); err != nil {
						logger.Warn("watch.enqueue.failed", "path", path, "err", err)
					}
				case err, ok := <-errs:
					if ok {
						logger.Warn("watch.error", "err", err)
					} else {
						errs = nil
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to watch (defaults to INPUT_ROOT)")
	cmd.Flags().BoolVar(&initialScan, "initial-scan", true, "parse files already present on start")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "coalesce bursts of file events")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser over gRPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger, appOptions{withDB: true, withParser: true})
			if err != nil {
				return err
			}
			defer a.Close()

			lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", cfg.Server.GRPCAddr, err)
			}

			svc := server.NewParserService(a.proc, a.docs, cfg.Server.InputRoot, logger)
			grpcServer, _ := server.NewGRPCServer(svc)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("grpc.server.started", "addr", lis.Addr().String())
				errCh <- grpcServer.Serve(lis)
			}()

			select {
			case <-ctx.Done():
				logger.Info("grpc.server.stopping")
				grpcServer.GracefulStop()
				return nil
			case err := <-errCh:
				return err
			}
		},
	}
}

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the parse_job and parsed_document tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, logger, appOptions{withDB: true})
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	})

	var timeout time.Duration
	health := &cobra.Command{
		Use:   "health",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, logger, appOptions{withDB: true})
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.db.HealthCheck(ctx, timeout, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database OK (%s)\n", a.db.Dialect())
			return nil
		},
	}
	health.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "ping timeout")
	cmd.AddCommand(health)

	return cmd
}
