package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-price-books/booklist"
	"github.com/aluiziolira/go-price-books/config"
	"github.com/aluiziolira/go-price-books/fetcher"
	"github.com/aluiziolira/go-price-books/models"
	"github.com/aluiziolira/go-price-books/results"
	"github.com/aluiziolira/go-price-books/scheduler"
)

func main() {
	defaultCfg := config.DefaultConfig()

	inputDefault := defaultCfg.InputFile
	if value, ok := config.EnvString("BOOKPRICER_INPUT"); ok {
		inputDefault = value
	}
	outputDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("BOOKPRICER_OUTPUT"); ok {
		outputDefault = value
	}
	userDataDirDefault := defaultCfg.UserDataDir
	if value, ok := config.EnvString("BOOKPRICER_USER_DATA_DIR"); ok {
		userDataDirDefault = value
	}
	profileDirDefault := defaultCfg.ProfileDir
	if value, ok := config.EnvString("BOOKPRICER_PROFILE_DIR"); ok {
		profileDirDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("BOOKPRICER_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	cacheDefault := defaultCfg.CacheSize
	if value, ok, err := config.EnvInt("BOOKPRICER_CACHE_SIZE"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid BOOKPRICER_CACHE_SIZE: %v\n", err)
		os.Exit(1)
	} else if ok {
		cacheDefault = value
	}

	inputFile := flag.String("input", inputDefault, "Input CSV with Title, Author, ISBN columns")
	outputFile := flag.String("output", outputDefault, "Output file path (default: timestamped book_values CSV)")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Output format: csv, json, or dual")
	engine := flag.String("engine", defaultCfg.Engine, "Fetch engine: browser or static")
	delayMinSec := flag.Int("delay-min", int(defaultCfg.DelayMin/time.Second), "Minimum delay between searches (seconds)")
	delayMaxSec := flag.Int("delay-max", int(defaultCfg.DelayMax/time.Second), "Maximum delay between searches (seconds)")
	timeoutSec := flag.Int("timeout", int(defaultCfg.Timeout/time.Second), "Per-fetch timeout (seconds)")
	userDataDir := flag.String("user-data-dir", userDataDirDefault, "Chrome user-data-dir for the browser engine")
	profileDir := flag.String("profile-dir", profileDirDefault, "Chrome profile-directory for the browser engine")
	cacheSize := flag.Int("cache-size", cacheDefault, "Fetch cache entries (0 disables caching)")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	setLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.InputFile = *inputFile
	cfg.OutputFile = *outputFile
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.Engine = strings.ToLower(*engine)
	cfg.DelayMin = time.Duration(*delayMinSec) * time.Second
	cfg.DelayMax = time.Duration(*delayMaxSec) * time.Second
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second
	cfg.UserDataDir = *userDataDir
	cfg.ProfileDir = *profileDir
	cfg.CacheSize = *cacheSize
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.InputFile == "" {
		slog.Error("no input file given, use -input")
		os.Exit(1)
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = fmt.Sprintf("book_values_%s.csv", time.Now().Format("20060102_150405"))
	}

	queries, err := booklist.Load(cfg.InputFile)
	if err != nil {
		slog.Error("loading book list", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("book list loaded",
		slog.String("file", cfg.InputFile),
		slog.Int("rows", len(queries)),
	)

	f, err := newFetcher(cfg)
	if err != nil {
		// A missing fetch capability is the one run-fatal condition.
		slog.Error("establishing search session", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("close fetcher", slog.Any("error", err))
		}
	}()

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, stopping after the current book")
	}()

	sched := scheduler.New(cfg, f)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(sched.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	// The scheduler is the only writer of the progress stream; this
	// goroutine is its only reader.
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for e := range sched.Events() {
			if e.Status == "" {
				slog.Info(e.Message, slog.Int("book", e.Index), slog.String("query", e.Term.Query))
				continue
			}
			slog.Info("book recorded",
				slog.Int("book", e.Index),
				slog.String("query", e.Term.Query),
				slog.String("status", string(e.Status)),
				slog.String("detail", e.Message),
			)
		}
	}()

	table, summary, runErr := sched.Run(ctx, queries)
	<-progressDone

	if table.Len() > 0 {
		if err := table.Export(writer); err != nil {
			slog.Error("export failed", slog.Any("error", err))
			os.Exit(1)
		}
		if err := writer.Validate(); err != nil {
			slog.Error("output validation failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(summary, len(queries), cfg.OutputFile)

	if runErr != nil {
		slog.Error("run ended early", slog.Any("error", runErr))
		os.Exit(1)
	}
}

func newFetcher(cfg *config.Config) (fetcher.Fetcher, error) {
	var base fetcher.Fetcher
	switch cfg.Engine {
	case "browser":
		browser, err := fetcher.NewBrowser(cfg)
		if err != nil {
			return nil, err
		}
		base = browser
	case "static":
		base = fetcher.NewStatic(cfg)
	default:
		return nil, fmt.Errorf("unsupported engine: %s", cfg.Engine)
	}

	if cfg.CacheSize > 0 {
		return fetcher.NewCached(base, cfg.CacheSize)
	}
	return base, nil
}

func createWriter(format, filename string) (results.ResultWriter, error) {
	switch format {
	case "json":
		return results.NewJSONWriter(filename)
	case "csv":
		return results.NewCSVWriter(filename)
	case "dual":
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".json"
		return results.NewDualWriter(filename, jsonFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(summary *models.RunSummary, total int, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Printf("Run %s\n", summary.Outcome)
	fmt.Printf("  Books in list:  %d\n", total)
	fmt.Printf("  Recorded:       %d\n", summary.Processed)
	fmt.Printf("  Found:          %d\n", summary.Found)
	fmt.Printf("  No results:     %d\n", summary.NoResults)
	fmt.Printf("  Skipped:        %d\n", summary.Skipped)
	fmt.Printf("  Errors:         %d\n", summary.Errors)
	fmt.Printf("  Searches:       %d (%d fallback)\n", summary.FetchCount, summary.FallbackCount)
	if unprocessed := total - summary.Processed; unprocessed > 0 {
		fmt.Printf("  Not processed:  %d\n", unprocessed)
	}
	fmt.Printf("  Duration:       %v\n", summary.EndTime.Sub(summary.StartTime).Round(time.Second))
	fmt.Printf("  Output file:    %s\n", outputFile)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
