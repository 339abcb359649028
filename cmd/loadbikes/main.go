package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/KennielTorres/londonbikesETL/internal/config"
	"github.com/KennielTorres/londonbikesETL/internal/etl"
	"github.com/KennielTorres/londonbikesETL/internal/metrics"
	"github.com/KennielTorres/londonbikesETL/internal/metrics/datadog"
	"github.com/KennielTorres/londonbikesETL/internal/metrics/prompush"
	"github.com/KennielTorres/londonbikesETL/internal/storage"

	// register the postgres backend with the storage factory.
	_ "github.com/KennielTorres/londonbikesETL/internal/storage/postgres"
)

// main is the entry point for the loader binary. It reads the run file,
// optionally initializes a metrics backend, connects to storage with
// credentials from the environment, and executes one full load.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		dogstatsdAddrFlg  string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/load_data.json", "run config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none); defaults to env METRICS_BACKEND, then none")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddrFlg, "dogstatsd-addr", "", "DogStatsD agent address (overrides env DOGSTATSD_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	// Credentials may live in a local .env during development; absence is
	// fine, the variables can come from the real environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("env: %v", err)
	}

	cfg, err := config.ReadFile(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidateLoad(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}

	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	// A missing credential bundle is fatal here: pgxpool connects lazily,
	// so an empty DSN would otherwise fail only once the run is underway.
	db := config.FromEnv()
	if err := db.Validate(); err != nil {
		fatalf("%v", err)
	}

	setupMetrics(metricsBackendFlg, pushGatewayURLFlg, dogstatsdAddrFlg, cfg.Job, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	repo, err := storage.New(ctx, storage.Config{
		Kind:   cfg.Storage.Kind,
		DSN:    db.DSN(),
		Schema: cfg.Storage.Schema,
	})
	if err != nil {
		fatalf("storage: %v", err)
	}
	defer repo.Close()

	if *verbose {
		log.Printf("run: job=%s stations=%s journeys=%s storage=%s",
			cfg.Job, cfg.Stations.Path, cfg.Journeys.Path, cfg.Storage.Kind)
	}

	if _, err := etl.Run(ctx, cfg, repo); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// resolveMetricsBackend picks the backend name: flag, then env
// METRICS_BACKEND, then "none".
func resolveMetricsBackend(flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv("METRICS_BACKEND"); v != "" {
		return v
	}
	return "none"
}

// setupMetrics resolves the metrics backend from flag then environment and
// installs it. Failures never stop the run; the nop backend remains.
func setupMetrics(backendName, gwURLFlg, dogAddrFlg, jobName string, verbose bool) {
	backendName = resolveMetricsBackend(backendName)
	if jobName == "" {
		jobName = "ldn_bike_load"
	}

	switch backendName {
	case "pushgateway":
		gwURL := gwURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%v url=%v job=%v", backendName, gwURL, jobName)
		metrics.SetBackend(b)

	case "datadog":
		addr := dogAddrFlg
		if addr == "" {
			addr = os.Getenv("DOGSTATSD_ADDR")
		}
		b, err := datadog.NewBackend(addr, []string{"job:" + jobName})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%v addr=%v job=%v", backendName, addr, jobName)
		metrics.SetBackend(b)

	case "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
