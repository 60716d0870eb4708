package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"book-harvester/pkg/assets"
	"book-harvester/pkg/catalog"
	"book-harvester/pkg/config"
	"book-harvester/pkg/fetch"
	"book-harvester/pkg/walker"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	configFileFlag := flag.String("config", "config.yaml", "Path to YAML config file")
	startFlag := flag.Int("start", -1, "First listing page (inclusive); overrides config")
	endFlag := flag.Int("end", -1, "Last listing page (exclusive); overrides config")
	destFlag := flag.String("dest", "", "Destination root folder; overrides config")
	catalogFlag := flag.String("catalog", "", "Output catalog file path; overrides config")
	skipTextFlag := flag.Bool("skip-text", false, "Skip text body downloads")
	skipImagesFlag := flag.Bool("skip-images", false, "Skip cover image downloads")
	logLevelFlag := flag.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevelFlag)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", *logLevelFlag, err)
	} else {
		log.SetLevel(level)
	}

	// --- Load & Overlay Configuration ---
	cfg, err := config.Load(*configFileFlag)
	if err != nil {
		log.Fatalf("Load config '%s': %v", *configFileFlag, err)
	}
	if *startFlag >= 0 {
		cfg.StartPage = *startFlag
	}
	if *endFlag >= 0 {
		cfg.EndPage = *endFlag
	}
	if *destFlag != "" {
		cfg.DestDir = *destFlag
	}
	if *catalogFlag != "" {
		cfg.CatalogFile = *catalogFlag
	}
	if *skipTextFlag {
		cfg.SkipText = true
	}
	if *skipImagesFlag {
		cfg.SkipImages = true
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	log.Infof("Harvesting category %d, pages [%d, %d) from %s",
		cfg.CategoryID, cfg.StartPage, cfg.EndPage, cfg.CatalogRoot)

	// --- Signal Handling (run-level abort) ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Assemble Components ---
	client := fetch.NewClient(cfg.HTTPClientSettings, log)
	fetcher := fetch.NewFetcher(client, cfg.UserAgent, log)
	limiter := fetch.NewRateLimiter(cfg.DelayPerHost, log)
	home, err := cfg.HomeURL()
	if err != nil {
		log.Fatalf("Catalog root: %v", err)
	}
	downloader := assets.NewDownloader(fetcher, home, log)

	var robots *fetch.RobotsGate
	if cfg.RespectRobots {
		robots = fetch.NewRobotsGate(fetcher, cfg.UserAgent, log)
	}

	w, err := walker.New(cfg, fetcher, limiter, robots, downloader, log)
	if err != nil {
		log.Fatalf("Assemble walker: %v", err)
	}

	// --- Walk & Write ---
	// The catalog is written even on an interrupted or failed walk: a
	// partial record set is still a valid harvest.
	result, runErr := w.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Errorf("Walk ended with error: %v", runErr)
	}

	entries := result.Entries()
	if err := catalog.Write(cfg.CatalogFile, entries); err != nil {
		log.Fatalf("Write catalog '%s': %v", cfg.CatalogFile, err)
	}
	log.Infof("Catalog written: %s (%d entries)", cfg.CatalogFile, len(entries))

	if runErr != nil {
		os.Exit(1)
	}
}
