package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hyperflow/config"
	"hyperflow/internal/pipeline"
	"hyperflow/logger"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	outputPath := flag.String("output", "", "Artifact output path (overrides config)")

	flag.Parse()

	// A missing config file is only fatal when the path was given explicitly.
	configRequired := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configRequired = true
		}
	})

	cfg, err := config.LoadConfig(*configPath, configRequired)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if *outputPath != "" {
		cfg.Writer.OutputPath = *outputPath
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	if cfg.Metrics.CloudWatch {
		logger.InitCloudWatch(cfg.Storage.S3.Region, cfg.Metrics.Namespace)
	}

	env := config.AppEnvironment()
	if config.IsProductionLike(env) && !cfg.Storage.S3.Enabled {
		log.WithFields(logger.Fields{"environment": env}).Warn("s3 publishing disabled, artifact stays local only")
	}
	log.WithFields(logger.Fields{
		"service":     cfg.Hyperflow.Name,
		"version":     cfg.Hyperflow.Version,
		"environment": env,
		"output_path": cfg.Writer.OutputPath,
	}).Info("starting hyperflow")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to initialize pipeline")
		os.Exit(1)
	}

	runErr := p.Run(ctx)
	logger.EmitRunReport(log)

	if runErr != nil {
		log.WithError(runErr).Error("snapshot run failed")
		os.Exit(1)
	}
}
