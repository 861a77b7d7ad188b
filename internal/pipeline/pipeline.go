package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	appconfig "hyperflow/config"
	"hyperflow/internal/models"
	"hyperflow/logger"
	"hyperflow/processor"
	hyperliquid "hyperflow/reader/hyperliquid"
	"hyperflow/writer"
)

// Pipeline runs one snapshot build: fetch markets, leaderboard and top
// account positions, normalize, write the artifact. Each run is stateless;
// nothing carries over between invocations.
type Pipeline struct {
	config    *appconfig.Config
	client    *hyperliquid.Client
	writer    *writer.ArtifactWriter
	publisher *writer.S3Publisher
	log       *logger.Log
}

// New wires the fetch, normalize and write stages from configuration.
func New(cfg *appconfig.Config) (*Pipeline, error) {
	publisher, err := writer.NewS3Publisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize s3 publisher: %w", err)
	}

	return &Pipeline{
		config:    cfg,
		client:    hyperliquid.NewClient(cfg),
		writer:    writer.NewArtifactWriter(cfg),
		publisher: publisher,
		log:       logger.GetLogger(),
	}, nil
}

// Run executes the linear fetch -> normalize -> write sequence. A fetch or
// parse failure on the two required stages aborts before anything is
// written, leaving the previous artifact untouched. Per-account position
// failures are tolerated and reported as a warning.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	start := time.Now()

	if p.config.Snapshot.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Snapshot.RunTimeout)
		defer cancel()
	}

	log := p.log.WithComponent("pipeline").WithFields(logger.Fields{"run_id": runID})
	log.Info("starting snapshot run")

	// Markets and leaderboard are independent; fetch them concurrently.
	var (
		wg          sync.WaitGroup
		meta        *models.MetaAndAssetCtxs
		metaErr     error
		leaderboard []models.LeaderboardRow
		lbErr       error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		meta, metaErr = p.client.FetchMeta(ctx)
	}()
	go func() {
		defer wg.Done()
		leaderboard, lbErr = p.client.FetchLeaderboard(ctx)
	}()
	wg.Wait()

	if metaErr != nil {
		log.WithError(metaErr).Error("market fetch failed, aborting run")
		return fmt.Errorf("markets stage: %w", metaErr)
	}
	if lbErr != nil {
		log.WithError(lbErr).Error("leaderboard fetch failed, aborting run")
		return fmt.Errorf("leaderboard stage: %w", lbErr)
	}

	ranked := processor.RankTraders(leaderboard, p.config.Snapshot.PnlWindow, p.config.Snapshot.TopTraders)
	accounts := processor.TopAccounts(ranked, p.config.Snapshot.PositionAccounts)

	positions, failed := p.client.FetchPositions(ctx, accounts)
	if failed > 0 {
		partial := &PartialDataError{Failed: failed, Requested: len(accounts)}
		log.WithFields(logger.Fields{
			"failed_accounts": failed,
			"requested":       len(accounts),
		}).Warn(partial.Error())
	}
	if ctx.Err() != nil {
		// the run deadline expired mid-stage; a snapshot built from a
		// truncated account set must not replace the previous artifact
		log.WithError(ctx.Err()).Error("run deadline expired during position fetch, aborting")
		return fmt.Errorf("positions stage: %w", ctx.Err())
	}

	snapshot := processor.BuildSnapshot(processor.RawInputs{
		Meta:        meta,
		Leaderboard: leaderboard,
		Positions:   positions,
	}, p.config, time.Now().UTC())

	data, err := p.writer.Write(snapshot)
	if err != nil {
		log.WithError(err).Error("artifact write failed")
		return fmt.Errorf("write stage: %w", err)
	}

	if err := p.publisher.Publish(ctx, data); err != nil {
		log.WithError(err).Warn("artifact publish failed, local artifact is current")
	}

	duration := time.Since(start)
	log.WithFields(logger.Fields{
		"markets":          len(snapshot.Markets),
		"leaderboard":      len(snapshot.Leaderboard),
		"risky_positions":  len(snapshot.RiskyPositions),
		"accounts_polled":  len(positions),
		"accounts_failed":  failed,
		"duration_seconds": duration.Seconds(),
	}).Info("snapshot run complete")

	p.log.LogMetric("pipeline", "markets_count", int64(len(snapshot.Markets)), "gauge", logger.Fields{"run_id": runID})
	p.log.LogMetric("pipeline", "accounts_failed", int64(failed), "counter", logger.Fields{"run_id": runID})
	logger.LogPerformanceEntry(log, "pipeline", "snapshot_run", duration, nil)

	return nil
}
