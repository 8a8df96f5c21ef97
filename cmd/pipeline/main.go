// Command pipeline is the scheduled job that records daily portfolio
// snapshots and reports upcoming maturities through the pipeline API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"nidhi/internal/client"
	"nidhi/internal/config"
	"nidhi/internal/logger"
)

func main() {
	cfg, err := config.LoadPipeline()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.Named("pipeline")

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	pipeline := client.NewPipelineClient(cfg.APIURL, cfg.APIKey, httpClient)

	ctx := context.Background()
	start := time.Now()
	failed := false

	if cfg.ComputeSnapshots {
		recordedAt := time.Now().UTC().Truncate(time.Second)
		n, err := pipeline.ComputeSnapshots(ctx, recordedAt)
		if err != nil {
			log.Errorw("snapshot computation failed", "error", err)
			failed = true
		} else {
			log.Infow("snapshots recorded", "count", n, "recorded_at", recordedAt)
		}
	}

	maturities, err := pipeline.Maturities(ctx, cfg.MaturityDays)
	if err != nil {
		log.Errorw("maturity lookup failed", "error", err)
		failed = true
	}
	for _, m := range maturities {
		log.Infow("upcoming maturity",
			"owner_id", m.OwnerID,
			"type", m.Type,
			"position_id", m.PositionID,
			"stake_id", m.StakeID,
			"name", m.Name,
			"maturity_date", m.MaturityDate.Format("2006-01-02"),
			"days_remaining", m.DaysRemaining,
			"amount", m.Amount.String(),
		)
	}

	log.Infow("pipeline run completed",
		"maturities", len(maturities),
		"duration", time.Since(start).String(),
	)

	if failed {
		logger.Sync()
		os.Exit(2)
	}
}
