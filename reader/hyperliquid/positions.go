package hyperliquid

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"hyperflow/internal/models"
	"hyperflow/logger"
)

// FetchPositions retrieves clearinghouse state for each account using a
// bounded worker pool. A per-account failure is skipped and counted, never
// fatal; the returned slice preserves the input account order and contains
// one entry per account that answered. The second return value is the
// number of accounts that could not be fetched.
func (c *Client) FetchPositions(ctx context.Context, accounts []string) ([]models.AccountPositions, int) {
	workers := c.config.Reader.PositionWorkers
	if workers > len(accounts) {
		workers = len(accounts)
	}
	if workers <= 0 {
		workers = 1
	}

	log := c.log.WithComponent("position_reader")

	results := make([]*models.AccountPositions, len(accounts))
	jobs := make(chan int)
	var failed int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				account := accounts[i]
				state, err := c.fetchClearinghouseState(ctx, account)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.WithFields(logger.Fields{"account": account}).WithError(err).Warn("skipping account, position fetch failed")
					continue
				}
				results[i] = &models.AccountPositions{
					AccountID: account,
					Positions: openPositions(state),
				}
			}
		}()
	}

dispatch:
	for i := range accounts {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	fetched := make([]models.AccountPositions, 0, len(accounts))
	for _, r := range results {
		if r != nil {
			fetched = append(fetched, *r)
		}
	}

	log.WithFields(logger.Fields{
		"requested": len(accounts),
		"fetched":   len(fetched),
		"failed":    failed,
	}).Info("position fetch complete")

	return fetched, int(failed)
}

func (c *Client) fetchClearinghouseState(ctx context.Context, account string) (*models.ClearinghouseState, error) {
	var state models.ClearinghouseState
	if err := c.postInfo(ctx, infoRequest{Type: "clearinghouseState", User: account}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// openPositions drops flat and unparseable positions; the clearinghouse
// reports every asset the account ever touched.
func openPositions(state *models.ClearinghouseState) []models.RawPosition {
	positions := make([]models.RawPosition, 0, len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		size, err := strconv.ParseFloat(ap.Position.Szi, 64)
		if err != nil || size == 0 {
			continue
		}
		positions = append(positions, ap.Position)
	}
	return positions
}
