package hyperliquid

import (
	"context"

	"hyperflow/internal/models"
	"hyperflow/logger"
)

// FetchLeaderboard retrieves the full ranked trader list from the stats
// endpoint. The list can run to thousands of rows; truncation to the
// configured top N happens in the processor.
func (c *Client) FetchLeaderboard(ctx context.Context) ([]models.LeaderboardRow, error) {
	var resp models.LeaderboardResponse
	err := c.withRetry(ctx, "leaderboard", func() error {
		return c.getJSON(ctx, c.leaderboardURL, &resp)
	})
	if err != nil {
		return nil, err
	}

	c.log.WithComponent("leaderboard_reader").WithFields(logger.Fields{
		"rows": len(resp.LeaderboardRows),
	}).Info("fetched leaderboard")

	return resp.LeaderboardRows, nil
}
