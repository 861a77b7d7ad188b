package hyperliquid

import (
	"context"

	"hyperflow/internal/models"
	"hyperflow/logger"
)

type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user,omitempty"`
}

// FetchMeta retrieves market metadata and asset contexts. A failure after
// retries is fatal for the run; the previous artifact stays in place.
func (c *Client) FetchMeta(ctx context.Context) (*models.MetaAndAssetCtxs, error) {
	var meta models.MetaAndAssetCtxs
	err := c.withRetry(ctx, "meta_and_asset_ctxs", func() error {
		return c.postInfo(ctx, infoRequest{Type: "metaAndAssetCtxs"}, &meta)
	})
	if err != nil {
		return nil, err
	}

	c.log.WithComponent("meta_reader").WithFields(logger.Fields{
		"universe": len(meta.Meta.Universe),
		"contexts": len(meta.AssetCtxs),
	}).Info("fetched market metadata")

	return &meta, nil
}
