package serve

import (
	"log/slog"
	"time"

	"github.com/vesfx/tasas/pipeline"
	"github.com/vesfx/tasas/provider/bcv"
	"github.com/vesfx/tasas/provider/binance"
	"github.com/vesfx/tasas/storage"
)

const fetchTimeout = time.Second * 30

// newPipeline builds the rate-collection pipeline from the
// configured upstream sources
func (c *serveCfg) newPipeline(store storage.Storage, logger *slog.Logger) *pipeline.Pipeline {
	var (
		// Official BCV rates
		extractor = bcv.NewExtractor(
			c.bcvURL,
			bcv.DefaultCurrencies(),
			fetchTimeout,
		)

		// Mean Binance P2P USDT rate
		aggregator = binance.NewAggregator(
			c.binanceURL,
			fetchTimeout,
		)
	)

	return pipeline.NewPipeline(
		extractor,
		aggregator,
		store,
		pipeline.WithPipelineLogger(logger),
	)
}
