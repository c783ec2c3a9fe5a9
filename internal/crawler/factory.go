package crawler

import (
	"fmt"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/store"
	"github.com/gitradar/topic-crawler/pkg/db"
	"github.com/gitradar/topic-crawler/pkg/log"
)

func FactoryCrawler(version string, logger log.Logger, config *cfg.Config, mongo *db.Mongo) (Crawler, error) {
	st := store.NewMongoStore(mongo)
	switch version {
	case "v1":
		return NewCrawlerV1(logger, config, st)
	case "v2":
		return NewCrawlerV2(logger, config, st)
	case "v3":
		return NewCrawlerV3(logger, config, st)
	default:
		return nil, fmt.Errorf("[ERROR] Unsupported crawler version: %s", version)
	}
}
