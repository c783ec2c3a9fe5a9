// Crawler version 1
// Crawler tuần tự, xử lý từng topic một theo đúng thứ tự trên trang nguồn

package crawler

import (
	"context"
	"time"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/crawlinfo"
	"github.com/gitradar/topic-crawler/internal/store"
	"github.com/gitradar/topic-crawler/pkg/log"
)

type CrawlerV1 struct {
	Logger   log.Logger
	Config   *cfg.Config
	Store    store.Store
	pipeline *pipeline
}

func NewCrawlerV1(logger log.Logger, config *cfg.Config, st store.Store) (*CrawlerV1, error) {
	return &CrawlerV1{
		Logger:   logger,
		Config:   config,
		Store:    st,
		pipeline: newPipeline(logger, config, st),
	}, nil
}

func (c *CrawlerV1) Crawl() bool {
	ctx := context.Background()
	summary := crawlinfo.NewSummary("v1")
	c.Logger.Info(ctx, "Bắt đầu chu kỳ refresh dữ liệu topic GitHub vào %s", summary.StartedAt.Format(time.RFC3339))

	// Giai đoạn 1: danh sách topic
	topics, err := c.pipeline.refreshTopicList(ctx, summary)
	if err != nil {
		c.Logger.Error(ctx, "Không thể refresh danh sách topic: %v", err)
		return false
	}

	// Giai đoạn 2: repository của từng topic
	details, err := c.pipeline.refreshTopicDetails(ctx, summary, topics)
	if err != nil {
		c.Logger.Error(ctx, "Không thể refresh chi tiết topic: %v", err)
		return false
	}

	// Giai đoạn 3: contributor của từng repository
	if err := c.pipeline.refreshTopDevs(ctx, summary, details); err != nil {
		c.Logger.Error(ctx, "Không thể refresh dữ liệu top developers: %v", err)
		return false
	}

	summary.Finish()
	logSummary(ctx, c.Logger, summary)
	return true
}

// logSummary in tổng kết chu kỳ, dùng chung cho mọi phiên bản crawler
func logSummary(ctx context.Context, logger log.Logger, summary *crawlinfo.Summary) {
	logger.Info(ctx, "==== KẾT QUẢ CRAWL ====")
	logger.Info(ctx, "Phiên bản crawler: %s", summary.Version)
	logger.Info(ctx, "Thời gian bắt đầu: %s", summary.StartedAt.Format(time.RFC3339))
	logger.Info(ctx, "Thời gian kết thúc: %s", summary.FinishedAt.Format(time.RFC3339))
	logger.Info(ctx, "Tổng thời gian thực hiện: %v", summary.Duration())
	logger.Info(ctx, "Tổng số topic đã crawl: %d", summary.Topics())
	logger.Info(ctx, "Tổng số repository đã crawl: %d", summary.Repos())
	logger.Info(ctx, "Tổng số contributor đã crawl: %d", summary.Contributors())
	if failed := summary.FailedTopics(); len(failed) > 0 {
		logger.Warn(ctx, "Các topic xử lý thất bại: %v", failed)
	}
}
