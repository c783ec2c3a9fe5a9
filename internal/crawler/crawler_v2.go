// Crawler version 2
// Crawler áp dụng concurrency: danh sách topic được chia thành các đoạn
// liên tiếp, mỗi đoạn do một worker xử lý với pipeline riêng. Store dùng
// chung giữa các worker, Budget và Fetcher thì không.

package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/crawlinfo"
	"github.com/gitradar/topic-crawler/internal/model"
	"github.com/gitradar/topic-crawler/internal/partition"
	"github.com/gitradar/topic-crawler/internal/store"
	"github.com/gitradar/topic-crawler/pkg/log"
	"go.mongodb.org/mongo-driver/bson"
)

type CrawlerV2 struct {
	Logger    log.Logger
	Config    *cfg.Config
	Store     store.Store
	pipeline  *pipeline
	errorChan chan error
}

func NewCrawlerV2(logger log.Logger, config *cfg.Config, st store.Store) (*CrawlerV2, error) {
	return &CrawlerV2{
		Logger:    logger,
		Config:    config,
		Store:     st,
		pipeline:  newPipeline(logger, config, st),
		errorChan: make(chan error, 200),
	}, nil
}

func (c *CrawlerV2) Crawl() bool {
	ctx := context.Background()
	summary := crawlinfo.NewSummary("v2")
	c.Logger.Info(ctx, "Bắt đầu crawl dữ liệu topic GitHub với phương pháp concurrency %s", summary.StartedAt.Format(time.RFC3339))

	crawlCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.errorMonitor(crawlCtx)

	// Giai đoạn 1 chạy tuần tự vì chỉ có vài trang index
	topics, err := c.pipeline.refreshTopicList(crawlCtx, summary)
	if err != nil {
		c.Logger.Error(ctx, "Không thể refresh danh sách topic: %v", err)
		return false
	}

	// Xóa dữ liệu cũ một lần trước khi các worker bắt đầu ghi
	for _, collection := range []string{c.Config.Mongo.Collections.TopicsDetails, c.Config.Mongo.Collections.TopDevs} {
		if _, err := c.Store.DeleteMany(crawlCtx, collection, bson.M{}); err != nil {
			c.Logger.Error(ctx, "Không thể xóa dữ liệu cũ của %s: %v", collection, err)
			return false
		}
	}

	segments := c.Config.Crawler.Segments
	if segments <= 0 {
		segments = 4
	}
	ranges := partition.ByCount(len(topics), segments)
	c.Logger.Info(ctx, "Chia %d topic thành %d đoạn", len(topics), len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(worker int, r partition.Range) {
			defer wg.Done()
			c.crawlSegment(crawlCtx, worker, summary, topics[r.Start:r.End])
		}(i, r)
	}
	wg.Wait()
	close(c.errorChan)

	summary.Finish()
	logSummary(ctx, c.Logger, summary)
	return true
}

// crawlSegment xử lý trọn vẹn một đoạn topic trên pipeline riêng của
// worker: bóc tách repository rồi dựng document top developers cho từng
// topic trong đoạn
func (c *CrawlerV2) crawlSegment(ctx context.Context, worker int, summary *crawlinfo.Summary, topics []model.Topic) {
	p := newPipeline(c.Logger, c.Config, c.Store)
	c.Logger.Info(ctx, "Worker %d bắt đầu với %d topic", worker, len(topics))

	for _, topic := range topics {
		select {
		case <-ctx.Done():
			return
		default:
		}

		detail, err := p.refreshOneTopicDetail(ctx, summary, topic)
		if err != nil {
			summary.MarkFailed(topic.Name)
			c.reportError(err)
			continue
		}

		if err := p.processTopicTopDevs(ctx, summary, *detail); err != nil {
			summary.MarkFailed(topic.Name)
			c.reportError(err)
		}
	}

	c.Logger.Info(ctx, "Worker %d hoàn thành", worker)
}

func (c *CrawlerV2) reportError(err error) {
	select {
	case c.errorChan <- err:
	default:
	}
}

// errorMonitor gom lỗi từ các worker để log tập trung thay vì để từng
// goroutine tự log rải rác
func (c *CrawlerV2) errorMonitor(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-c.errorChan:
			if !ok {
				return
			}
			c.Logger.Error(ctx, "Worker gặp lỗi: %v", err)
		}
	}
}
