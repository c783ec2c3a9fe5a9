// Crawler version 3
// Crawler publish document top developers lên Kafka thay vì ghi thẳng
// vào store. Consumer riêng (cmd/consumer) nhận message và ghi theo
// batch. Hai giai đoạn đầu vẫn ghi trực tiếp như v1.

package crawler

import (
	"context"
	"time"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/crawlinfo"
	"github.com/gitradar/topic-crawler/internal/model"
	"github.com/gitradar/topic-crawler/internal/store"
	"github.com/gitradar/topic-crawler/pkg/kafka"
	"github.com/gitradar/topic-crawler/pkg/log"
)

type CrawlerV3 struct {
	Logger   log.Logger
	Config   *cfg.Config
	Store    store.Store
	pipeline *pipeline
	producer *kafka.Producer
}

func NewCrawlerV3(logger log.Logger, config *cfg.Config, st store.Store) (*CrawlerV3, error) {
	producer := kafka.NewProducer(config, logger, config.Kafka.Producer.TopicTopDevs)
	return &CrawlerV3{
		Logger:   logger,
		Config:   config,
		Store:    st,
		pipeline: newPipeline(logger, config, st),
		producer: producer,
	}, nil
}

func (c *CrawlerV3) Crawl() bool {
	ctx := context.Background()
	summary := crawlinfo.NewSummary("v3")
	c.Logger.Info(ctx, "Bắt đầu crawl dữ liệu topic GitHub với Kafka producer %s", summary.StartedAt.Format(time.RFC3339))
	defer c.producer.Close()

	topics, err := c.pipeline.refreshTopicList(ctx, summary)
	if err != nil {
		c.Logger.Error(ctx, "Không thể refresh danh sách topic: %v", err)
		return false
	}

	details, err := c.pipeline.refreshTopicDetails(ctx, summary, topics)
	if err != nil {
		c.Logger.Error(ctx, "Không thể refresh chi tiết topic: %v", err)
		return false
	}

	// Giai đoạn 3 publish lên Kafka, consumer chịu trách nhiệm ghi
	for _, detail := range details {
		document, contributorCount, err := c.pipeline.buildTopicDocument(ctx, detail)
		if err != nil {
			c.Logger.Warn(ctx, "Bỏ qua topic %s: %v", detail.TopicName, err)
			summary.MarkFailed(detail.TopicName)
			continue
		}

		message := model.TopDevsMessage{Document: *document}
		if err := c.producer.Publish(ctx, model.MessageKeyTopDevs, message); err != nil {
			c.Logger.Error(ctx, "Không thể publish topic %s lên Kafka: %v", detail.TopicName, err)
			summary.MarkFailed(detail.TopicName)
			continue
		}

		summary.AddContributors(contributorCount)
		c.Logger.Info(ctx, "Đã publish topic %s với %d developers", detail.TopicName, len(document.TopDevelopers))
	}

	summary.Finish()
	logSummary(ctx, c.Logger, summary)
	return true
}
