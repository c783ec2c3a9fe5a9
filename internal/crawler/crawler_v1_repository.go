package crawler

import (
	"context"

	"github.com/gitradar/topic-crawler/internal/crawlinfo"
	"github.com/gitradar/topic-crawler/internal/model"
	"go.mongodb.org/mongo-driver/bson"
)

// refreshTopDevs xóa collection top_devs rồi dựng và ghi một document
// cho mỗi topic, chứa chi tiết repository kèm danh sách contributor
func (p *pipeline) refreshTopDevs(ctx context.Context, summary *crawlinfo.Summary, details []model.TopicDetail) error {
	collection := p.Config.Mongo.Collections.TopDevs
	deleted, err := p.Store.DeleteMany(ctx, collection, bson.M{})
	if err != nil {
		return err
	}
	p.Logger.Debug(ctx, "Đã xóa %d document cũ khỏi %s", deleted, collection)

	for _, detail := range details {
		if err := p.processTopicTopDevs(ctx, summary, detail); err != nil {
			p.Logger.Warn(ctx, "Bỏ qua top developers của topic %s: %v", detail.TopicName, err)
			summary.MarkFailed(detail.TopicName)
		}
	}
	return nil
}

func (p *pipeline) processTopicTopDevs(ctx context.Context, summary *crawlinfo.Summary, detail model.TopicDetail) error {
	document, contributorCount, err := p.buildTopicDocument(ctx, detail)
	if err != nil {
		return err
	}

	if err := p.Store.InsertOne(ctx, p.Config.Mongo.Collections.TopDevs, document); err != nil {
		return err
	}

	summary.AddContributors(contributorCount)
	p.Logger.Info(ctx, "Topic %s: %d developers, %d contributors", detail.TopicName, len(document.TopDevelopers), contributorCount)
	return nil
}
