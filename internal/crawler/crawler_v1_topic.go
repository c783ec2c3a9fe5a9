package crawler

import (
	"context"

	"github.com/gitradar/topic-crawler/internal/crawlinfo"
	"github.com/gitradar/topic-crawler/internal/model"
	"github.com/gitradar/topic-crawler/internal/partition"
	"go.mongodb.org/mongo-driver/bson"
)

// refreshTopicList xóa toàn bộ collection topics_list rồi ghi lại danh
// sách topic mới bóc tách từ trang nguồn. Xóa trước khi ghi để dữ liệu
// cũ không lẫn với dữ liệu của chu kỳ mới.
func (p *pipeline) refreshTopicList(ctx context.Context, summary *crawlinfo.Summary) ([]model.Topic, error) {
	topics, err := p.discoverTopics(ctx)
	if err != nil {
		return nil, err
	}
	p.Logger.Info(ctx, "Đã bóc tách %d topic từ trang nguồn", len(topics))

	collection := p.Config.Mongo.Collections.TopicsList
	deleted, err := p.Store.DeleteMany(ctx, collection, bson.M{})
	if err != nil {
		return nil, err
	}
	p.Logger.Debug(ctx, "Đã xóa %d document cũ khỏi %s", deleted, collection)

	// Ghi theo từng lát nhỏ để document lỗi không kéo cả batch theo
	sliceSize := p.Config.Crawler.SliceSize
	if sliceSize <= 0 {
		sliceSize = len(topics)
	}
	for _, r := range partition.BySize(len(topics), sliceSize) {
		documents := make([]interface{}, 0, r.Len())
		for _, topic := range topics[r.Start:r.End] {
			documents = append(documents, topic)
		}
		if err := p.Store.InsertMany(ctx, collection, documents); err != nil {
			return nil, err
		}
	}

	summary.AddTopics(len(topics))
	return topics, nil
}

// refreshTopicDetails xóa collection topics_details rồi ghi một document
// cho mỗi topic chứa danh sách repository của topic đó. Topic lỗi được
// ghi nhận và bỏ qua, các topic còn lại vẫn được xử lý tiếp.
func (p *pipeline) refreshTopicDetails(ctx context.Context, summary *crawlinfo.Summary, topics []model.Topic) ([]model.TopicDetail, error) {
	collection := p.Config.Mongo.Collections.TopicsDetails
	deleted, err := p.Store.DeleteMany(ctx, collection, bson.M{})
	if err != nil {
		return nil, err
	}
	p.Logger.Debug(ctx, "Đã xóa %d document cũ khỏi %s", deleted, collection)

	details := make([]model.TopicDetail, 0, len(topics))
	for _, topic := range topics {
		detail, err := p.refreshOneTopicDetail(ctx, summary, topic)
		if err != nil {
			p.Logger.Warn(ctx, "Bỏ qua topic %s: %v", topic.Name, err)
			summary.MarkFailed(topic.Name)
			continue
		}
		details = append(details, *detail)
	}
	return details, nil
}

func (p *pipeline) refreshOneTopicDetail(ctx context.Context, summary *crawlinfo.Summary, topic model.Topic) (*model.TopicDetail, error) {
	repos, err := p.topicRepos(ctx, topic)
	if err != nil {
		return nil, err
	}

	detail := model.TopicDetail{
		TopicName: topic.Name,
		Repos:     repos,
	}
	if err := p.Store.InsertOne(ctx, p.Config.Mongo.Collections.TopicsDetails, detail); err != nil {
		return nil, err
	}

	summary.AddRepos(len(repos))
	p.Logger.Info(ctx, "Topic %s: %d repository", topic.Name, len(repos))
	return &detail, nil
}
