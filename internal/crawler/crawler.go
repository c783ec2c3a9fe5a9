// Gói crawler điều phối quy trình thu thập dữ liệu topic GitHub ba giai
// đoạn: danh sách topic, repository của từng topic, contributor của từng
// repository. Mỗi chu kỳ refresh xóa dữ liệu cũ của collection rồi ghi
// lại toàn bộ.

package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/extractor"
	"github.com/gitradar/topic-crawler/internal/fetcher"
	"github.com/gitradar/topic-crawler/internal/githubapi"
	"github.com/gitradar/topic-crawler/internal/limiter"
	"github.com/gitradar/topic-crawler/internal/model"
	"github.com/gitradar/topic-crawler/internal/store"
	"github.com/gitradar/topic-crawler/pkg/log"
)

type Crawler interface {
	Crawl() bool
}

// pipeline gom các thành phần mà mọi phiên bản crawler đều cần. Mỗi
// worker chạy song song giữ pipeline riêng với Budget và Fetcher riêng,
// chỉ Store là dùng chung.
type pipeline struct {
	Logger  log.Logger
	Config  *cfg.Config
	Budget  *limiter.Budget
	Fetcher *fetcher.Fetcher
	Caller  *githubapi.Caller
	Store   store.Store
	window  *limiter.Window
}

func newPipeline(logger log.Logger, config *cfg.Config, st store.Store) *pipeline {
	budget := limiter.NewBudget(config)
	f := fetcher.NewFetcher(logger, config, budget)
	return &pipeline{
		Logger:  logger,
		Config:  config,
		Budget:  budget,
		Fetcher: f,
		Caller:  githubapi.NewCaller(logger, config, f, budget),
		Store:   st,
		window:  limiter.NewWindow(config.GithubApi.RequestsPerSecond),
	}
}

// throttle chặn caller cho tới khi cửa sổ trượt còn chỗ cho request mới
func (p *pipeline) throttle() {
	for !p.window.Allow() {
		time.Sleep(time.Duration(p.Config.GithubApi.ThrottleDelay) * time.Millisecond)
	}
}

// discoverTopics tải các trang index topic và bóc tách danh sách topic
// theo đúng thứ tự cấu hình
func (p *pipeline) discoverTopics(ctx context.Context) ([]model.Topic, error) {
	topics := make([]model.Topic, 0)
	for _, pageUrl := range p.Config.GithubSite.TopicPages {
		p.throttle()
		body, err := p.Fetcher.Fetch(ctx, pageUrl, nil)
		if err != nil {
			return nil, err
		}
		if body == nil {
			p.Logger.Warn(ctx, "Không tải được trang topic %s, bỏ qua", pageUrl)
			continue
		}

		pageTopics, err := extractor.Topics(body, p.Config.GithubSite.BaseUrl)
		if err != nil {
			return nil, err
		}
		topics = append(topics, pageTopics...)
	}
	return topics, nil
}

// topicRepos lấy danh sách repository của một topic theo nguồn cấu
// hình: bóc tách trang listing hoặc search GraphQL, cắt theo giới hạn
func (p *pipeline) topicRepos(ctx context.Context, topic model.Topic) ([]model.RepoSummary, error) {
	max := p.Config.Crawler.MaxReposPerTopic

	if p.Config.Crawler.RepoSource == "graphql" {
		first := max
		if first <= 0 {
			first = 20
		}
		p.throttle()
		results, err := p.Caller.RepositoriesByTopic(ctx, strings.ToLower(topic.Name), first)
		if err != nil {
			return nil, err
		}
		repos := make([]model.RepoSummary, 0, len(results))
		for _, r := range results {
			repos = append(repos, r.ToRepoSummary())
		}
		return repos, nil
	}

	p.throttle()
	body, err := p.Fetcher.Fetch(ctx, topic.Url, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("crawler: topic page unavailable for %s", topic.Name)
	}

	repos, err := extractor.TopicRepos(body)
	if err != nil {
		return nil, err
	}

	if max > 0 && len(repos) > max {
		repos = repos[:max]
	}
	return repos, nil
}

// repoDetail tải trang chi tiết của một repository và bóc tách số liệu
func (p *pipeline) repoDetail(ctx context.Context, repo model.RepoSummary) (*model.RepoDetail, error) {
	repoUrl := p.Config.GithubSite.BaseUrl + repo.RawLink

	p.throttle()
	body, err := p.Fetcher.Fetch(ctx, repoUrl, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("crawler: repo page unavailable for %s", repo.RawLink)
	}

	return extractor.RepoDetail(body, repoUrl)
}

// contributors lấy danh sách contributor của một repository theo nguồn
// được cấu hình. Hai nguồn cho ra hai dạng bản ghi khác nhau và không
// được trộn lẫn trong cùng một chu kỳ.
func (p *pipeline) contributors(ctx context.Context, repo model.RepoSummary) (interface{}, int, error) {
	switch p.Config.Crawler.ContributorSource {
	case "rendered":
		rendererUrl := p.Config.Crawler.RendererUrl
		if rendererUrl == "" {
			rendererUrl = p.Config.GithubSite.BaseUrl
		}

		p.throttle()
		body, err := p.Fetcher.Fetch(ctx, rendererUrl+repo.RawLink+"/graphs/contributors", nil)
		if err != nil {
			return nil, 0, err
		}
		if body == nil {
			return []model.PageContributor{}, 0, nil
		}

		contributors, err := extractor.RenderedContributors(body)
		if err != nil {
			return nil, 0, err
		}
		if max := p.Config.Crawler.MaxContributors; max > 0 && len(contributors) > max {
			contributors = contributors[:max]
		}
		return contributors, len(contributors), nil

	default:
		// "rest" và cả "graphql": GraphQL API không có trường contributors
		// nên REST phục vụ luôn cho biến thể GraphQL
		p.throttle()
		contributors, err := p.Caller.CallContributors(ctx, repo.RawLink)
		if err != nil {
			return nil, 0, err
		}
		if max := p.Config.Crawler.MaxContributors; max > 0 && len(contributors) > max {
			contributors = contributors[:max]
		}
		return contributors, len(contributors), nil
	}
}

// buildTopicDocument dựng document top_devs cho một topic. Repository
// bóc tách lỗi chỉ bị bỏ qua, các repository còn lại vẫn được gom vào
// document.
func (p *pipeline) buildTopicDocument(ctx context.Context, detail model.TopicDetail) (*model.TopicContribution, int, error) {
	developers := make([]model.TopDeveloper, 0, len(detail.Repos))
	totalContributors := 0

	for _, repo := range detail.Repos {
		repoDetail, err := p.repoDetail(ctx, repo)
		if err != nil {
			p.Logger.Warn(ctx, "Bỏ qua repository %s của topic %s: %v", repo.RawLink, detail.TopicName, err)
			continue
		}

		topContributors, n, err := p.contributors(ctx, repo)
		if err != nil {
			p.Logger.Warn(ctx, "Không lấy được contributor của %s: %v", repo.RawLink, err)
			continue
		}
		totalContributors += n

		developers = append(developers, model.TopDeveloper{
			RepoDetail:      *repoDetail,
			TopContributors: topContributors,
		})
	}

	return &model.TopicContribution{
		TopicName:     detail.TopicName,
		TopDevelopers: developers,
	}, totalContributors, nil
}
