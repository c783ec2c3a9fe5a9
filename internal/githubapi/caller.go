// Gói githubapi cung cấp một caller cho GitHub API. REST được dùng để
// lấy contributor của từng repository, GraphQL để tìm repository theo
// topic. Xác thực bằng token lấy từ Budget, tự chuyển sang token phụ khi
// token chính cạn hạn mức.

package githubapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/fetcher"
	"github.com/gitradar/topic-crawler/internal/limiter"
	"github.com/gitradar/topic-crawler/internal/model"
	"github.com/gitradar/topic-crawler/pkg/log"
)

type Caller struct {
	Logger  log.Logger
	Config  *cfg.Config
	Fetcher *fetcher.Fetcher
	Budget  *limiter.Budget
}

func NewCaller(logger log.Logger, config *cfg.Config, f *fetcher.Fetcher, budget *limiter.Budget) *Caller {
	return &Caller{
		Logger:  logger,
		Config:  config,
		Fetcher: f,
		Budget:  budget,
	}
}

func (c *Caller) headers() map[string]string {
	h := map[string]string{
		"Accept": "application/vnd.github.v3+json",
	}
	if token := c.Budget.Token(); token != "" {
		h["Authorization"] = fmt.Sprintf("token %s", token)
	}
	return h
}

// CallContributors gọi API contributors cho một repository. rawLink có
// dạng /{user}/{repo} như bóc tách từ trang topic. Repository không còn
// tồn tại hoặc rỗng trả về danh sách rỗng, không phải lỗi.
func (c *Caller) CallContributors(ctx context.Context, rawLink string) ([]model.APIContributor, error) {
	url := fmt.Sprintf("%s/repos%s/contributors?page=1&per_page=100", c.Config.GithubApi.RestUrl, rawLink)

	body, err := c.Fetcher.Fetch(ctx, url, c.headers())
	if err != nil {
		return nil, err
	}
	if body == nil {
		// Repo 404 hoặc chưa có commit, coi như không có contributor
		c.Logger.Warn(ctx, "No contributors payload for %s", rawLink)
		return []model.APIContributor{}, nil
	}

	var contributors []model.APIContributor
	if err := json.Unmarshal(body, &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}
