package githubapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gitradar/topic-crawler/internal/model"
)

// Truy vấn nào cũng kèm khối rateLimit để Budget biết hạn mức còn lại
// ngay sau mỗi lần gọi thay vì đợi tới lúc bị chặn
const repositoriesByTopicQuery = `
query($searchQuery: String!, $first: Int!) {
  search(query: $searchQuery, type: REPOSITORY, first: $first) {
    repositoryCount
    edges {
      node {
        ... on Repository {
          id
          name
          nameWithOwner
          url
          description
          stargazerCount
          forkCount
          owner { login }
          primaryLanguage { name }
          watchers { totalCount }
          repositoryTopics(first: 10) { nodes { topic { name } } }
          createdAt
          updatedAt
          isFork
          isArchived
        }
      }
    }
  }
  rateLimit {
    limit
    remaining
    resetAt
    used
  }
}`

// RepositoriesByTopic tìm các repository gắn topic qua GraphQL search,
// sắp theo số sao giảm dần
func (c *Caller) RepositoriesByTopic(ctx context.Context, topicName string, first int) ([]Repository, error) {
	search := fmt.Sprintf("topic:%s sort:stars-desc", topicName)
	return c.searchRepositories(ctx, search, first)
}

// TrendingRepositories tìm các repository mới tạo trong khoảng thời gian
// gần đây có nhiều sao nhất
func (c *Caller) TrendingRepositories(ctx context.Context, createdAfter string, first int) ([]Repository, error) {
	search := fmt.Sprintf("created:>%s sort:stars-desc", createdAfter)
	return c.searchRepositories(ctx, search, first)
}

func (c *Caller) searchRepositories(ctx context.Context, searchQuery string, first int) ([]Repository, error) {
	payload, err := json.Marshal(graphqlRequest{
		Query: repositoriesByTopicQuery,
		Variables: map[string]interface{}{
			"searchQuery": searchQuery,
			"first":       first,
		},
	})
	if err != nil {
		return nil, err
	}

	headers := c.headers()
	headers["Content-Type"] = "application/json"

	body, err := c.Fetcher.Do(ctx, "POST", c.Config.GithubApi.GraphqlUrl, headers, payload)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("githubapi: graphql query rejected for %q", searchQuery)
	}

	var resp graphqlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("githubapi: graphql error: %s", resp.Errors[0].Message)
	}

	rl := resp.Data.RateLimit
	c.Budget.Record(rl.Limit, rl.Remaining, rl.Used, rl.ResetAt)
	c.Logger.Debug(ctx, "GraphQL rate limit remaining: %d, reset at %s", rl.Remaining, rl.ResetAt)

	repos := make([]Repository, 0, len(resp.Data.Search.Edges))
	for _, edge := range resp.Data.Search.Edges {
		repos = append(repos, edge.Node)
	}
	return repos, nil
}

// ToRepoSummary chuyển một node GraphQL về dạng bản ghi chung của crawler
func (r Repository) ToRepoSummary() model.RepoSummary {
	lang := r.PrimaryLanguage.Name
	if lang == "" {
		lang = "N/A"
	}
	desc := r.Description
	if desc == "" {
		desc = "N/A"
	}
	tags := make([]string, 0, len(r.RepositoryTopics.Nodes))
	for _, node := range r.RepositoryTopics.Nodes {
		tags = append(tags, node.Topic.Name)
	}
	return model.RepoSummary{
		RawLink:     "/" + r.NameWithOwner,
		Description: desc,
		Language:    lang,
		StarCount:   r.StargazerCount,
		StarLink:    "/" + r.NameWithOwner + "/stargazers",
		RelatedTags: tags,
	}
}
