// Gói dto cung cấp các đối tượng truyền dữ liệu cho dự án
// Chuyển đổi phản hồi api của github thành một cấu trúc

package githubapi

import "time"

// RateLimit là payload rateLimit mà mọi truy vấn GraphQL đều kèm theo,
// dùng để cập nhật Budget chủ động
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
	Used      int       `json:"used"`
}

type RepositoryOwner struct {
	Login string `json:"login"`
}

// Repository là một node trong kết quả search của GraphQL
type Repository struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	NameWithOwner  string          `json:"nameWithOwner"`
	Url            string          `json:"url"`
	Description    string          `json:"description"`
	StargazerCount int64           `json:"stargazerCount"`
	ForkCount      int64           `json:"forkCount"`
	Owner          RepositoryOwner `json:"owner"`
	PrimaryLanguage struct {
		Name string `json:"name"`
	} `json:"primaryLanguage"`
	Watchers struct {
		TotalCount int64 `json:"totalCount"`
	} `json:"watchers"`
	RepositoryTopics struct {
		Nodes []struct {
			Topic struct {
				Name string `json:"name"`
			} `json:"topic"`
		} `json:"nodes"`
	} `json:"repositoryTopics"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	IsFork     bool      `json:"isFork"`
	IsArchived bool      `json:"isArchived"`
}

type searchEdge struct {
	Node Repository `json:"node"`
}

type searchResult struct {
	RepositoryCount int          `json:"repositoryCount"`
	Edges           []searchEdge `json:"edges"`
}

type graphqlResponse struct {
	Data struct {
		Search    searchResult `json:"search"`
		RateLimit RateLimit    `json:"rateLimit"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}
