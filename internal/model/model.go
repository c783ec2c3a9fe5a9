// Gói model định nghĩa các bản ghi mà crawler thu thập từ GitHub.
// Các trường số liệu của RepoDetail được giữ nguyên dạng chuỗi hiển thị
// (có thể chứa dấu phẩy) đúng như trang nguồn.

package model

type Topic struct {
	Name        string `bson:"topic" json:"topic"`
	Url         string `bson:"link" json:"link"`
	Description string `bson:"description" json:"description"`
}

type RepoSummary struct {
	RawLink     string   `bson:"raw_link" json:"raw_link"`
	Description string   `bson:"description" json:"description"`
	Language    string   `bson:"lang" json:"lang"`
	StarCount   int64    `bson:"stars" json:"stars"`
	StarLink    string   `bson:"stars_link" json:"stars_link"`
	RelatedTags []string `bson:"related_tags" json:"related_tags"`
}

// TopicDetail là document của collection topics_details
type TopicDetail struct {
	TopicName string        `bson:"topic_name" json:"topic_name"`
	Repos     []RepoSummary `bson:"repos" json:"repos"`
}

type RepoDetail struct {
	Name              string `bson:"repo_name" json:"repo_name"`
	Link              string `bson:"repo_link" json:"repo_link"`
	Description       string `bson:"description" json:"description"`
	TotalCommits      string `bson:"total_commits" json:"total_commits"`
	TotalBranches     string `bson:"total_branches" json:"total_branches"`
	TotalReleases     string `bson:"total_releases" json:"total_releases"`
	TotalContributors string `bson:"total_contributors" json:"total_contributors"`
}
