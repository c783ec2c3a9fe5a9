package model

// TopDeveloper gộp thông tin chi tiết repository với danh sách contributor.
// TopContributors chứa []APIContributor hoặc []PageContributor tùy nguồn.
type TopDeveloper struct {
	RepoDetail      `bson:",inline"`
	TopContributors interface{} `bson:"top_contributors" json:"top_contributors"`
}

// TopicContribution là document của collection top_devs, một document
// cho mỗi topic trong một chu kỳ refresh
type TopicContribution struct {
	TopicName     string         `bson:"topic_name" json:"topic_name"`
	TopDevelopers []TopDeveloper `bson:"top_developers" json:"top_developers"`
}
