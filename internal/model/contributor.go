package model

// APIContributor là contributor lấy từ REST API của GitHub
type APIContributor struct {
	Login         string `bson:"login" json:"login"`
	Id            int64  `bson:"id" json:"id"`
	AvatarUrl     string `bson:"avatar_url" json:"avatar_url"`
	HtmlUrl       string `bson:"html_url" json:"html_url"`
	Contributions int    `bson:"contributions" json:"contributions"`
	Type          string `bson:"type" json:"type"`
}

// PageContributor là contributor bóc tách từ trang contributor graph.
// Hai biến thể này không được gộp lại, biến thể nào được tạo phụ thuộc
// vào nguồn dữ liệu được cấu hình (rest hoặc rendered).
type PageContributor struct {
	UserId             string `bson:"user_id" json:"user_id"`
	ProfileLink        string `bson:"profile_link" json:"profile_link"`
	Rank               string `bson:"rank" json:"rank"`
	TotalContributions string `bson:"total_contributions" json:"total_contributions"`
	TotalCommitsUrl    string `bson:"total_commits_url" json:"total_commits_url"`
	TotalAdditions     string `bson:"total_additions" json:"total_additions"`
	TotalSubtractions  string `bson:"total_subtractions" json:"total_subtractions"`
}
