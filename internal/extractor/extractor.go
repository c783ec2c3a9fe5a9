// Gói extractor bóc tách các trang HTML của GitHub thành bản ghi có cấu
// trúc. Các hàm đều thuần túy, không thực hiện I/O. Toàn bộ selector phụ
// thuộc markup được gom tại đây vì markup của trang nguồn có thể thay
// đổi bất cứ lúc nào.

package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gitradar/topic-crawler/internal/model"
)

const (
	topicItemSel = "li.py-4.border-bottom"
	topicNameSel = "p.f3.lh-condensed.mb-0.mt-1.link-gray-dark"
	topicDescSel = "p.f5.text-gray.mb-0.mt-1"

	repoItemSel = "article.border-bottom.border-gray-light.py-4"
	repoDescSel = "div.text-gray.mb-3.ws-normal"
	repoLangSel = "span[itemprop='programmingLanguage']"
	tagRowSel   = "div.topics-row-container"
	tagLinkSel  = "a.topic-tag.topic-tag-link"
	starSel     = "a.d-inline-block.link-gray"

	numbersSel    = "ul.numbers-summary li span.num.text-emphasized"
	repoAboutSel  = "span[itemprop='about']"
	repoNameSel   = "strong[itemprop='name'] a"
	contribRowSel = "li.contrib-person"
)

// Topics bóc tách trang index topic thành danh sách Topic theo đúng thứ
// tự xuất hiện trên trang
func Topics(html []byte, baseUrl string) ([]model.Topic, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, newExtractionError("topics_page", "cannot parse document: %v", err)
	}

	topics := make([]model.Topic, 0)
	doc.Find(topicItemSel).Each(func(i int, entry *goquery.Selection) {
		name := cleanText(entry.Find(topicNameSel).First().Text())
		if name == "" {
			return
		}
		href, _ := entry.Find("a").First().Attr("href")
		topics = append(topics, model.Topic{
			Name:        name,
			Url:         baseUrl + href,
			Description: cleanText(entry.Find(topicDescSel).First().Text()),
		})
	})

	return topics, nil
}

// TopicRepos bóc tách trang listing của một topic thành danh sách
// RepoSummary. Record có số sao không parse được sẽ bị bỏ qua, các
// record còn lại vẫn được trả về.
func TopicRepos(html []byte) ([]model.RepoSummary, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, newExtractionError("topic_page", "cannot parse document: %v", err)
	}

	repos := make([]model.RepoSummary, 0)
	doc.Find(repoItemSel).Each(func(i int, entry *goquery.Selection) {
		repo, err := topicRepoEntry(entry)
		if err != nil {
			return
		}
		repos = append(repos, *repo)
	})

	return repos, nil
}

func topicRepoEntry(entry *goquery.Selection) (*model.RepoSummary, error) {
	rawLink, ok := entry.Find("a").First().Attr("href")
	if !ok {
		return nil, newExtractionError("raw_link", "repo anchor missing")
	}

	// Ngôn ngữ là trường tùy chọn
	language := cleanText(entry.Find(repoLangSel).First().Text())
	if language == "" {
		language = "N/A"
	}

	// Thiếu phần tử số sao thì thay bằng 0 và link N/A
	starCount := int64(0)
	starLink := "N/A"
	starAnchor := entry.Find(starSel).First()
	if starAnchor.Length() > 0 {
		count, err := ProcessStarCount(starAnchor.Text())
		if err != nil {
			return nil, err
		}
		starCount = count
		if href, ok := starAnchor.Attr("href"); ok {
			starLink = href
		}
	}

	tags := make([]string, 0)
	entry.Find(tagRowSel).First().Find(tagLinkSel).Each(func(i int, tag *goquery.Selection) {
		tags = append(tags, cleanText(tag.Text()))
	})

	return &model.RepoSummary{
		RawLink:     rawLink,
		Description: cleanText(entry.Find(repoDescSel).First().Text()),
		Language:    language,
		StarCount:   starCount,
		StarLink:    starLink,
		RelatedTags: tags,
	}, nil
}

// RepoDetail bóc tách trang chi tiết repository. Các số liệu commits,
// branches, releases, contributors được giữ nguyên dạng chuỗi hiển thị
// sau khi làm sạch markup và khoảng trắng.
func RepoDetail(html []byte, repoUrl string) (*model.RepoDetail, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, newExtractionError("repo_page", "cannot parse document: %v", err)
	}

	name := cleanText(doc.Find(repoNameSel).First().Text())
	if name == "" {
		// Tên repo là trường bắt buộc
		return nil, newExtractionError("repo_name", "name element missing")
	}

	numbers := make([]string, 0, 4)
	doc.Find(numbersSel).Each(func(i int, num *goquery.Selection) {
		numbers = append(numbers, cleanText(num.Text()))
	})
	if len(numbers) < 4 {
		return nil, newExtractionError("numbers_summary", "expected 4 entries, got %d", len(numbers))
	}

	description := cleanText(doc.Find(repoAboutSel).First().Text())
	if description == "" {
		description = "N/A"
	}

	return &model.RepoDetail{
		Name:              name,
		Link:              repoUrl,
		Description:       description,
		TotalCommits:      numbers[0],
		TotalBranches:     numbers[1],
		TotalReleases:     numbers[2],
		TotalContributors: numbers[3],
	}, nil
}

// RenderedContributors bóc tách trang contributor graph đã được render
// phía client thành danh sách PageContributor theo thứ tự xếp hạng
func RenderedContributors(html []byte) ([]model.PageContributor, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, newExtractionError("contributors_page", "cannot parse document: %v", err)
	}

	contributors := make([]model.PageContributor, 0)
	doc.Find(contribRowSel).Each(func(i int, row *goquery.Selection) {
		userAnchor := row.Find("a.text-normal").First()
		userId := cleanText(userAnchor.Text())
		if userId == "" {
			return
		}
		profileLink, _ := userAnchor.Attr("href")

		commitsAnchor := row.Find("a[href*='commits?author=']").First()
		commitsUrl, _ := commitsAnchor.Attr("href")

		contributors = append(contributors, model.PageContributor{
			UserId:             userId,
			ProfileLink:        profileLink,
			Rank:               cleanText(row.Find("span.f5.text-normal").First().Text()),
			TotalContributions: cleanText(commitsAnchor.Text()),
			TotalCommitsUrl:    commitsUrl,
			TotalAdditions:     cleanText(row.Find("span.color-fg-success").First().Text()),
			TotalSubtractions:  cleanText(row.Find("span.color-fg-danger").First().Text()),
		})
	})

	return contributors, nil
}

// cleanText bỏ markup dư thừa và chuẩn hóa khoảng trắng, giữ nguyên nội
// dung hiển thị (kể cả dấu phẩy trong các chuỗi số)
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
