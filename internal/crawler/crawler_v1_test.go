package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/model"
	"github.com/gitradar/topic-crawler/internal/store"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warn(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Error(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Debug(ctx context.Context, format string, args ...interface{}) {}

// newCrawlSite dựng một site giả với hai topic, mỗi topic một repository
func newCrawlSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/topics", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<li class="py-4 border-bottom">
		  <a href="/topics/3d">
		    <p class="f3 lh-condensed mb-0 mt-1 link-gray-dark">3D</p>
		    <p class="f5 text-gray mb-0 mt-1">Three dimensional graphics.</p>
		  </a>
		</li>
		<li class="py-4 border-bottom">
		  <a href="/topics/ajax">
		    <p class="f3 lh-condensed mb-0 mt-1 link-gray-dark">Ajax</p>
		    <p class="f5 text-gray mb-0 mt-1">Asynchronous JavaScript.</p>
		  </a>
		</li>`))
	})

	topicListing := func(rawLink, lang, stars string) string {
		return `
		<article class="border-bottom border-gray-light py-4">
		  <a href="` + rawLink + `">repo</a>
		  <div class="text-gray mb-3 ws-normal">Some description.</div>
		  <span itemprop="programmingLanguage">` + lang + `</span>
		  <a class="d-inline-block link-gray" href="#">` + stars + `</a>
		</article>`
	}
	mux.HandleFunc("/topics/3d", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(topicListing("/mrdoob/three.js", "JavaScript", "12.3k")))
	})
	mux.HandleFunc("/topics/ajax", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(topicListing("/jquery/jquery", "JavaScript", "59k")))
	})

	repoPage := func(name string) string {
		return `
		<strong itemprop="name"><a href="#">` + name + `</a></strong>
		<span itemprop="about">Some description.</span>
		<ul class="numbers-summary">
		  <li><span class="num text-emphasized">1,000</span></li>
		  <li><span class="num text-emphasized">10</span></li>
		  <li><span class="num text-emphasized">5</span></li>
		  <li><span class="num text-emphasized">200</span></li>
		</ul>`
	}
	mux.HandleFunc("/mrdoob/three.js", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(repoPage("three.js")))
	})
	mux.HandleFunc("/jquery/jquery", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(repoPage("jquery")))
	})

	contributorsJson := `[{"login":"alice","id":1,"contributions":500,"type":"User"}]`
	mux.HandleFunc("/repos/mrdoob/three.js/contributors", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "4999")
		_, _ = w.Write([]byte(contributorsJson))
	})
	mux.HandleFunc("/repos/jquery/jquery/contributors", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "4998")
		_, _ = w.Write([]byte(contributorsJson))
	})

	renderedPage := `
	<li class="contrib-person">
	  <span class="f5 text-normal">#1</span>
	  <a class="text-normal" href="/alice">alice</a>
	  <a href="/x/commits?author=alice">500 commits</a>
	</li>`
	mux.HandleFunc("/mrdoob/three.js/graphs/contributors", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(renderedPage))
	})
	mux.HandleFunc("/jquery/jquery/graphs/contributors", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(renderedPage))
	})

	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": {
				"search": {
					"repositoryCount": 1,
					"edges": [
						{"node": {
							"name": "three.js",
							"nameWithOwner": "mrdoob/three.js",
							"url": "https://github.com/mrdoob/three.js",
							"description": "JavaScript 3D library.",
							"stargazerCount": 100000,
							"forkCount": 35000,
							"owner": {"login": "mrdoob"},
							"primaryLanguage": {"name": "JavaScript"}
						}}
					]
				},
				"rateLimit": {"limit": 5000, "remaining": 4900, "resetAt": "2026-08-25T12:00:00Z", "used": 100}
			}
		}`))
	})

	return httptest.NewServer(mux)
}

func testConfig(t *testing.T, serverUrl string) *cfg.Config {
	t.Helper()

	loader, _ := cfg.NewMockLoader()
	config, err := loader.Load()
	require.NoError(t, err)

	config.GithubSite.BaseUrl = serverUrl
	config.GithubSite.TopicPages = []string{serverUrl + "/topics"}
	config.GithubApi.RestUrl = serverUrl
	config.GithubApi.MinSpacingMs = 1
	config.GithubApi.ThrottleDelay = 1
	config.GithubApi.RetryDelayMs = 1
	config.GithubApi.RetryAttempts = 2
	config.GithubApi.RequestsPerSecond = 100
	return config
}

func TestCrawlerV1EndToEnd(t *testing.T) {
	server := newCrawlSite(t)
	defer server.Close()

	config := testConfig(t, server.URL)
	st := store.NewMemoryStore()

	c, err := NewCrawlerV1(nopLogger{}, config, st)
	require.NoError(t, err)
	require.True(t, c.Crawl())

	ctx := context.Background()

	var topics []model.Topic
	require.NoError(t, st.Find(ctx, "topics_list", bson.M{}, &topics))
	require.Len(t, topics, 2)
	require.Equal(t, "3D", topics[0].Name)
	require.Equal(t, server.URL+"/topics/3d", topics[0].Url)

	var details []model.TopicDetail
	require.NoError(t, st.Find(ctx, "topics_details", bson.M{}, &details))
	require.Len(t, details, 2)
	require.Equal(t, "3D", details[0].TopicName)
	require.Len(t, details[0].Repos, 1)
	require.Equal(t, "/mrdoob/three.js", details[0].Repos[0].RawLink)
	require.Equal(t, int64(12300), details[0].Repos[0].StarCount)

	var topDevs []model.TopicContribution
	require.NoError(t, st.Find(ctx, "top_devs", bson.M{}, &topDevs))
	require.Len(t, topDevs, 2)
	require.Len(t, topDevs[0].TopDevelopers, 1)
	require.Equal(t, "three.js", topDevs[0].TopDevelopers[0].Name)
	require.Equal(t, "1,000", topDevs[0].TopDevelopers[0].TotalCommits)
}

func TestCrawlerV1RefreshIsIdempotent(t *testing.T) {
	server := newCrawlSite(t)
	defer server.Close()

	config := testConfig(t, server.URL)
	st := store.NewMemoryStore()

	c, err := NewCrawlerV1(nopLogger{}, config, st)
	require.NoError(t, err)

	// Chạy hai chu kỳ liên tiếp, dữ liệu không được nhân đôi
	require.True(t, c.Crawl())
	require.True(t, c.Crawl())

	require.Equal(t, 2, st.Count("topics_list"))
	require.Equal(t, 2, st.Count("topics_details"))
	require.Equal(t, 2, st.Count("top_devs"))
}

func TestCrawlerV1SkipsFailingTopic(t *testing.T) {
	server := newCrawlSite(t)
	defer server.Close()

	config := testConfig(t, server.URL)

	// Một topic trỏ tới trang không tồn tại
	st := store.NewMemoryStore()
	c, err := NewCrawlerV1(nopLogger{}, config, st)
	require.NoError(t, err)

	// Thay trang listing của ajax bằng đường dẫn hỏng qua một server phụ
	brokenMux := http.NewServeMux()
	brokenMux.HandleFunc("/topics", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<li class="py-4 border-bottom">
		  <a href="/topics/3d">
		    <p class="f3 lh-condensed mb-0 mt-1 link-gray-dark">3D</p>
		  </a>
		</li>
		<li class="py-4 border-bottom">
		  <a href="/topics/missing">
		    <p class="f3 lh-condensed mb-0 mt-1 link-gray-dark">Missing</p>
		  </a>
		</li>`))
	})
	brokenServer := httptest.NewServer(brokenMux)
	defer brokenServer.Close()

	config.GithubSite.TopicPages = []string{brokenServer.URL + "/topics"}
	config.GithubSite.BaseUrl = server.URL

	require.True(t, c.Crawl())

	// Topic hỏng bị bỏ qua, topic còn lại vẫn được xử lý
	require.Equal(t, 2, st.Count("topics_list"))
	require.Equal(t, 1, st.Count("topics_details"))
	require.Equal(t, 1, st.Count("top_devs"))
}

func TestCrawlerV1GraphqlRepoSource(t *testing.T) {
	server := newCrawlSite(t)
	defer server.Close()

	config := testConfig(t, server.URL)
	config.Crawler.RepoSource = "graphql"
	config.GithubApi.GraphqlUrl = server.URL + "/graphql"
	st := store.NewMemoryStore()

	c, err := NewCrawlerV1(nopLogger{}, config, st)
	require.NoError(t, err)
	require.True(t, c.Crawl())

	ctx := context.Background()
	var details []model.TopicDetail
	require.NoError(t, st.Find(ctx, "topics_details", bson.M{}, &details))
	require.Len(t, details, 2)
	require.Equal(t, "/mrdoob/three.js", details[0].Repos[0].RawLink)
	require.Equal(t, int64(100000), details[0].Repos[0].StarCount)
}

func TestCrawlerV1RenderedContributorSource(t *testing.T) {
	server := newCrawlSite(t)
	defer server.Close()

	config := testConfig(t, server.URL)
	config.Crawler.ContributorSource = "rendered"
	config.Crawler.RendererUrl = server.URL
	st := store.NewMemoryStore()

	c, err := NewCrawlerV1(nopLogger{}, config, st)
	require.NoError(t, err)
	require.True(t, c.Crawl())

	ctx := context.Background()
	var topDevs []model.TopicContribution
	require.NoError(t, st.Find(ctx, "top_devs", bson.M{}, &topDevs))
	require.Len(t, topDevs, 2)
	require.Len(t, topDevs[0].TopDevelopers, 1)
}

func TestCrawlerV2EndToEnd(t *testing.T) {
	server := newCrawlSite(t)
	defer server.Close()

	config := testConfig(t, server.URL)
	config.Crawler.Segments = 2
	st := store.NewMemoryStore()

	c, err := NewCrawlerV2(nopLogger{}, config, st)
	require.NoError(t, err)
	require.True(t, c.Crawl())

	require.Equal(t, 2, st.Count("topics_list"))
	require.Equal(t, 2, st.Count("topics_details"))
	require.Equal(t, 2, st.Count("top_devs"))

	ctx := context.Background()
	var topDevs []model.TopicContribution
	require.NoError(t, st.Find(ctx, "top_devs", bson.M{"topic_name": "Ajax"}, &topDevs))
	require.Len(t, topDevs, 1)
	require.Len(t, topDevs[0].TopDevelopers, 1)
	require.Equal(t, "jquery", topDevs[0].TopDevelopers[0].Name)
}
