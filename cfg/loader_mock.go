package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "topic-crawler",
			Version: "0.0.1",
		},

		// Mongo
		Mongo: Mongo{
			Uri:           "mongodb://localhost:27017/",
			Database:      "topics_ref",
			MaxPoolSize:   50,
			MinPoolSize:   10,
			MaxIdleTimeMs: 30000,
			Collections: Collections{
				TopicsList:    "topics_list",
				TopicsDetails: "topics_details",
				TopDevs:       "top_devs",
			},
		},

		// GithubSite
		GithubSite: GithubSite{
			BaseUrl: "https://www.github.com",
			TopicPages: []string{
				"https://github.com/topics",
				"https://github.com/topics?after=Y3Vyc29yOnYyOpKmc2tldGNozTHp",
			},
		},

		// GithubApi
		GithubApi: GithubApi{
			RestUrl:           "https://api.github.com",
			GraphqlUrl:        "https://api.github.com/graphql",
			PrimaryTokenEnv:   "GITDATAEXTKEY_P1",
			SecondaryTokenEnv: "GITDATAEXTKEY_P2",
			HourlyBudget:      5000,
			LowWaterMark:      10,
			MinSpacingMs:      1000,
			RequestsPerSecond: 10,
			ThrottleDelay:     200,
			RetryAttempts:     3,
			RetryDelayMs:      5000,
			RateLimitResetMin: 60,
		},

		// Crawler
		Crawler: Crawler{
			SliceSize:         5,
			Segments:          4,
			RepoSource:        "html",
			ContributorSource: "rest",
			MaxReposPerTopic:  20,
			MaxContributors:   100,
			RendererUrl:       "",
		},

		// Kafka
		Kafka: Kafka{
			Brokers: []string{"localhost:9092"},
			Producer: KafkaProducer{
				TopicTopDevs: "topic-crawler.top-devs",
			},
		},
	}, nil
}
