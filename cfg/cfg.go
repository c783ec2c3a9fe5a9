package cfg

type (
	App struct {
		Name    string
		Version string
	}

	Mongo struct {
		Uri           string
		Database      string
		MaxPoolSize   uint64
		MinPoolSize   uint64
		MaxIdleTimeMs int
		Collections   Collections
	}

	// Collections là tên các collection mà crawler ghi dữ liệu vào
	Collections struct {
		TopicsList    string
		TopicsDetails string
		TopDevs       string
	}

	GithubSite struct {
		BaseUrl    string
		TopicPages []string
	}

	GithubApi struct {
		RestUrl           string
		GraphqlUrl        string
		PrimaryTokenEnv   string
		SecondaryTokenEnv string
		HourlyBudget      int
		LowWaterMark      int
		MinSpacingMs      int
		RequestsPerSecond int
		ThrottleDelay     int
		RetryAttempts     int
		RetryDelayMs      int
		RateLimitResetMin int
	}

	Crawler struct {
		SliceSize         int
		Segments          int
		RepoSource        string
		ContributorSource string
		MaxReposPerTopic  int
		MaxContributors   int
		RendererUrl       string
	}

	Kafka struct {
		Brokers  []string
		Producer KafkaProducer
	}

	KafkaProducer struct {
		TopicTopDevs string
	}
)

type Config struct {
	App        App
	Mongo      Mongo
	GithubSite GithubSite
	GithubApi  GithubApi
	Crawler    Crawler
	Kafka      Kafka
}
