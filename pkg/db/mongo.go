package db

import (
	"context"
	"sync"
	"time"

	"github.com/gitradar/topic-crawler/cfg"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	initErr error
)

type Mongo struct {
	Config *cfg.Config
	once   sync.Once
	client *mongo.Client
}

func NewMongo(config *cfg.Config) (*Mongo, error) {
	return &Mongo{
		Config: config,
	}, nil
}

func (m *Mongo) Client() (*mongo.Client, error) {
	m.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Mở kết nối với cấu hình connection pool
		opts := options.Client().
			ApplyURI(m.Config.Mongo.Uri).
			SetMaxPoolSize(m.Config.Mongo.MaxPoolSize).
			SetMinPoolSize(m.Config.Mongo.MinPoolSize).
			SetMaxConnIdleTime(time.Duration(m.Config.Mongo.MaxIdleTimeMs) * time.Millisecond)

		var client *mongo.Client
		client, initErr = mongo.Connect(ctx, opts)
		if initErr != nil {
			return
		}

		initErr = client.Ping(ctx, nil)
		if initErr != nil {
			return
		}

		//
		m.client = client
	})
	return m.client, initErr
}

func (m *Mongo) Database() (*mongo.Database, error) {
	client, err := m.Client()
	if err != nil {
		return nil, err
	}
	return client.Database(m.Config.Mongo.Database), nil
}

func (m *Mongo) Collection(name string) (*mongo.Collection, error) {
	database, err := m.Database()
	if err != nil {
		return nil, err
	}
	return database.Collection(name), nil
}

func (m *Mongo) Ping() error {
	client, err := m.Client()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Ping(ctx, nil)
}

func (m *Mongo) Close() error {
	if m.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return m.client.Disconnect(ctx)
	}
	return nil
}

// EnsureIndexes tạo index cho các collection của crawler. Index trùng tên
// topic giúp truy vấn theo topic_name nhanh hơn khi đọc lại dữ liệu.
func (m *Mongo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := map[string]mongo.IndexModel{
		m.Config.Mongo.Collections.TopicsList: {
			Keys: bson.D{{Key: "topic", Value: 1}},
		},
		m.Config.Mongo.Collections.TopicsDetails: {
			Keys: bson.D{{Key: "topic_name", Value: 1}},
		},
		m.Config.Mongo.Collections.TopDevs: {
			Keys: bson.D{{Key: "topic_name", Value: 1}},
		},
	}

	for name, model := range indexes {
		coll, err := m.Collection(name)
		if err != nil {
			return err
		}
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
