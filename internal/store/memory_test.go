package store

import (
	"context"
	"testing"

	"github.com/gitradar/topic-crawler/internal/model"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMemoryStoreInsertAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := NewMemoryStore()

	topics := []interface{}{
		model.Topic{Name: "3D", Url: "https://www.github.com/topics/3d", Description: "three dee"},
		model.Topic{Name: "Ajax", Url: "https://www.github.com/topics/ajax", Description: "async js"},
	}
	require.NoError(t, st.InsertMany(ctx, "topics_list", topics))

	var got []model.Topic
	require.NoError(t, st.Find(ctx, "topics_list", bson.M{}, &got))
	require.Len(t, got, 2)
	require.Equal(t, "3D", got[0].Name)
	require.Equal(t, "Ajax", got[1].Name)
}

func TestMemoryStoreFindWithFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.InsertOne(ctx, "topics_details", model.TopicDetail{TopicName: "3D"}))
	require.NoError(t, st.InsertOne(ctx, "topics_details", model.TopicDetail{TopicName: "Ajax"}))

	var got []model.TopicDetail
	require.NoError(t, st.Find(ctx, "topics_details", bson.M{"topic_name": "Ajax"}, &got))
	require.Len(t, got, 1)
	require.Equal(t, "Ajax", got[0].TopicName)
}

func TestMemoryStoreFindOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.InsertOne(ctx, "topics_list", model.Topic{Name: "3D"}))

	var got model.Topic
	require.NoError(t, st.FindOne(ctx, "topics_list", bson.M{"topic": "3D"}, &got))
	require.Equal(t, "3D", got.Name)

	err := st.FindOne(ctx, "topics_list", bson.M{"topic": "missing"}, &got)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteThenRepopulate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.InsertMany(ctx, "topics_list", []interface{}{
		model.Topic{Name: "old-1"},
		model.Topic{Name: "old-2"},
	}))

	deleted, err := st.DeleteMany(ctx, "topics_list", bson.M{})
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)
	require.Zero(t, st.Count("topics_list"))

	require.NoError(t, st.InsertOne(ctx, "topics_list", model.Topic{Name: "new-1"}))

	var got []model.Topic
	require.NoError(t, st.Find(ctx, "topics_list", bson.M{}, &got))
	require.Len(t, got, 1)
	require.Equal(t, "new-1", got[0].Name)
}

func TestMemoryStoreDeleteWithFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.InsertOne(ctx, "topics_details", model.TopicDetail{TopicName: "3D"}))
	require.NoError(t, st.InsertOne(ctx, "topics_details", model.TopicDetail{TopicName: "Ajax"}))

	deleted, err := st.DeleteMany(ctx, "topics_details", bson.M{"topic_name": "3D"})
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
	require.Equal(t, 1, st.Count("topics_details"))
}
