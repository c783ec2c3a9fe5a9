package store

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore giữ document trong bộ nhớ dưới dạng bson.Raw, dùng cho
// test. Round-trip qua bson để hành vi encode/decode giống Mongo thật.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]bson.Raw
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]bson.Raw),
	}
}

func (s *MemoryStore) InsertOne(ctx context.Context, collection string, document interface{}) error {
	raw, err := bson.Marshal(document)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], raw)
	return nil
}

func (s *MemoryStore) InsertMany(ctx context.Context, collection string, documents []interface{}) error {
	raws := make([]bson.Raw, 0, len(documents))
	for _, doc := range documents {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		raws = append(raws, raw)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], raws...)
	return nil
}

func (s *MemoryStore) DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error) {
	match, err := filterDoc(filter)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]bson.Raw, 0, len(s.collections[collection]))
	deleted := int64(0)
	for _, raw := range s.collections[collection] {
		if matches(raw, match) {
			deleted++
			continue
		}
		kept = append(kept, raw)
	}
	s.collections[collection] = kept
	return deleted, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filter interface{}, results interface{}) error {
	match, err := filterDoc(filter)
	if err != nil {
		return err
	}

	s.mu.Lock()
	raws := make([]bson.Raw, 0, len(s.collections[collection]))
	for _, raw := range s.collections[collection] {
		if matches(raw, match) {
			raws = append(raws, raw)
		}
	}
	s.mu.Unlock()

	// results phải là *[]T, decode từng document rồi append bằng reflect
	slicePtr := reflect.ValueOf(results)
	sliceVal := slicePtr.Elem()
	elemType := sliceVal.Type().Elem()
	out := reflect.MakeSlice(sliceVal.Type(), 0, len(raws))
	for _, raw := range raws {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	sliceVal.Set(out)
	return nil
}

func (s *MemoryStore) FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error {
	match, err := filterDoc(filter)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, raw := range s.collections[collection] {
		if matches(raw, match) {
			return bson.Unmarshal(raw, result)
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Count trả về số document trong một collection, tiện cho assert trong test
func (s *MemoryStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func filterDoc(filter interface{}) (bson.M, error) {
	if filter == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(filter)
	if err != nil {
		return nil, err
	}
	var match bson.M
	if err := bson.Unmarshal(raw, &match); err != nil {
		return nil, err
	}
	return match, nil
}

// matches so khớp bằng trên các trường của filter, đủ cho filter dạng
// {field: value} mà crawler dùng
func matches(raw bson.Raw, match bson.M) bool {
	if len(match) == 0 {
		return true
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return false
	}
	for key, want := range match {
		got, ok := doc[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
