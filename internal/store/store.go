// Gói store trừu tượng hóa tầng lưu trữ document. Crawler chỉ làm việc
// qua interface Store nên có thể chạy trên MongoDB thật hoặc store trong
// bộ nhớ khi test.

package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: document not found")

// Store là tập thao tác tối thiểu mà pipeline cần: refresh một collection
// bằng DeleteMany rồi InsertMany, đọc lại bằng Find/FindOne.
type Store interface {
	InsertOne(ctx context.Context, collection string, document interface{}) error
	InsertMany(ctx context.Context, collection string, documents []interface{}) error
	DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error)
	Find(ctx context.Context, collection string, filter interface{}, results interface{}) error
	FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error
	Close(ctx context.Context) error
}
