package extractor

import "fmt"

// ExtractionError báo hiệu một trường bắt buộc không bóc tách được,
// phân biệt với lỗi mạng. Chỉ record chứa trường đó bị bỏ qua, các
// record khác trong cùng topic vẫn được xử lý tiếp.
type ExtractionError struct {
	Field  string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %s", e.Field, e.Reason)
}

func newExtractionError(field, format string, args ...interface{}) *ExtractionError {
	return &ExtractionError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
