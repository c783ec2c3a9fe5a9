package extractor

import (
	"strconv"
	"strings"
)

// ProcessStarCount chuyển chuỗi số sao rút gọn của GitHub thành số
// nguyên. Thứ tự ưu tiên k, M, B giống trang nguồn: bỏ ký tự đơn vị,
// parse phần còn lại thành float rồi nhân hệ số, cắt xuống số nguyên.
// Không có đơn vị nghĩa là giá trị nhỏ hơn 1000.
func ProcessStarCount(raw string) (int64, error) {
	value := strings.TrimSpace(raw)

	switch {
	case strings.Contains(value, "k"):
		return expandStarCount(value, "k", 1_000)
	case strings.Contains(value, "M"):
		return expandStarCount(value, "M", 1_000_000)
	case strings.Contains(value, "B"):
		return expandStarCount(value, "B", 1_000_000_000)
	default:
		total, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, newExtractionError("star_count", "cannot parse %q", raw)
		}
		return total, nil
	}
}

func expandStarCount(value, unit string, multiplier float64) (int64, error) {
	number, err := strconv.ParseFloat(strings.ReplaceAll(value, unit, ""), 64)
	if err != nil {
		return 0, newExtractionError("star_count", "cannot parse %q", value)
	}
	return int64(number * multiplier), nil
}
