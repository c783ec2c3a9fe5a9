// Gói partition chia danh sách công việc thành các đoạn liên tiếp để
// phân phối cho worker. Các đoạn phủ kín toàn bộ danh sách, không chồng
// lấn và giữ nguyên thứ tự.

package partition

// Range là nửa khoảng [Start, End) trên danh sách gốc
type Range struct {
	Start int
	End   int
}

// Len trả về số phần tử trong đoạn
func (r Range) Len() int {
	return r.End - r.Start
}

// BySize chia total phần tử thành các đoạn có kích thước size, đoạn cuối
// có thể ngắn hơn
func BySize(total, size int) []Range {
	if total <= 0 || size <= 0 {
		return nil
	}

	ranges := make([]Range, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}

// ByCount chia total phần tử thành n đoạn gần bằng nhau, phần dư dồn vào
// đoạn cuối
func ByCount(total, n int) []Range {
	if total <= 0 || n <= 0 {
		return nil
	}
	if n > total {
		n = total
	}

	size := total / n
	ranges := make([]Range, 0, n)
	for i := 0; i < n; i++ {
		start := i * size
		end := start + size
		if i == n-1 {
			end = total
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}
