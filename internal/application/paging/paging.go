// Package paging 列表查询的分页参数
package paging

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize 页码从1开始；每页默认10条，最多100条
func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
