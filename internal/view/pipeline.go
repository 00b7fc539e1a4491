package view

import "node-data/internal/proposal"

// PageSize：每页固定 50 行
const PageSize = 50

// Page：一次视图计算的结果
type Page struct {
	Records  []proposal.Record
	Page     int
	NumPages int
	Total    int
}

// NumPages：max(1, ceil(n/PageSize))，空集合也有 1 页
func NumPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage：把页码限制在 [1, numPages]
func ClampPage(page, numPages int) int {
	if page > numPages {
		page = numPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// 文档注释：视图流水线
// 背景：过滤 → 排序 → 计算页数 → 页码夹取 → 切片，每次状态变化完整重算；对空集合也总能产出结果。
// 约束：不修改 records；返回的 Records 与输入不共享底层数组的写入。
func Compute(records []proposal.Record, f Filter, s Sort, page int) Page {
	filtered := f.Apply(records)
	sorted := s.Apply(filtered)
	n := NumPages(len(sorted))
	p := ClampPage(page, n)
	start := (p - 1) * PageSize
	end := min(start+PageSize, len(sorted))
	rows := make([]proposal.Record, 0, end-start)
	rows = append(rows, sorted[start:end]...)
	return Page{Records: rows, Page: p, NumPages: n, Total: len(sorted)}
}
