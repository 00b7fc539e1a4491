package view

import (
	"sync"

	"node-data/internal/proposal"
)

// Source：只读记录来源（通常为记录存储）
type Source interface {
	Records() []proposal.Record
}

// Snapshot：表格当前可渲染的全部内容
type Snapshot struct {
	Page
	Filter         Filter
	Sort           Sort
	Buttons        []PageButton
	IPTypeOptions  []string
	CountryOptions []string
}

// 文档注释：表格状态（唯一权威状态对象）
// 背景：持有过滤、排序与当前页；每个处理入口只修改对应状态片段，然后从记录来源完整重算视图，避免级联更新的先后顺序问题。
// 约束：搜索、分类筛选、排序变化均把当前页重置为 1；页数缩小时由 View 把当前页夹回范围内，两种机制互不冲突。
type Table struct {
	mu     sync.Mutex
	src    Source
	filter Filter
	sort   Sort
	page   int
}

func NewTable(src Source) *Table {
	return &Table{src: src, filter: DefaultFilter(), sort: Sort{Order: Asc}, page: 1}
}

func (t *Table) OnSearchChange(text string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter.Search = text
	t.page = 1
	return t.render()
}

func (t *Table) OnIPTypeChange(value string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter.IPType = value
	t.page = 1
	return t.render()
}

func (t *Table) OnCountryChange(value string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter.Country = value
	t.page = 1
	return t.render()
}

func (t *Table) OnSortHeaderClick(field string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sort = t.sort.Toggle(field)
	t.page = 1
	return t.render()
}

// OnPageClick：跳转到第 n 页，越界值在重算时被夹取
func (t *Table) OnPageClick(n int) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = n
	return t.render()
}

// View：按当前状态重算（记录来源重新加载后调用即可得到新视图）
func (t *Table) View() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.render()
}

func (t *Table) render() Snapshot {
	snap := Render(t.src.Records(), t.filter, t.sort, t.page)
	t.page = snap.Page.Page
	return snap
}

// Render：无状态地计算一次完整视图（页面、分页按钮、两个下拉选项）
func Render(records []proposal.Record, f Filter, s Sort, page int) Snapshot {
	p := Compute(records, f, s, page)
	return Snapshot{
		Page:           p,
		Filter:         f,
		Sort:           s,
		Buttons:        PageButtons(p.Page, p.NumPages),
		IPTypeOptions:  IPTypeOptions(records, f.Country),
		CountryOptions: CountryOptions(records, f.IPType),
	}
}
