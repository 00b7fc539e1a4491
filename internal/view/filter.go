// 包 view：客户端数据视图流水线（过滤 → 排序 → 分页），以及下拉选项推导
// 约束：所有函数均为纯函数，只读访问输入切片，结果为新切片
package view

import (
	"strings"

	"node-data/internal/proposal"
)

// All：下拉筛选的“不过滤”取值
const All = "All"

// Filter：过滤状态（搜索文本 + 两个分类筛选）
type Filter struct {
	Search  string `json:"search"`
	IPType  string `json:"ip_type"`
	Country string `json:"country"`
}

// DefaultFilter：默认不过滤
func DefaultFilter() Filter { return Filter{IPType: All, Country: All} }

// 文档注释：判定记录是否满足过滤状态
// 背景：分类筛选为硬性 AND 关口；通过后搜索文本在所有标量字段上做 OR 匹配（大小写不敏感的子串匹配）。
// 约束：空搜索直接放行，仅为跳过逐字段扫描，结果与扫描一致（任何串都包含空串）。
func (f Filter) Matches(r proposal.Record) bool {
	if !categoryMatches(r.Location.IPType, f.IPType) {
		return false
	}
	if !categoryMatches(r.Location.Country, f.Country) {
		return false
	}
	q := proposal.Normalize(f.Search)
	if q == "" {
		return true
	}
	for _, v := range r.Values() {
		if strings.Contains(proposal.Normalize(v.String()), q) {
			return true
		}
	}
	return false
}

func categoryMatches(v proposal.Scalar, selected string) bool {
	if selected == All {
		return true
	}
	return proposal.Normalize(v.String()) == proposal.Normalize(selected)
}

// Apply：返回满足过滤状态的记录，保持原有顺序
func (f Filter) Apply(records []proposal.Record) []proposal.Record {
	out := make([]proposal.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
