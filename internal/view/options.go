package view

import (
	"slices"
	"strings"

	"node-data/internal/proposal"
)

// IPTypeOptions：IP 类型下拉的可选值，只受国家筛选约束（不受自身与搜索文本影响）
func IPTypeOptions(records []proposal.Record, country string) []string {
	return distinctOptions(records, Filter{IPType: All, Country: country}, func(l proposal.Location) proposal.Scalar { return l.IPType })
}

// CountryOptions：国家下拉的可选值，只受 IP 类型筛选约束
func CountryOptions(records []proposal.Record, ipType string) []string {
	return distinctOptions(records, Filter{IPType: ipType, Country: All}, func(l proposal.Location) proposal.Scalar { return l.Country })
}

// 文档注释：交叉筛选后的去重选项
// 背景：选中国家后 IP 类型只列出该国实际存在的取值，反之亦然；空值不作为选项。
// 约束：按原值去重（不归一化），结果按区域感知顺序升序，比较相等时再按码点排序保证确定性。
func distinctOptions(records []proposal.Record, f Filter, get func(proposal.Location) proposal.Scalar) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if !f.Matches(r) {
			continue
		}
		v := get(r.Location).String()
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	c := newCollator()
	slices.SortFunc(out, func(a, b string) int {
		if n := c.CompareString(a, b); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})
	if out == nil {
		out = []string{}
	}
	return out
}
