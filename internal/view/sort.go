package view

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"node-data/internal/proposal"
)

// Order：排序方向
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// SortFields：可点击排序的列；provider_id 读取顶层字段，其余读取 location
var SortFields = []string{"continent", "country", "region", "city", "isp", "ip_type", "provider_id"}

// ValidSortField：空串表示不排序
func ValidSortField(field string) bool {
	return field == "" || slices.Contains(SortFields, field)
}

// Sort：排序状态，Field 为空表示保持获取时的自然顺序
type Sort struct {
	Field string `json:"field"`
	Order Order  `json:"order"`
}

// Toggle：点击表头。同一列 asc → desc，其余情况重置为 asc
func (s Sort) Toggle(field string) Sort {
	if field == s.Field && s.Order == Asc {
		return Sort{Field: field, Order: Desc}
	}
	return Sort{Field: field, Order: Asc}
}

// Apply：按当前状态排序；Field 为空时原样返回
func (s Sort) Apply(records []proposal.Record) []proposal.Record {
	if s.Field == "" {
		return records
	}
	return Sorted(records, s.Field, s.Order)
}

func sortValue(r proposal.Record, field string) string {
	if field == "provider_id" {
		return proposal.Normalize(r.ProviderID.String())
	}
	return proposal.Normalize(r.Location.Field(field).String())
}

// newCollator：按根语言区域比较字符串
// 约束：collate.Collator 内部带缓冲，不可并发复用，每次排序单独创建
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// 文档注释：按字段与方向稳定排序
// 背景：返回新切片，不修改输入（输入通常来自记录存储的快照）；值相等的记录保持输入中的相对顺序。
// 约束：比较为区域感知的字符串比较而非码点比较；desc 仅反转比较结果，不影响并列项的稳定性。
func Sorted(records []proposal.Record, field string, order Order) []proposal.Record {
	type keyed struct {
		key string
		rec proposal.Record
	}
	ks := make([]keyed, len(records))
	for i, r := range records {
		ks[i] = keyed{key: sortValue(r, field), rec: r}
	}
	c := newCollator()
	slices.SortStableFunc(ks, func(a, b keyed) int {
		n := c.CompareString(a.key, b.key)
		if order == Desc {
			return -n
		}
		return n
	})
	out := make([]proposal.Record, len(ks))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out
}
