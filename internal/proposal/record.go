// 包 proposal：节点提案记录模型，负责上游 JSON 的解码与字段读取，不做任何重命名或结构调整
package proposal

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Scalar：标量字段的文本形式
// 背景：上游字段可能是字符串、数字或 null；数字保留字面量文本，null/缺失统一为空串
type Scalar string

func (s Scalar) String() string { return string(s) }

// UnmarshalJSON：接受字符串、数字与 null；其余类型（布尔/对象/数组）置空
func (s *Scalar) UnmarshalJSON(b []byte) error {
	v, _ := scalarOf(b)
	*s = v
	return nil
}

// scalarOf：解析单个 JSON 值为标量
// 约束：第二个返回值表示是否为可参与搜索的标量（字符串、数字、null）
func scalarOf(raw json.RawMessage) (Scalar, bool) {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return "", false
	}
	switch c := b[0]; {
	case c == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return "", false
		}
		return Scalar(str), true
	case c == 'n':
		return "", true
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return "", false
		}
		return Scalar(n.String()), true
	}
	return "", false
}

// Location：提案的地理与网络信息
// 约束：Extra 保存未建模的标量字段，仅用于搜索
type Location struct {
	Continent  Scalar
	Country    Scalar
	Region     Scalar
	City       Scalar
	PostalCode Scalar
	ISP        Scalar
	ASN        Scalar
	IPType     Scalar
	Extra      map[string]Scalar
}

// Field：按 JSON 字段名读取位置列，未知字段回退到 Extra，缺失返回空串
func (l Location) Field(name string) Scalar {
	switch name {
	case "continent":
		return l.Continent
	case "country":
		return l.Country
	case "region":
		return l.Region
	case "city":
		return l.City
	case "postalCode":
		return l.PostalCode
	case "isp":
		return l.ISP
	case "asn":
		return l.ASN
	case "ip_type":
		return l.IPType
	}
	return l.Extra[name]
}

func (l *Location) set(name string, v Scalar) {
	switch name {
	case "continent":
		l.Continent = v
	case "country":
		l.Country = v
	case "region":
		l.Region = v
	case "city":
		l.City = v
	case "postalCode":
		l.PostalCode = v
	case "isp":
		l.ISP = v
	case "asn":
		l.ASN = v
	case "ip_type":
		l.IPType = v
	default:
		if l.Extra == nil {
			l.Extra = make(map[string]Scalar)
		}
		l.Extra[name] = v
	}
}

// 文档注释：节点提案记录
// 背景：上游 discovery 接口返回的单条提案；获取后视为不可变，过滤/排序/分页均只读访问。
// 约束：Extra 为其余顶层标量；Nested 为除 location 外其他嵌套对象的标量（仅展开一层）。
type Record struct {
	ID         Scalar
	ProviderID Scalar
	Location   Location
	Extra      map[string]Scalar
	Nested     map[string]map[string]Scalar

	raw json.RawMessage
}

// UnmarshalJSON：解码上游对象并保留原始字节
func (r *Record) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Record
	for k, v := range m {
		switch k {
		case "id":
			out.ID, _ = scalarOf(v)
		case "provider_id":
			out.ProviderID, _ = scalarOf(v)
		case "location":
			fields, ok := objectScalars(v)
			if !ok {
				continue
			}
			for name, val := range fields {
				out.Location.set(name, val)
			}
		default:
			if s, ok := scalarOf(v); ok {
				if out.Extra == nil {
					out.Extra = make(map[string]Scalar)
				}
				out.Extra[k] = s
				continue
			}
			if fields, ok := objectScalars(v); ok {
				if out.Nested == nil {
					out.Nested = make(map[string]map[string]Scalar)
				}
				out.Nested[k] = fields
			}
		}
	}
	if m != nil {
		out.raw = append(json.RawMessage(nil), b...)
	}
	*r = out
	return nil
}

// objectScalars：读取 JSON 对象中的标量字段；非对象返回 false
func objectScalars(raw json.RawMessage) (map[string]Scalar, bool) {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 || b[0] != '{' {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, false
	}
	out := make(map[string]Scalar, len(m))
	for k, v := range m {
		if s, ok := scalarOf(v); ok {
			out[k] = s
		}
	}
	return out, true
}

// MarshalJSON：解码得到的记录原样输出；代码构造的记录按上游结构输出
func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	loc := map[string]any{}
	for _, name := range []string{"continent", "country", "region", "city", "postalCode", "isp", "asn", "ip_type"} {
		if v := r.Location.Field(name); v != "" {
			loc[name] = v.String()
		}
	}
	for k, v := range r.Location.Extra {
		loc[k] = v.String()
	}
	m := map[string]any{"location": loc}
	for k, v := range r.Extra {
		m[k] = v.String()
	}
	for k, fields := range r.Nested {
		nested := make(map[string]string, len(fields))
		for nk, nv := range fields {
			nested[nk] = nv.String()
		}
		m[k] = nested
	}
	if r.ID != "" {
		m["id"] = r.ID.String()
	}
	if r.ProviderID != "" {
		m["provider_id"] = r.ProviderID.String()
	} else {
		m["provider_id"] = nil
	}
	return json.Marshal(m)
}

// Values：按“展开一层”的规则返回记录中的全部标量，供全文搜索使用
func (r Record) Values() []Scalar {
	out := make([]Scalar, 0, 10+len(r.Extra)+len(r.Location.Extra))
	out = append(out, r.ID, r.ProviderID)
	for _, v := range r.Extra {
		out = append(out, v)
	}
	l := r.Location
	out = append(out, l.Continent, l.Country, l.Region, l.City, l.PostalCode, l.ISP, l.ASN, l.IPType)
	for _, v := range l.Extra {
		out = append(out, v)
	}
	for _, fields := range r.Nested {
		for _, v := range fields {
			out = append(out, v)
		}
	}
	return out
}

// Normalize：比较前的统一归一化（去首尾空白并转小写）
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
