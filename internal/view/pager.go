package view

// PageButton：分页控件中的一项；Ellipsis 为 true 时表示省略号
type PageButton struct {
	Page     int  `json:"page,omitempty"`
	Active   bool `json:"active,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// 文档注释：分页按钮窗口
// 背景：总页数不超过 7 时列出全部页；否则固定显示首页与末页，中间为当前页前后各 2 页，
// 当前页 > 4 时首页后加省略号，当前页 < 总页数-3 时末页前加省略号。
func PageButtons(current, numPages int) []PageButton {
	if numPages < 1 {
		numPages = 1
	}
	current = ClampPage(current, numPages)
	btn := func(p int) PageButton { return PageButton{Page: p, Active: p == current} }
	var out []PageButton
	if numPages <= 7 {
		for i := 1; i <= numPages; i++ {
			out = append(out, btn(i))
		}
		return out
	}
	out = append(out, btn(1))
	if current > 4 {
		out = append(out, PageButton{Ellipsis: true})
	}
	for i := current - 2; i <= current+2; i++ {
		if i < 2 || i >= numPages {
			continue
		}
		out = append(out, btn(i))
	}
	if current < numPages-3 {
		out = append(out, PageButton{Ellipsis: true})
	}
	return append(out, btn(numPages))
}
