package loader

import (
	"fmt"
	"unicode/utf8"
)

// previewLimit：解析失败时附带的响应体预览长度（字符数）
const previewLimit = 200

// TransportError：网络错误或非 2xx 响应
// 约束：StatusCode 为 0 表示请求未得到响应
type TransportError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: request failed with status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError：传输成功但响应体不是合法的记录数组
type ParseError struct {
	Source      string
	ContentType string
	Preview     string
	Err         error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected content type: %s; preview: %s", e.ContentType, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }

// preview：截取前 200 个字符，不切断多字节字符
func preview(body []byte) string {
	if utf8.RuneCount(body) <= previewLimit {
		return string(body)
	}
	n := 0
	for i := range string(body) {
		if n == previewLimit {
			return string(body[:i])
		}
		n++
	}
	return string(body)
}
