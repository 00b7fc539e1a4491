package loader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"node-data/internal/logger"
	"node-data/internal/proposal"
)

// DefaultTimeout：上游请求默认超时
const DefaultTimeout = 10 * time.Second

// 文档注释：远端 discovery 数据源
// 背景：GET 上游接口获取提案数组；非 2xx 视为传输失败；Content-Type 不是 JSON 但响应体可解析时照常接受。
// 约束：客户端超时默认 10s；取消由 ctx 控制。
type HTTPSource struct {
	name   string
	url    string
	client *http.Client
}

func NewHTTPSource(name, url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPSource{name: name, url: url, client: client}
}

func (h *HTTPSource) Name() string { return h.name }

func (h *HTTPSource) Fetch(ctx context.Context) ([]proposal.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, &TransportError{Source: h.name, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	logger.L().Debug("fetch_req", "source", h.name, "url", h.url)
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &TransportError{Source: h.name, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{Source: h.name, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Source: h.name, Err: err}
	}
	ct := resp.Header.Get("Content-Type")
	if !isJSONContent(ct) {
		logger.L().Debug("fetch_lenient_content_type", "source", h.name, "content_type", ct)
	}
	return decode(h.name, ct, body)
}

func isJSONContent(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "text/json")
}

// decode：解析记录数组；失败时错误信息包含声明的 Content-Type 与响应体预览
func decode(source, contentType string, body []byte) ([]proposal.Record, error) {
	var out []proposal.Record
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ParseError{Source: source, ContentType: contentType, Preview: preview(body), Err: err}
	}
	if out == nil {
		out = []proposal.Record{}
	}
	return out, nil
}
