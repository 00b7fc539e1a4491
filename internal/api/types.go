package api

import (
	"time"

	"node-data/internal/proposal"
	"node-data/internal/view"
)

// 文档注释：视图返回结构（对外）
// 背景：统一无状态查询与有状态表格两类接口的序列化模型；记录按上游原样输出。
// 约束：字段稳定；新增字段需评估前端依赖。
type viewResult struct {
	Records        []proposal.Record `json:"records"`
	Page           int               `json:"page"`
	NumPages       int               `json:"num_pages"`
	Total          int               `json:"total"`
	Pages          []view.PageButton `json:"pages"`
	Filter         view.Filter       `json:"filter"`
	Sort           view.Sort         `json:"sort"`
	IPTypeOptions  []string          `json:"ip_type_options"`
	CountryOptions []string          `json:"country_options"`
	statusResult
}

// 文档注释：加载状态
// 背景：区分“加载中/加载失败”（loaded=false）与“已加载但为空”。
type statusResult struct {
	Loaded      bool       `json:"loaded"`
	Count       int        `json:"count"`
	LastUpdated *time.Time `json:"last_updated"`
	FetchedAgo  string     `json:"fetched_ago,omitempty"`
}

type errorResult struct {
	Error string `json:"error"`
}
