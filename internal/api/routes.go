// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jellydator/ttlcache/v3"

	"node-data/internal/logger"
	"node-data/internal/metrics"
	"node-data/internal/store"
	"node-data/internal/view"
)

// viewCacheCapacity：无状态视图缓存的最大条目数
const viewCacheCapacity = 1024

var errBadParam = errors.New("bad parameter")

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 /api 前缀
// 约束：viewTTL <= 0 时关闭无状态视图缓存
func BuildRoutes(st *store.Store, tbl *view.Table, viewTTL time.Duration) *http.ServeMux {
	var cache *ttlcache.Cache[string, view.Snapshot]
	if viewTTL > 0 {
		cache = ttlcache.New(
			ttlcache.WithTTL[string, view.Snapshot](viewTTL),
			ttlcache.WithCapacity[string, view.Snapshot](viewCacheCapacity),
			ttlcache.WithDisableTouchOnHit[string, view.Snapshot](),
		)
	}

	apiMux := http.NewServeMux()

	// 无状态查询：与服务端渲染版本一致，所有状态由查询参数给出
	apiMux.HandleFunc("/proposals", func(w http.ResponseWriter, r *http.Request) {
		metrics.ViewRequestsTotal.WithLabelValues("proposals").Inc()
		f, s, page, err := parseQuery(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		snap := st.Snapshot()
		key := cacheKey(snap.Generation, f, s, page)
		if cache != nil {
			if it := cache.Get(key); it != nil {
				metrics.ViewCacheHitsTotal.Inc()
				writeJSON(w, http.StatusOK, toResult(it.Value(), snap))
				return
			}
		}
		t0 := time.Now()
		v := view.Render(snap.Records, f, s, page)
		metrics.ViewDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
		if cache != nil {
			cache.Set(key, v, ttlcache.DefaultTTL)
		}
		logger.L().Debug("view_render", "total", v.Total, "page", v.Page.Page, "num_pages", v.NumPages)
		writeJSON(w, http.StatusOK, toResult(v, snap))
	})

	// 有状态表格：对应前端控件的处理入口，每次调用后返回重算的视图
	table := func(name string, apply func(q url.Values) (view.Snapshot, error)) {
		apiMux.HandleFunc(name, func(w http.ResponseWriter, r *http.Request) {
			metrics.ViewRequestsTotal.WithLabelValues("table").Inc()
			v, err := apply(r.URL.Query())
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			writeJSON(w, http.StatusOK, toResult(v, st.Snapshot()))
		})
	}
	table("/table", func(q url.Values) (view.Snapshot, error) {
		return tbl.View(), nil
	})
	table("/table/search", func(q url.Values) (view.Snapshot, error) {
		return tbl.OnSearchChange(q.Get("q")), nil
	})
	table("/table/ip-type", func(q url.Values) (view.Snapshot, error) {
		return tbl.OnIPTypeChange(selector(q.Get("value"))), nil
	})
	table("/table/country", func(q url.Values) (view.Snapshot, error) {
		return tbl.OnCountryChange(selector(q.Get("value"))), nil
	})
	table("/table/sort", func(q url.Values) (view.Snapshot, error) {
		field := q.Get("field")
		if field == "" || !view.ValidSortField(field) {
			return view.Snapshot{}, errBadParam
		}
		return tbl.OnSortHeaderClick(field), nil
	})
	table("/table/page", func(q url.Values) (view.Snapshot, error) {
		n, err := strconv.Atoi(q.Get("n"))
		if err != nil {
			return view.Snapshot{}, errBadParam
		}
		return tbl.OnPageClick(n), nil
	})

	apiMux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toStatus(st.Snapshot()))
	})

	return apiMux
}

// parseQuery：解析无状态查询参数；缺省下拉为 All，缺省方向为 asc，缺省页码为 1
func parseQuery(q url.Values) (view.Filter, view.Sort, int, error) {
	f := view.Filter{
		Search:  q.Get("search"),
		IPType:  selector(q.Get("ip_type")),
		Country: selector(q.Get("country")),
	}
	s := view.Sort{Field: q.Get("sort"), Order: view.Order(q.Get("order"))}
	if !view.ValidSortField(s.Field) {
		return f, s, 0, errBadParam
	}
	switch s.Order {
	case "":
		s.Order = view.Asc
	case view.Asc, view.Desc:
	default:
		return f, s, 0, errBadParam
	}
	page := 1
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return f, s, 0, errBadParam
		}
		page = n
	}
	return f, s, page, nil
}

func selector(v string) string {
	if v == "" {
		return view.All
	}
	return v
}

func cacheKey(gen uint64, f view.Filter, s view.Sort, page int) string {
	b, _ := json.Marshal(struct {
		G uint64
		F view.Filter
		S view.Sort
		P int
	}{gen, f, s, page})
	return string(b)
}

func toStatus(snap *store.Snapshot) statusResult {
	out := statusResult{Loaded: snap.Loaded(), Count: len(snap.Records)}
	if snap.Loaded() {
		t := snap.FetchedAt
		out.LastUpdated = &t
		out.FetchedAgo = humanize.Time(t)
	}
	return out
}

func toResult(v view.Snapshot, snap *store.Snapshot) viewResult {
	return viewResult{
		Records:        v.Records,
		Page:           v.Page.Page,
		NumPages:       v.NumPages,
		Total:          v.Total,
		Pages:          v.Buttons,
		Filter:         v.Filter,
		Sort:           v.Sort,
		IPTypeOptions:  v.IPTypeOptions,
		CountryOptions: v.CountryOptions,
		statusResult:   toStatus(snap),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResult{Error: err.Error()})
}
