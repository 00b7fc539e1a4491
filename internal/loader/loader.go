// 包 loader：数据加载器，按顺序尝试主数据源与可选的单个备用数据源
package loader

import (
	"context"
	"errors"
	"time"

	"node-data/internal/logger"
	"node-data/internal/metrics"
	"node-data/internal/proposal"
)

// Source：单个数据源
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]proposal.Record, error)
}

// 文档注释：加载器
// 背景：主数据源失败后顺序尝试备用数据源；最后一个数据源的错误原样返回，其余失败仅记录日志。
// 约束：最多两个数据源，不做循环重试；每次获取都记录指标。
type Loader struct {
	sources []Source
}

// New：fallback 可为 nil
func New(primary Source, fallback Source) *Loader {
	l := &Loader{sources: []Source{primary}}
	if fallback != nil {
		l.sources = append(l.sources, fallback)
	}
	return l
}

func (l *Loader) Fetch(ctx context.Context) ([]proposal.Record, error) {
	var lastErr error
	for i, src := range l.sources {
		recs, err := fetchObserved(ctx, src)
		if err == nil {
			return recs, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, err
		}
		if i < len(l.sources)-1 {
			logger.L().Error("fetch_failed_try_next", "source", src.Name(), "err", err)
		}
	}
	return nil, lastErr
}

func fetchObserved(ctx context.Context, src Source) ([]proposal.Record, error) {
	t0 := time.Now()
	recs, err := src.Fetch(ctx)
	metrics.FetchDurationMs.WithLabelValues(src.Name()).Observe(float64(time.Since(t0).Milliseconds()))
	metrics.FetchTotal.WithLabelValues(src.Name(), outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	logger.L().Debug("fetch_ok", "source", src.Name(), "records", len(recs))
	return recs, nil
}

func outcome(err error) string {
	var te *TransportError
	var pe *ParseError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &pe):
		return "parse_error"
	case errors.As(err, &te):
		return "transport_error"
	}
	return "error"
}
