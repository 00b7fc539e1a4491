// 包 ingest：周期性重新加载记录存储，运行在服务进程内的后台协程
package ingest

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"node-data/internal/logger"
	"node-data/internal/store"
)

// Scheduler：按固定间隔整体重载存储
// 约束：interval <= 0 时不启动；失败由日志记录，下一个周期照常执行，不做额外重试
type Scheduler struct {
	st       *store.Store
	f        store.Fetcher
	interval time.Duration
	clock    clockwork.Clock
}

func NewScheduler(st *store.Store, f store.Fetcher, interval time.Duration) *Scheduler {
	return &Scheduler{st: st, f: f, interval: interval, clock: clockwork.NewRealClock()}
}

// WithClock：替换时钟（测试使用）
func (s *Scheduler) WithClock(c clockwork.Clock) *Scheduler {
	s.clock = c
	return s
}

// Start：启动后台刷新，返回的 channel 在协程退出时关闭
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if s.interval <= 0 {
		close(done)
		return done
	}
	l := logger.L()
	t := s.clock.NewTicker(s.interval)
	go func() {
		defer close(done)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.Chan():
				l.Info("reload_start", "interval", s.interval)
				if err := s.st.Load(ctx, s.f); err != nil {
					l.Error("reload_error", "err", err)
				} else {
					l.Info("reload_done", "records", len(s.st.Records()))
				}
			}
		}
	}()
	return done
}
