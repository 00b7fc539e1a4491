// 包 store：记录存储，独占持有最近一次获取的提案数组与获取时间
package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"node-data/internal/logger"
	"node-data/internal/metrics"
	"node-data/internal/proposal"
)

// Fetcher：数据加载器契约
type Fetcher interface {
	Fetch(ctx context.Context) ([]proposal.Record, error)
}

// Snapshot：一次加载后的不可变快照
// 约束：FetchedAt 为零值表示尚未成功加载（加载中或加载失败），区别于“已加载但为空”
type Snapshot struct {
	Records    []proposal.Record
	FetchedAt  time.Time
	Generation uint64
}

// Loaded：是否有过成功加载
func (s *Snapshot) Loaded() bool { return !s.FetchedAt.IsZero() }

// 文档注释：记录存储
// 背景：通过原子指针整体切换快照，读路径无锁；重新加载总是整体替换，不做增量更新。
// 约束：调用方拿到的切片只读，派生视图一律生成新切片。
type Store struct {
	clock clockwork.Clock
	cur   atomic.Pointer[Snapshot]
	gen   atomic.Uint64
}

func New() *Store { return NewWithClock(clockwork.NewRealClock()) }

func NewWithClock(c clockwork.Clock) *Store {
	s := &Store{clock: c}
	s.cur.Store(&Snapshot{})
	return s
}

// Snapshot：当前快照
func (s *Store) Snapshot() *Snapshot { return s.cur.Load() }

// Records：当前记录（实现 view.Source）
func (s *Store) Records() []proposal.Record { return s.cur.Load().Records }

// Replace：以新数组替换存储并记录获取时间
func (s *Store) Replace(records []proposal.Record) *Snapshot {
	snap := &Snapshot{Records: records, FetchedAt: s.clock.Now(), Generation: s.gen.Add(1)}
	s.cur.Store(snap)
	metrics.RecordsLoaded.Set(float64(len(records)))
	return snap
}

// Reset：清空存储且不记录获取时间
func (s *Store) Reset() *Snapshot {
	snap := &Snapshot{Generation: s.gen.Add(1)}
	s.cur.Store(snap)
	metrics.RecordsLoaded.Set(0)
	return snap
}

// 文档注释：加载并替换存储
// 背景：获取失败时降级为空存储（不抛给视图层），错误仅返回给调用方记录日志。
func (s *Store) Load(ctx context.Context, f Fetcher) error {
	records, err := f.Fetch(ctx)
	if err != nil {
		s.Reset()
		logger.L().Error("store_reset", "err", err)
		return err
	}
	snap := s.Replace(records)
	logger.L().Info("store_loaded", "records", len(records), "generation", snap.Generation)
	return nil
}
