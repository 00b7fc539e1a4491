package loader

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"node-data/internal/logger"
	"node-data/internal/metrics"
	"node-data/internal/proposal"
)

// SnapshotKey：Redis 中缓存上游快照的键
const SnapshotKey = "proposals:snapshot"

// snapshotCache：*redis.Client 的子集，便于测试替换
type snapshotCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// 文档注释：带 Redis 快照缓存的数据源
// 背景：多实例或频繁重启时避免重复拉取上游；命中直接返回缓存快照，未命中则拉取后写入。
// 约束：缓存读写失败只降级为直接拉取，不影响加载结果；TTL 过期后自然失效。
type CachedSource struct {
	inner Source
	rc    snapshotCache
	ttl   time.Duration
}

func NewCachedSource(inner Source, rc snapshotCache, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedSource{inner: inner, rc: rc, ttl: ttl}
}

func (c *CachedSource) Name() string { return c.inner.Name() }

func (c *CachedSource) Fetch(ctx context.Context) ([]proposal.Record, error) {
	s, err := c.rc.Get(ctx, SnapshotKey).Result()
	switch {
	case err == nil && s != "":
		var recs []proposal.Record
		derr := json.Unmarshal([]byte(s), &recs)
		if derr == nil {
			metrics.SnapshotCacheHitsTotal.Inc()
			logger.L().Debug("snapshot_cache_hit", "records", len(recs))
			if recs == nil {
				recs = []proposal.Record{}
			}
			return recs, nil
		}
		logger.L().Error("snapshot_cache_decode_error", "err", derr)
	case err != nil && err != redis.Nil:
		logger.L().Error("snapshot_cache_get_error", "err", err)
	}
	metrics.SnapshotCacheMissesTotal.Inc()
	recs, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(recs)
	if err == nil {
		err = c.rc.Set(ctx, SnapshotKey, string(b), c.ttl).Err()
	}
	if err != nil {
		logger.L().Error("snapshot_cache_set_error", "err", err)
	}
	return recs, nil
}
