package loader

import (
	"context"
	"os"
	"sync"

	"node-data/internal/proposal"
)

// 文档注释：本地静态数据源
// 背景：未配置远端地址时使用随包分发的 JSON 文件；文件只在首次获取时读取一次，之后返回同一结果。
type FileSource struct {
	path string
	once sync.Once
	recs []proposal.Record
	err  error
}

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Fetch(ctx context.Context) ([]proposal.Record, error) {
	f.once.Do(func() {
		b, err := os.ReadFile(f.path)
		if err != nil {
			f.err = &TransportError{Source: f.Name(), Err: err}
			return
		}
		f.recs, f.err = decode(f.Name(), "application/json", b)
	})
	return f.recs, f.err
}
