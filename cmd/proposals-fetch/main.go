// 数据快照工具：从上游拉取提案数组并写入本地 JSON 文件，供未配置远端地址时的本地数据源使用
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"node-data/internal/loader"
	"node-data/internal/logger"
	"node-data/internal/utils"
)

func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()

	url := utils.EnvString("DATA_URL", "https://discovery.mysterium.network/api/v3/proposals")
	out := utils.EnvString("DATA_FILE", filepath.Join("data", "proposals.json"))
	timeout := utils.EnvDuration("FETCH_TIMEOUT", loader.DefaultTimeout)
	client := &http.Client{Timeout: timeout}

	var fallback loader.Source
	if fb := os.Getenv("DATA_FALLBACK_URL"); fb != "" {
		fallback = loader.NewHTTPSource("fallback", fb, client)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout+time.Second)
	defer cancel()
	recs, err := loader.New(loader.NewHTTPSource("primary", url, client), fallback).Fetch(ctx)
	if err != nil {
		l.Error("fetch_error", "err", err)
		os.Exit(1)
	}
	b, err := json.Marshal(recs)
	if err != nil {
		l.Error("encode_error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		l.Error("mkdir_error", "err", err)
		os.Exit(1)
	}
	// 先写临时文件再改名，避免服务读到半截文件
	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		l.Error("write_error", "err", err)
		os.Exit(1)
	}
	if err := os.Rename(tmp, out); err != nil {
		l.Error("rename_error", "err", err)
		os.Exit(1)
	}
	l.Info("snapshot_written", "path", out, "records", len(recs))
}
